package teamtrials

import (
	"fmt"
	"strconv"

	"github.com/kbinani/screenshot"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"github.com/ConserveLee/uma-auto/internal/assets"
	"github.com/ConserveLee/uma-auto/internal/config"
	"github.com/ConserveLee/uma-auto/internal/engine"
	"github.com/ConserveLee/uma-auto/internal/logger"
	"github.com/ConserveLee/uma-auto/internal/web"
)

// NewPanel creates the team trials tab.
func NewPanel(store *config.Store, regions assets.Regions, cfg config.Config, board *web.Board) fyne.CanvasObject {
	// --- Data Binding ---
	logData := binding.NewStringList()
	statusData := binding.NewString()
	statusData.Set("Status: Ready")

	appLogger := logger.NewAppLogger(logData)

	// --- Bot Initialization ---
	vision := engine.NewVision(cfg.Display)
	pointer := engine.NewRobotPointer(cfg.Display, cfg.UseRandomClick)
	actor := engine.NewActor(vision, pointer)

	bot := NewBot(BotConfig{
		Actor:   actor,
		Pointer: pointer,
		Store:   store,
		Regions: regions,
	})
	bot.LogFunc = func(format string, args ...interface{}) { appLogger.Info(format, args...) }
	bot.DebugFunc = func(format string, args ...interface{}) { appLogger.Debug(format, args...) }
	bot.StatusFunc = func(status string) {
		statusData.Set(status)
		board.Set("team_trials", status)
	}

	// --- UI Components ---
	numDisplays := screenshot.NumActiveDisplays()
	var displayOptions []string
	for i := 0; i < numDisplays; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		displayOptions = append(displayOptions, fmt.Sprintf("Display %d (%dx%d)", i, bounds.Dx(), bounds.Dy()))
	}
	if len(displayOptions) == 0 {
		displayOptions = []string{"Display 0 (Default)"}
	}

	displaySelect := widget.NewSelect(displayOptions, func(selected string) {
		var id int
		if _, err := fmt.Sscanf(selected, "Display %d", &id); err != nil {
			id = 0
		}
		vision.SetDisplay(id)
		pointer.SetDisplay(id)
		board.SetDisplay(id)
		appLogger.Info("Switched to Display %d", id)
	})
	if len(displayOptions) > cfg.Display {
		displaySelect.SetSelected(displayOptions[cfg.Display])
	} else {
		displaySelect.SetSelected(displayOptions[0])
	}

	opponentSelect := widget.NewSelect([]string{"1 (hardest)", "2", "3 (easiest)"}, func(selected string) {
		row := int(selected[0] - '0')
		if err := store.Update(func(s *config.BotSettings) { s.TeamTrials.Opponent = row }); err != nil {
			appLogger.Error("Settings save failed: %v", err)
		}
	})
	current := store.Settings().TeamTrials.Opponent
	if current < 1 || current > 3 {
		current = 2
	}
	opponentSelect.SetSelectedIndex(current - 1)

	limitSelect := widget.NewSelect([]string{"Unlimited", "5", "10", "20", "50"}, func(selected string) {
		limit, _ := strconv.Atoi(selected) // "Unlimited" parses to 0
		if err := store.Update(func(s *config.BotSettings) { s.TeamTrials.MaxRaces = limit }); err != nil {
			appLogger.Error("Settings save failed: %v", err)
		}
	})
	if mr := store.Settings().TeamTrials.MaxRaces; mr > 0 {
		limitSelect.SetSelected(strconv.Itoa(mr))
	} else {
		limitSelect.SetSelected("Unlimited")
	}

	statusLabel := widget.NewLabelWithData(statusData)
	statusLabel.TextStyle = fyne.TextStyle{Bold: true}

	logList := widget.NewListWithData(
		logData,
		func() fyne.CanvasObject { return widget.NewLabel("Log entry template") },
		func(i binding.DataItem, o fyne.CanvasObject) { o.(*widget.Label).Bind(i.(binding.String)) },
	)
	logData.AddListener(binding.NewDataListener(func() {
		list, _ := logData.Get()
		if len(list) > 0 {
			logList.ScrollToBottom()
		}
	}))

	startBtn := widget.NewButton("Start Trials", nil)
	stopBtn := widget.NewButton("Stop", nil)
	stopBtn.Disable()

	startBtn.OnTapped = func() {
		statusData.Set("Status: Running")
		startBtn.Disable()
		stopBtn.Enable()
		displaySelect.Disable()
		bot.Start()
	}
	stopBtn.OnTapped = func() {
		bot.Stop()
		stopBtn.Disable()
		startBtn.Enable()
		displaySelect.Enable()
		statusData.Set("Status: Ready")
	}

	// --- Layout ---
	controls := container.NewVBox(
		widget.NewLabel("团队赛挂机配置:"),
		container.NewHBox(widget.NewLabel("Screen:"), displaySelect),
		container.NewHBox(widget.NewLabel("Opponent:"), opponentSelect, widget.NewLabel("Races:"), limitSelect),
		statusLabel,
		container.NewHBox(startBtn, stopBtn),
		widget.NewSeparator(),
		widget.NewLabel("运行日志:"),
	)

	return container.NewBorder(controls, nil, nil, nil, logList)
}
