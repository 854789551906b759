package career

import (
	"fmt"

	"github.com/kbinani/screenshot"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"github.com/ConserveLee/uma-auto/internal/assets"
	"github.com/ConserveLee/uma-auto/internal/config"
	"github.com/ConserveLee/uma-auto/internal/engine"
	"github.com/ConserveLee/uma-auto/internal/engine/ocr"
	"github.com/ConserveLee/uma-auto/internal/logger"
	"github.com/ConserveLee/uma-auto/internal/web"
)

// NewPanel creates the career tab: display selector, start/stop, the
// event settings dialog opener and the run log.
func NewPanel(win fyne.Window, store *config.Store, reader *ocr.Reader, regions assets.Regions, cfg config.Config, board *web.Board) fyne.CanvasObject {
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
		Actor:     actor,
		Vision:    vision,
		Pointer:   pointer,
		Reader:    reader,
		Store:     store,
		Regions:   regions,
		DebugDump: cfg.DebugDump,
	})
	bot.LogFunc = func(format string, args ...interface{}) { appLogger.Info(format, args...) }
	bot.DebugFunc = func(format string, args ...interface{}) { appLogger.Debug(format, args...) }
	bot.StatusFunc = func(status string) {
		statusData.Set(status)
		board.Set("career", status)
	}

	// --- UI Components ---

	// 1. Screen Selector
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

	// 2. Status & Logs
	statusLabel := widget.NewLabelWithData(statusData)
	statusLabel.TextStyle = fyne.TextStyle{Bold: true}

	logList := widget.NewListWithData(
		logData,
		func() fyne.CanvasObject { return widget.NewLabel("Log entry template") },
		func(i binding.DataItem, o fyne.CanvasObject) { o.(*widget.Label).Bind(i.(binding.String)) },
	)

	// Auto-scroll
	logData.AddListener(binding.NewDataListener(func() {
		list, _ := logData.Get()
		if len(list) > 0 {
			logList.ScrollToBottom()
		}
	}))

	// 3. Buttons
	startBtn := widget.NewButton("Start Career", nil)
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

	// 4. Settings: catalogs are rescanned on every open so fresh event
	// maps show up without a restart.
	settingsBtn := widget.NewButton("Event Settings", func() {
		cat := EventChoiceCatalogs{
			UmaMusume:    assets.ScanCatalog(assets.UmaMusumeDir),
			SupportCards: assets.ScanCatalog(assets.SupportCardDir),
		}
		ShowEventChoiceDialog(win, store.EventChoice(), cat, store.SaveEventChoice)
	})

	warnCheck := widget.NewCheck("Stop on race warning", func(on bool) {
		if err := store.Update(func(s *config.BotSettings) { s.StopOnWarning = on }); err != nil {
			appLogger.Error("Settings save failed: %v", err)
		}
	})
	warnCheck.SetChecked(store.Settings().StopOnWarning)

	// --- Layout ---
	controls := container.NewVBox(
		widget.NewLabel("育成挂机配置:"),
		container.NewHBox(widget.NewLabel("Screen:"), displaySelect),
		statusLabel,
		container.NewHBox(startBtn, stopBtn, settingsBtn),
		warnCheck,
		widget.NewSeparator(),
		widget.NewLabel("运行日志:"),
	)

	return container.NewBorder(controls, nil, nil, nil, logList)
}
