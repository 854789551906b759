package main

import (
	"github.com/rs/zerolog/log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"github.com/ConserveLee/uma-auto/app/career"
	"github.com/ConserveLee/uma-auto/app/teamtrials"
	"github.com/ConserveLee/uma-auto/app/tools"
	"github.com/ConserveLee/uma-auto/internal/assets"
	"github.com/ConserveLee/uma-auto/internal/config"
	"github.com/ConserveLee/uma-auto/internal/engine/ocr"
	"github.com/ConserveLee/uma-auto/internal/logger"
	"github.com/ConserveLee/uma-auto/internal/web"
)

func main() {
	cfg := config.Load("config.yaml")
	logClose := logger.Setup(cfg.LogLevel, cfg.LogFile)
	defer logClose.Close()

	if err := assets.EnsureAssetDirs(); err != nil {
		log.Warn().Err(err).Msg("asset directories could not be created")
	}
	assets.CheckRequiredButtons(nil)

	regions := assets.LoadRegions(cfg.RegionsFile)

	store := config.NewStore(cfg.SettingsFile)
	if err := store.Load(); err != nil {
		log.Warn().Err(err).Msg("settings file unreadable, running on defaults")
	}

	// OCR is optional: the career lobby needs it, everything else
	// degrades without.
	reader, err := ocr.NewReader(cfg.OCRLanguage)
	if err != nil {
		log.Warn().Err(err).Msg("OCR unavailable")
		reader = nil
	} else {
		defer reader.Close()
	}

	board := web.NewBoard()
	board.SetDisplay(cfg.Display)
	if cfg.StatusAddr != "" {
		go web.Serve(cfg.StatusAddr, board)
	}

	myApp := app.New()
	myWindow := myApp.NewWindow("Uma Auto Toolset")
	myWindow.Resize(fyne.NewSize(520, 680))

	// Create tabs for different features
	tabs := container.NewAppTabs(
		container.NewTabItem("育成", career.NewPanel(myWindow, store, reader, regions, cfg, board)),
		container.NewTabItem("团队赛", teamtrials.NewPanel(store, regions, cfg, board)),
		container.NewTabItem("工具箱", tools.NewToolsPanel(myWindow)),
	)

	tabs.SetTabLocation(container.TabLocationTop)

	myWindow.SetContent(tabs)
	myWindow.ShowAndRun()
}
