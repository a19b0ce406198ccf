package main

import (
	"embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"skellycam-desktop/backend"
)

//go:embed all:frontend/dist
var assets embed.FS

//go:embed wails.json
var wailsJSON []byte

func main() {
	appDataDir := backend.AppDataDir()

	// 設定の読み込み。壊れていても既定値で起動する
	settingsService := backend.NewSettingsService(appDataDir)
	settings, settingsErr := settingsService.LoadSettings()
	if settingsErr != nil {
		settings = backend.DefaultSettings()
	}

	appLogger := backend.NewAppLogger(false, appDataDir, settings.LogLevel)
	defer appLogger.Close()
	appLogger.Error(settingsErr, "failed to load settings, using defaults")

	version := "dev"
	if cfg, err := backend.ParseWailsConfig(wailsJSON); err == nil && cfg.Info.ProductVersion != "" {
		version = cfg.Info.ProductVersion
	}

	// サーバーはOnStartupで起動する。二つ目のインスタンスはwails.Run内で終了するため起動しない
	app := backend.NewApp(appDataDir, settingsService, appLogger, version, &backend.SidecarOptions{
		BaseName:   settings.SidecarName,
		SearchDirs: backend.DefaultSearchDirs(settings.SidecarDir),
	})
	defer app.Close()

	go closeOnSignal(app, appLogger)

	startState := options.Normal
	if settings.IsMaximized {
		startState = options.Maximised
	}

	err := wails.Run(&options.App{
		Title:            backend.AppTitle,
		Width:            settings.WindowWidth,
		Height:           settings.WindowHeight,
		MinWidth:         720,
		MinHeight:        480,
		WindowStartState: startState,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 1},
		OnStartup:        app.Startup,
		OnDomReady:       app.DomReady,
		OnBeforeClose:    app.BeforeClose,
		OnShutdown:       app.Shutdown,
		Logger:           backend.NewWailsLogger(appLogger.Slog()),
		LogLevel:         logger.INFO,
		Bind: []interface{}{
			app,
		},
		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId: "skellycam-desktop-instance-lock",
			OnSecondInstanceLaunch: func(secondInstanceData options.SecondInstanceData) {
				app.BringToFront()
			},
		},
	})

	if err != nil {
		appLogger.Error(err, "wails run failed")
	}
}

// closeOnSignal kills the sidecar when the shell is interrupted from a terminal
// or stopped by the OS, since deferred cleanup does not run on signals.
func closeOnSignal(app *backend.App, appLogger backend.AppLogger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	sig := <-sigCh
	appLogger.Info("signal received, stopping sidecar", "signal", sig)
	app.Close()
	appLogger.Close()
	os.Exit(backend.SignalExitCode(sig))
}
