package backend

import (
	"context"
	"errors"
	"path/filepath"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// errAppClosed is returned when the sidecar would be launched after Close.
var errAppClosed = errors.New("app closed")

// NewApp は新しいAppインスタンスを作成します
// sidecarOpts is launched from Startup, which Wails only calls in the primary
// instance. A nil sidecarOpts starts no sidecar.
func NewApp(appDataDir string, settingsService SettingsService, logger AppLogger, version string, sidecarOpts *SidecarOptions) *App {
	return &App{
		appDataDir:      appDataDir,
		settingsService: settingsService,
		fileService:     NewFileService(),
		logger:          logger,
		version:         version,
		sidecarOpts:     sidecarOpts,
	}
}

// ------------------------------------------------------------
// サイドカーの起動と停止
// ------------------------------------------------------------

// launchSidecar starts the server process owned by the app. The lock is held
// across the spawn so a concurrent Close kills what was just started.
func (a *App) launchSidecar(opts SidecarOptions) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return errAppClosed
	}
	if a.sidecar != nil {
		return errors.New("sidecar already launched")
	}

	opts.Logger = a.logger
	opts.OnExit = a.handleSidecarExit

	sidecar, err := StartSidecar(opts)
	if err != nil {
		return err
	}
	a.sidecar = sidecar
	return nil
}

// handleSidecarExit forwards an unexpected exit to the frontend. The sidecar
// is not restarted.
func (a *App) handleSidecarExit(status SidecarStatus) {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()

	a.logger.Info("sidecar stopped unexpectedly", "code", status.ExitCode)
	a.logger.Emit(ctx, EventSidecarExited, status)
}

// Close terminates the sidecar and prevents later launches. Safe to call more
// than once and from any goroutine.
func (a *App) Close() error {
	a.mu.Lock()
	a.closed = true
	sidecar := a.sidecar
	a.mu.Unlock()
	return sidecar.Close()
}

// ------------------------------------------------------------
// Wailsのライフサイクル
// ------------------------------------------------------------

// アプリケーション起動時に呼び出される初期化関数
// The sidecar is started here, after the single-instance lock has been taken.
// A failure to start it is fatal.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	opts := a.sidecarOpts
	a.sidecarOpts = nil
	a.mu.Unlock()

	a.logger.AttachFrontend(ctx)

	if opts != nil {
		if err := a.launchSidecar(*opts); err != nil {
			if errors.Is(err, errAppClosed) {
				return
			}
			Fatal(a.logger, err)
			return
		}
	}
	a.logger.Emit(ctx, EventSidecarStatus, a.SidecarStatus())
}

func (a *App) DomReady(ctx context.Context) {
	a.logger.Debug("frontend ready")
	a.logger.Emit(ctx, EventBackendReady)
}

// アプリケーション終了前に呼び出される処理
// Window state is saved; closing is never prevented.
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	if err := a.settingsService.SaveWindowState(ctx); err != nil {
		a.logger.Error(err, "failed to save window state")
	}
	return false
}

// Shutdown is the Wails OnShutdown hook.
func (a *App) Shutdown(ctx context.Context) {
	a.logger.Info("shutting down sidecar")
	a.Close()
}

// ------------------------------------------------------------
// フロントエンドから呼び出されるAPI
// ------------------------------------------------------------

// SidecarStatus returns the current state of the server process.
func (a *App) SidecarStatus() SidecarStatus {
	a.mu.Lock()
	sidecar := a.sidecar
	a.mu.Unlock()
	return sidecar.Status()
}

// AppVersion returns the product version from wails.json.
func (a *App) AppVersion() string {
	return a.version
}

// OpenLogFolder shows the log directory, which also holds the sidecar output.
func (a *App) OpenLogFolder() error {
	return a.logger.Error(a.fileService.OpenFolder(filepath.Join(a.appDataDir, "logs")), "failed to open log folder")
}

// SelectSidecarDir lets a developer point the shell at a locally built server.
// The directory is searched after the install directory from the next launch on.
// Returns the chosen directory, or "" when the dialog was cancelled.
func (a *App) SelectSidecarDir() (string, error) {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()
	if ctx == nil {
		return "", errors.New("window not ready")
	}

	dir, err := a.fileService.SelectDirectory(ctx, "Select the folder containing the SkellyCam server")
	if err != nil || dir == "" {
		return "", err
	}

	settings, err := a.settingsService.LoadSettings()
	if err != nil {
		return "", a.logger.Error(err, "failed to load settings")
	}
	settings.SidecarDir = dir
	if err := a.settingsService.SaveSettings(settings); err != nil {
		return "", a.logger.Error(err, "failed to save settings")
	}
	a.logger.Info("sidecar directory changed", "dir", dir)
	return dir, nil
}

// BringToFront restores and focuses the main window. Called when a second
// instance is launched.
func (a *App) BringToFront() {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()

	if ctx == nil || a.logger.IsTestMode() {
		return
	}
	wailsRuntime.WindowUnminimise(ctx)
	wailsRuntime.Show(ctx)
}
