package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

const (
	appDirName         = "skellycam"
	settingsName       = "settings"
	defaultSidecarName = "skellycam-server"
	defaultLogLevel    = "info"
	defaultWidth       = 1280
	defaultHeight      = 720
)

// SettingsService は設定関連の操作を提供するインターフェースです
type SettingsService interface {
	LoadSettings() (*Settings, error)
	SaveSettings(settings *Settings) error
	SaveWindowState(ctx context.Context) error
}

// settingsService はSettingsServiceの実装です
type settingsService struct {
	appDataDir string
}

// NewSettingsService は新しいsettingsServiceインスタンスを作成します
func NewSettingsService(appDataDir string) *settingsService {
	return &settingsService{
		appDataDir: appDataDir,
	}
}

// AppDataDir returns {UserConfigDir}/skellycam, falling back to the home
// directory and then the working directory.
func AppDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base, err = os.UserHomeDir()
		if err != nil {
			base = "."
		}
	}
	return filepath.Join(base, appDirName)
}

// DefaultSettings returns the settings used when settings.json is absent.
func DefaultSettings() *Settings {
	return &Settings{
		SidecarName:  defaultSidecarName,
		LogLevel:     defaultLogLevel,
		WindowWidth:  defaultWidth,
		WindowHeight: defaultHeight,
	}
}

// LoadSettings はsettings.jsonから設定を読み込みます
// ファイルが存在しない場合はデフォルト設定を返します
func (s *settingsService) LoadSettings() (*Settings, error) {
	v := viper.New()
	v.SetConfigName(settingsName)
	v.SetConfigType("json")
	v.AddConfigPath(s.appDataDir)

	setSettingsDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	// 古い・壊れた値は既定値に戻す
	if strings.TrimSpace(settings.SidecarName) == "" {
		settings.SidecarName = defaultSidecarName
	}
	if settings.WindowWidth <= 0 {
		settings.WindowWidth = defaultWidth
	}
	if settings.WindowHeight <= 0 {
		settings.WindowHeight = defaultHeight
	}
	return settings, nil
}

func setSettingsDefaults(v *viper.Viper) {
	defaults := DefaultSettings()

	v.SetDefault("sidecarName", defaults.SidecarName)
	v.SetDefault("sidecarDir", defaults.SidecarDir)
	v.SetDefault("logLevel", defaults.LogLevel)
	v.SetDefault("windowWidth", defaults.WindowWidth)
	v.SetDefault("windowHeight", defaults.WindowHeight)
	v.SetDefault("isMaximized", defaults.IsMaximized)
}

// SaveSettings は設定をsettings.jsonに保存します
func (s *settingsService) SaveSettings(settings *Settings) error {
	if err := os.MkdirAll(s.appDataDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	settingsPath := filepath.Join(s.appDataDir, settingsName+".json")
	return os.WriteFile(settingsPath, data, 0644)
}

// SaveWindowState はウィンドウの状態を保存します
// ctx must be the Wails runtime context.
func (s *settingsService) SaveWindowState(ctx context.Context) error {
	settings, err := s.LoadSettings()
	if err != nil {
		return err
	}

	maximized := wailsRuntime.WindowIsMaximised(ctx)
	settings.IsMaximized = maximized

	// 最大化中のサイズは保存しない
	if !maximized {
		width, height := wailsRuntime.WindowGetSize(ctx)
		if width > 0 && height > 0 {
			settings.WindowWidth = width
			settings.WindowHeight = height
		}
	}

	return s.SaveSettings(settings)
}
