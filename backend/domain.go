package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// AppTitle is shown in the window title and in desktop alerts.
const AppTitle = "SkellyCam"

// Frontend event names.
const (
	EventSidecarStatus = "sidecar:status"
	EventSidecarExited = "sidecar:exited"
	EventBackendReady  = "backend:ready"
	EventLogMessage    = "logMessage"
)

// アプリケーションのメインの構造体
type App struct {
	ctx             context.Context // Wails context, set in Startup
	mu              sync.Mutex      // guards ctx, sidecar and closed
	appDataDir      string          // settings and logs live here
	settingsService SettingsService // settings persistence
	fileService     FileService     // dialogs and file manager
	sidecar         *Sidecar        // the owned server process
	sidecarOpts     *SidecarOptions // consumed by Startup
	closed          bool            // set by Close; no launch afterwards
	logger          AppLogger       // application logger
	version         string          // product version from wails.json
}

// SidecarState is the lifecycle state of the sidecar process.
type SidecarState int

const (
	SidecarCreated SidecarState = iota
	SidecarRunning
	SidecarExited
	SidecarKilled
)

func (s SidecarState) String() string {
	switch s {
	case SidecarCreated:
		return "created"
	case SidecarRunning:
		return "running"
	case SidecarExited:
		return "exited"
	case SidecarKilled:
		return "killed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// SidecarStatus is the read-only view of the sidecar handed to the frontend.
type SidecarStatus struct {
	Path      string    `json:"path"`
	PID       int       `json:"pid"`      // -1 before start
	State     string    `json:"state"`    // created, running, exited, killed
	ExitCode  int       `json:"exitCode"` // -1 while running or when killed by a signal
	StartedAt time.Time `json:"startedAt"`
}

// アプリケーションの設定を管理
type Settings struct {
	SidecarName  string `json:"sidecarName" mapstructure:"sidecarName"`   // base name before the target triple
	SidecarDir   string `json:"sidecarDir" mapstructure:"sidecarDir"`     // extra search directory, used in development
	LogLevel     string `json:"logLevel" mapstructure:"logLevel"`         // error, info or debug
	WindowWidth  int    `json:"windowWidth" mapstructure:"windowWidth"`
	WindowHeight int    `json:"windowHeight" mapstructure:"windowHeight"`
	IsMaximized  bool   `json:"isMaximized" mapstructure:"isMaximized"`
}

// WailsConfig is the subset of wails.json the shell reads at startup.
type WailsConfig struct {
	Name           string `json:"name"`
	OutputFilename string `json:"outputfilename"`
	Info           struct {
		ProductVersion string `json:"productVersion"`
	} `json:"info"`
}

// ParseWailsConfig decodes an embedded wails.json.
func ParseWailsConfig(data []byte) (*WailsConfig, error) {
	var cfg WailsConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse wails.json: %w", err)
	}
	return &cfg, nil
}
