package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// AppLogger はログ出力とフロントエンド通知を担当するインターフェース
type AppLogger interface {
	Debug(msg string, args ...any)
	// Info lines are also shown in the frontend status bar.
	Info(msg string, args ...any)
	// Error logs err and returns it unchanged; a nil err is a no-op.
	Error(err error, msg string, args ...any) error
	Emit(ctx context.Context, event string, data ...any)
	AttachFrontend(ctx context.Context)
	// SetLevel accepts "error", "info" or "debug".
	SetLevel(level string)
	Slog() *slog.Logger
	IsTestMode() bool
	Close() error
}

// appLoggerImpl はAppLoggerの実装
type appLoggerImpl struct {
	log        *slog.Logger
	level      *slog.LevelVar
	logFile    *os.File
	isTestMode bool

	// mu guards statusCtx and logFile.
	// statusCtx receives logMessage events once the frontend exists.
	mu        sync.RWMutex
	statusCtx context.Context
}

// NewAppLogger は新しいAppLoggerインスタンスを作成
// Lines go to stdout and to logs/skellycam_<timestamp>.log under appDataDir.
// In test mode all output is discarded and no frontend events are sent.
func NewAppLogger(isTestMode bool, appDataDir string, level string) AppLogger {
	if isTestMode {
		return newAppLogger(io.Discard, level, true)
	}

	logDir := filepath.Join(appDataDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Printf("Error creating log directory: %v\n", err)
		return newAppLogger(os.Stdout, level, false)
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("skellycam_%s.log", time.Now().Format("2006-01-02_15-04-05")))
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		return newAppLogger(os.Stdout, level, false)
	}

	l := newAppLogger(io.MultiWriter(os.Stdout, logFile), level, false)
	l.logFile = logFile
	return l
}

func newAppLogger(w io.Writer, level string, isTestMode bool) *appLoggerImpl {
	levelVar := &slog.LevelVar{}
	setLevelVar(levelVar, level)
	return &appLoggerImpl{
		log:        slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar})),
		level:      levelVar,
		isTestMode: isTestMode,
	}
}

func setLevelVar(v *slog.LevelVar, level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		v.Set(slog.LevelDebug)
	case "info":
		v.Set(slog.LevelInfo)
	default:
		v.Set(slog.LevelError)
	}
}

// ----------------------------------------------------------------
// ログメッセージの出力
// ----------------------------------------------------------------

func (l *appLoggerImpl) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

// Info also forwards the message to the frontend status bar.
func (l *appLoggerImpl) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
	l.sendLogMessage(msg)
}

func (l *appLoggerImpl) Error(err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	l.log.Error(msg, append(args, "error", err)...)
	l.sendLogMessage(fmt.Sprintf("%s: %v", msg, err))
	return err
}

// ----------------------------------------------------------------
// フロントエンドへの通知
// ----------------------------------------------------------------

// Emit sends a Wails event. ctx must be the context handed to OnStartup.
func (l *appLoggerImpl) Emit(ctx context.Context, event string, data ...any) {
	if l.isTestMode || ctx == nil {
		return
	}
	wailsRuntime.EventsEmit(ctx, event, data...)
}

// AttachFrontend enables status-bar forwarding of Info and Error lines.
func (l *appLoggerImpl) AttachFrontend(ctx context.Context) {
	l.mu.Lock()
	l.statusCtx = ctx
	l.mu.Unlock()
}

func (l *appLoggerImpl) sendLogMessage(message string) {
	l.mu.RLock()
	ctx := l.statusCtx
	l.mu.RUnlock()
	if ctx != nil {
		l.Emit(ctx, EventLogMessage, message)
	}
}

// ----------------------------------------------------------------

func (l *appLoggerImpl) SetLevel(level string) {
	setLevelVar(l.level, level)
}

func (l *appLoggerImpl) Slog() *slog.Logger {
	return l.log
}

func (l *appLoggerImpl) IsTestMode() bool {
	return l.isTestMode
}

// Close closes the log file. Lines logged afterwards still reach stdout.
func (l *appLoggerImpl) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile == nil {
		return nil
	}
	err := l.logFile.Close()
	l.logFile = nil
	return err
}
