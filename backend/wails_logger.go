package backend

import (
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// wailsLogger routes the framework's own log output into the shell log.
type wailsLogger struct {
	log  *slog.Logger
	exit func(code int)
}

// NewWailsLogger adapts l to logger.Logger for options.App.Logger.
func NewWailsLogger(l *slog.Logger) logger.Logger {
	return &wailsLogger{
		log:  l.With("source", "wails"),
		exit: os.Exit,
	}
}

func (w *wailsLogger) Print(message string)   { w.log.Info(message) }
func (w *wailsLogger) Trace(message string)   { w.log.Debug(message) }
func (w *wailsLogger) Debug(message string)   { w.log.Debug(message) }
func (w *wailsLogger) Info(message string)    { w.log.Info(message) }
func (w *wailsLogger) Warning(message string) { w.log.Warn(message) }
func (w *wailsLogger) Error(message string)   { w.log.Error(message) }

// Fatal matches the default Wails logger, which exits after logging.
func (w *wailsLogger) Fatal(message string) {
	w.log.Error(message, "fatal", true)
	w.exit(1)
}
