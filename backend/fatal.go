package backend

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"syscall"

	"github.com/gen2brain/beeep"
)

var (
	exitProcess = os.Exit
	showAlert   = func(title, message string) error {
		beeep.AppName = AppTitle
		return beeep.Alert(title, message, "")
	}
)

// Fatal reports an unrecoverable startup error to the log and as a desktop
// alert, then exits with status 1. It runs from OnStartup, before the
// frontend has loaded, so the alert is the only thing the user sees.
func Fatal(logger AppLogger, err error) {
	logger.Error(err, "fatal startup error")
	if alertErr := showAlert(AppTitle, FatalMessage(err)); alertErr != nil {
		logger.Debug("desktop alert failed", "error", alertErr)
	}
	logger.Close()
	exitProcess(1)
}

// FatalMessage turns a startup error into a sentence for the alert.
func FatalMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedTarget):
		return fmt.Sprintf("%s does not support this platform (%s/%s).", AppTitle, runtime.GOOS, runtime.GOARCH)
	case errors.Is(err, ErrSidecarNotFound), errors.Is(err, ErrSidecarNotExecutable):
		return fmt.Sprintf("The %s server is missing or damaged. Please reinstall %s.\n\n%v", AppTitle, AppTitle, err)
	default:
		return fmt.Sprintf("The %s server could not be started.\n\n%v", AppTitle, err)
	}
}

// SignalExitCode is the exit status after shutting down on sig: 128 plus the
// signal number, as shells report it.
func SignalExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}
