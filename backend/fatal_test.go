package backend

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatal_AlertsAndExits(t *testing.T) {
	originalExit, originalAlert := exitProcess, showAlert
	t.Cleanup(func() {
		exitProcess, showAlert = originalExit, originalAlert
	})

	var gotTitle, gotMessage string
	showAlert = func(title, message string) error {
		gotTitle, gotMessage = title, message
		return errors.New("no notification daemon")
	}
	exitCode := -1
	exitProcess = func(code int) { exitCode = code }

	l, buf := newCapturingLogger("debug")
	Fatal(l, fmt.Errorf("spawn: %w", ErrSidecarNotFound))

	assert.Equal(t, 1, exitCode)
	assert.Equal(t, AppTitle, gotTitle)
	assert.Contains(t, gotMessage, "reinstall")
	assert.Contains(t, buf.String(), "fatal startup error")
	assert.Contains(t, buf.String(), "desktop alert failed")
}

func TestFatalMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unsupported platform", fmt.Errorf("%w: architecture \"mips\"", ErrUnsupportedTarget), "does not support this platform"},
		{"missing sidecar", ErrSidecarNotFound, "missing or damaged"},
		{"not executable", ErrSidecarNotExecutable, "missing or damaged"},
		{"spawn failure", errors.New("permission denied"), "could not be started"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, FatalMessage(tt.err), tt.want)
		})
	}
}

type namedSignal string

func (s namedSignal) String() string { return string(s) }
func (s namedSignal) Signal()        {}

func TestSignalExitCode(t *testing.T) {
	tests := []struct {
		name string
		sig  os.Signal
		want int
	}{
		{"interrupt", os.Interrupt, 130},
		{"terminate", syscall.SIGTERM, 143},
		{"not a syscall signal", namedSignal("custom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SignalExitCode(tt.sig))
		})
	}
}
