package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	// closeWaitTimeout bounds how long Close waits for the killed process to be reaped.
	closeWaitTimeout = 5 * time.Second
	// outputWaitDelay bounds how long Wait keeps draining output after the process exits.
	outputWaitDelay = 2 * time.Second
	maxOutputLine   = 64 * 1024
)

// sidecarEnv is appended to the inherited environment. The server is a frozen
// Python program and must write UTF-8 regardless of the console code page.
var sidecarEnv = []string{
	"PYTHONIOENCODING=utf-8",
	"PYTHONUTF8=1",
}

// SidecarOptions configures StartSidecar.
type SidecarOptions struct {
	BaseName   string   // file name before the target triple, e.g. "skellycam-server"
	SearchDirs []string // see DefaultSearchDirs
	Env        []string // extra KEY=VALUE pairs for the child
	Logger     AppLogger
	OnExit     func(SidecarStatus) // called when the process exits without Close
}

// Sidecar owns the background server process. The zero value is not usable;
// use StartSidecar. Close may be called from any goroutine, any number of times.
type Sidecar struct {
	path   string
	cmd    *exec.Cmd
	guard  *processGuard
	logger AppLogger
	onExit func(SidecarStatus)

	stdout *lineWriter
	stderr *lineWriter

	mu            sync.Mutex
	closed        bool
	killRequested bool
	state         SidecarState
	exitCode      int
	startedAt     time.Time

	done chan struct{}
}

// StartSidecar resolves the host file name for opts.BaseName, locates it and
// spawns it with no arguments.
func StartSidecar(opts SidecarOptions) (*Sidecar, error) {
	fileName, err := SidecarFileName(opts.BaseName)
	if err != nil {
		return nil, err
	}
	path, err := LocateSidecar(fileName, opts.SearchDirs)
	if err != nil {
		return nil, err
	}
	return spawnSidecar(path, opts)
}

func spawnSidecar(path string, opts SidecarOptions) (*Sidecar, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewAppLogger(true, "", "")
	}

	s := &Sidecar{
		path:     path,
		logger:   logger,
		onExit:   opts.OnExit,
		state:    SidecarCreated,
		exitCode: -1,
		done:     make(chan struct{}),
	}
	// Output goes to the log only, not to the frontend status bar.
	out := logger.Slog()
	s.stdout = newLineWriter(func(line string) {
		out.Info("sidecar output", "stream", "stdout", "line", line)
	})
	s.stderr = newLineWriter(func(line string) {
		out.Warn("sidecar output", "stream", "stderr", "line", line)
	})

	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)
	cmd.Env = append(append(os.Environ(), sidecarEnv...), opts.Env...)
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	cmd.WaitDelay = outputWaitDelay
	setPlatformAttrs(cmd)
	s.cmd = cmd

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start sidecar %s: %w", path, err)
	}

	guard, err := attachProcessGuard(cmd.Process)
	if err != nil {
		// The child still gets killed by Close; only crash cleanup is lost.
		logger.Debug("process guard unavailable", "error", err)
	}

	s.mu.Lock()
	s.guard = guard
	s.state = SidecarRunning
	s.startedAt = time.Now()
	s.mu.Unlock()

	logger.Info("sidecar started", "path", path, "pid", cmd.Process.Pid)
	go s.waitLoop()
	return s, nil
}

// waitLoop reaps the process and records how it ended.
func (s *Sidecar) waitLoop() {
	err := s.cmd.Wait()
	s.stdout.Flush()
	s.stderr.Flush()

	exitCode := 0
	state := SidecarExited
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	s.mu.Lock()
	if s.killRequested || exitCode == -1 {
		state = SidecarKilled
	}
	s.state = state
	s.exitCode = exitCode
	killRequested := s.killRequested
	status := s.statusLocked()
	s.mu.Unlock()

	if killRequested {
		s.logger.Debug("sidecar terminated", "pid", status.PID)
	} else {
		s.logger.Info("sidecar exited", "pid", status.PID, "code", exitCode, "error", err)
	}
	close(s.done)

	if !killRequested && s.onExit != nil {
		s.onExit(status)
	}
}

// Close kills the sidecar if it is still running and waits briefly for it to be
// reaped. Kill failures are ignored: the process may already be gone.
func (s *Sidecar) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	running := s.state == SidecarRunning
	if running {
		s.killRequested = true
	}
	guard := s.guard
	s.mu.Unlock()

	if running {
		if err := killProcessTree(s.cmd.Process); err != nil {
			s.logger.Debug("kill sidecar", "error", err)
		}
	}
	guard.release()

	select {
	case <-s.done:
	case <-time.After(closeWaitTimeout):
		s.logger.Debug("sidecar not reaped before timeout", "timeout", closeWaitTimeout)
	}
	return nil
}

// Wait blocks until the process has exited or ctx is done.
func (s *Sidecar) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the process has been reaped.
func (s *Sidecar) Done() <-chan struct{} {
	return s.done
}

// Status returns a snapshot for the frontend.
func (s *Sidecar) Status() SidecarStatus {
	if s == nil {
		return SidecarStatus{PID: -1, State: SidecarCreated.String(), ExitCode: -1}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Sidecar) statusLocked() SidecarStatus {
	pid := -1
	if s.cmd != nil && s.cmd.Process != nil {
		pid = s.cmd.Process.Pid
	}
	return SidecarStatus{
		Path:      s.path,
		PID:       pid,
		State:     s.state.String(),
		ExitCode:  s.exitCode,
		StartedAt: s.startedAt,
	}
}

// lineWriter turns a byte stream into log lines.
type lineWriter struct {
	mu   sync.Mutex
	buf  []byte
	emit func(line string)
}

func newLineWriter(emit func(line string)) *lineWriter {
	return &lineWriter{emit: emit}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emitLocked(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) >= maxOutputLine {
		w.emitLocked(w.buf)
		w.buf = w.buf[:0]
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.emitLocked(w.buf)
		w.buf = nil
	}
}

func (w *lineWriter) emitLocked(line []byte) {
	text := strings.TrimRight(string(line), "\r")
	if text != "" {
		w.emit(text)
	}
}
