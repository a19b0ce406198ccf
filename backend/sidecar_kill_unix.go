//go:build !windows

package backend

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// processGuard has nothing to hold on Unix; process groups do the work.
type processGuard struct{}

func attachProcessGuard(*os.Process) (*processGuard, error) {
	return &processGuard{}, nil
}

func (g *processGuard) release() {}

// killProcessTree sends SIGKILL to the sidecar's process group, falling back to
// the single process if the group is gone.
func killProcessTree(p *os.Process) error {
	err := unix.Kill(-p.Pid, unix.SIGKILL)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return p.Kill()
}
