//go:build !windows

package backend

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

// assertProcessGone checks that pid no longer exists. The sidecar has been
// reaped, so signal 0 must report ESRCH.
func assertProcessGone(t *testing.T, pid int) {
	t.Helper()
	if err := unix.Kill(pid, 0); !errors.Is(err, unix.ESRCH) {
		t.Fatalf("process %d still exists: %v", pid, err)
	}
}
