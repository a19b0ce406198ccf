//go:build windows

package backend

import (
	"testing"

	"golang.org/x/sys/windows"
)

const stillActive = 259

// assertProcessGone checks that pid has an exit code, i.e. is no longer running.
func assertProcessGone(t *testing.T, pid int) {
	t.Helper()
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		t.Fatalf("query process %d: %v", pid, err)
	}
	if code == stillActive {
		t.Fatalf("process %d still running", pid)
	}
}
