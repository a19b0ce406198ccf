//go:build linux

package backend

import (
	"os/exec"
	"syscall"
)

// setPlatformAttrs puts the sidecar in its own process group and asks the kernel
// to SIGKILL it if the shell dies without running Close.
func setPlatformAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGKILL,
	}
}
