//go:build !windows && !linux

package backend

import (
	"os/exec"
	"syscall"
)

// setPlatformAttrs puts the sidecar in its own process group so Close can take
// down any workers it forked. There is no parent-death signal here; a crashed
// shell leaves the sidecar orphaned.
func setPlatformAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
