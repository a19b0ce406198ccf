//go:build windows

package backend

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Not exported by the syscall package.
const createNoWindow = 0x08000000

// setPlatformAttrs keeps the console-mode server from flashing a terminal window.
func setPlatformAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow,
	}
}

// processGuard holds a job object configured to kill every process in it when
// the last handle closes. The handle dies with the shell, so a crashed shell
// still takes the sidecar down.
type processGuard struct {
	job windows.Handle
}

func attachProcessGuard(p *os.Process) (*processGuard, error) {
	job, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create job object: %w", err)
	}

	info := windows.JOBOBJECT_EXTENDED_LIMIT_INFORMATION{
		BasicLimitInformation: windows.JOBOBJECT_BASIC_LIMIT_INFORMATION{
			LimitFlags: windows.JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE,
		},
	}
	if _, err := windows.SetInformationJobObject(
		job,
		windows.JobObjectExtendedLimitInformation,
		uintptr(unsafe.Pointer(&info)),
		uint32(unsafe.Sizeof(info)),
	); err != nil {
		windows.CloseHandle(job)
		return nil, fmt.Errorf("configure job object: %w", err)
	}

	handle, err := windows.OpenProcess(windows.PROCESS_SET_QUOTA|windows.PROCESS_TERMINATE, false, uint32(p.Pid))
	if err != nil {
		windows.CloseHandle(job)
		return nil, fmt.Errorf("open sidecar process: %w", err)
	}
	defer windows.CloseHandle(handle)

	if err := windows.AssignProcessToJobObject(job, handle); err != nil {
		windows.CloseHandle(job)
		return nil, fmt.Errorf("assign sidecar to job: %w", err)
	}
	return &processGuard{job: job}, nil
}

// release closes the job handle, which terminates anything still inside it.
func (g *processGuard) release() {
	if g == nil || g.job == 0 {
		return
	}
	windows.CloseHandle(g.job)
	g.job = 0
}

func killProcessTree(p *os.Process) error {
	return p.Kill()
}
