package backend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrSidecarNotFound      = errors.New("sidecar executable not found")
	ErrSidecarNotExecutable = errors.New("sidecar is not an executable file")
)

// sidecarSubdir is where bundlers place external binaries next to the shell.
const sidecarSubdir = "binaries"

// DefaultSearchDirs returns the directories searched for the sidecar, in order:
// the install directory, its binaries/ folder, the macOS bundle Resources folder,
// and finally devDir when set.
func DefaultSearchDirs(devDir string) []string {
	var dirs []string

	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		installDir := filepath.Dir(exe)
		dirs = append(dirs, installDir, filepath.Join(installDir, sidecarSubdir))
		if runtime.GOOS == "darwin" {
			dirs = append(dirs, filepath.Clean(filepath.Join(installDir, "..", "Resources")))
		}
	}

	if devDir != "" {
		dirs = append(dirs, devDir)
	}
	return dirs
}

// LocateSidecar returns the first usable fileName found in dirs.
func LocateSidecar(fileName string, dirs []string) (string, error) {
	var firstRejected error

	for _, dir := range dirs {
		candidate := filepath.Join(dir, fileName)
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}
		if err := checkExecutable(info); err != nil {
			if firstRejected == nil {
				firstRejected = fmt.Errorf("%w: %s", err, candidate)
			}
			continue
		}
		return candidate, nil
	}

	if firstRejected != nil {
		return "", firstRejected
	}
	return "", fmt.Errorf("%w: %s (searched %s)", ErrSidecarNotFound, fileName, strings.Join(dirs, ", "))
}

func checkExecutable(info os.FileInfo) error {
	if !info.Mode().IsRegular() {
		return ErrSidecarNotExecutable
	}
	// Windows has no execute bit; the .exe extension is enough.
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return ErrSidecarNotExecutable
	}
	return nil
}
