package backend

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnsupportedTarget is returned when no sidecar build exists for a platform.
var ErrUnsupportedTarget = errors.New("unsupported target platform")

// Target is the architecture/OS/environment triple used to name prebuilt sidecar binaries.
type Target struct {
	Arch string // i686, x86_64, arm, aarch64
	OS   string // pc-windows, apple-darwin, unknown-linux, linux-android
	Env  string // "-gnu", "-msvc" or empty
	Ext  string // ".exe" on Windows, empty elsewhere
}

var targetArchs = map[string]string{
	"386":   "i686",
	"amd64": "x86_64",
	"arm":   "arm",
	"arm64": "aarch64",
}

// targetOS holds the OS part of the triple and the environment suffix used by release builds.
var targetOS = map[string]struct{ os, env string }{
	"windows": {"pc-windows", "-msvc"},
	"darwin":  {"apple-darwin", ""},
	"linux":   {"unknown-linux", "-gnu"},
	"android": {"linux-android", ""},
}

// ResolveTarget maps a Go GOOS/GOARCH pair to the sidecar target triple.
func ResolveTarget(goos, goarch string) (Target, error) {
	arch, ok := targetArchs[goarch]
	if !ok {
		return Target{}, fmt.Errorf("%w: architecture %q", ErrUnsupportedTarget, goarch)
	}
	osInfo, ok := targetOS[goos]
	if !ok {
		return Target{}, fmt.Errorf("%w: operating system %q", ErrUnsupportedTarget, goos)
	}

	t := Target{Arch: arch, OS: osInfo.os, Env: osInfo.env}
	if goos == "windows" {
		t.Ext = ".exe"
	}
	return t, nil
}

// HostTarget returns the target the shell itself was built for.
func HostTarget() (Target, error) {
	return ResolveTarget(runtime.GOOS, runtime.GOARCH)
}

// Triple returns e.g. "x86_64-unknown-linux-gnu".
func (t Target) Triple() string {
	return t.Arch + "-" + t.OS + t.Env
}

// FileName qualifies base with the triple and executable extension.
func (t Target) FileName(base string) string {
	return base + "-" + t.Triple() + t.Ext
}

// SidecarFileName returns the file name of the sidecar build for the host platform.
func SidecarFileName(base string) (string, error) {
	t, err := HostTarget()
	if err != nil {
		return "", err
	}
	return t.FileName(base), nil
}
