package backend

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget_FileNames(t *testing.T) {
	tests := []struct {
		goos   string
		goarch string
		want   string
	}{
		{"linux", "386", "app-i686-unknown-linux-gnu"},
		{"linux", "amd64", "app-x86_64-unknown-linux-gnu"},
		{"linux", "arm", "app-arm-unknown-linux-gnu"},
		{"linux", "arm64", "app-aarch64-unknown-linux-gnu"},
		{"windows", "386", "app-i686-pc-windows-msvc.exe"},
		{"windows", "amd64", "app-x86_64-pc-windows-msvc.exe"},
		{"windows", "arm", "app-arm-pc-windows-msvc.exe"},
		{"windows", "arm64", "app-aarch64-pc-windows-msvc.exe"},
		{"darwin", "386", "app-i686-apple-darwin"},
		{"darwin", "amd64", "app-x86_64-apple-darwin"},
		{"darwin", "arm", "app-arm-apple-darwin"},
		{"darwin", "arm64", "app-aarch64-apple-darwin"},
		{"android", "386", "app-i686-linux-android"},
		{"android", "amd64", "app-x86_64-linux-android"},
		{"android", "arm", "app-arm-linux-android"},
		{"android", "arm64", "app-aarch64-linux-android"},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			target, err := ResolveTarget(tt.goos, tt.goarch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, target.FileName("app"))
		})
	}
}

func TestResolveTarget_ExeSuffixOnlyOnWindows(t *testing.T) {
	for goos := range targetOS {
		for goarch := range targetArchs {
			target, err := ResolveTarget(goos, goarch)
			require.NoError(t, err)

			name := target.FileName("skellycam-server")
			if goos == "windows" {
				assert.True(t, strings.HasSuffix(name, ".exe"), name)
			} else {
				assert.NotContains(t, name, ".exe")
			}
		}
	}
}

func TestResolveTarget_Triple(t *testing.T) {
	target, err := ResolveTarget("windows", "arm64")
	require.NoError(t, err)
	assert.Equal(t, "aarch64-pc-windows-msvc", target.Triple())
	assert.Equal(t, ".exe", target.Ext)
}

func TestResolveTarget_Unsupported(t *testing.T) {
	_, err := ResolveTarget("linux", "riscv64")
	require.ErrorIs(t, err, ErrUnsupportedTarget)
	assert.Contains(t, err.Error(), "riscv64")

	_, err = ResolveTarget("plan9", "amd64")
	require.ErrorIs(t, err, ErrUnsupportedTarget)
	assert.Contains(t, err.Error(), "plan9")
}

func TestSidecarFileName_Host(t *testing.T) {
	want, hostErr := ResolveTarget(runtime.GOOS, runtime.GOARCH)
	got, err := SidecarFileName("skellycam-server")
	if hostErr != nil {
		require.ErrorIs(t, err, ErrUnsupportedTarget)
		return
	}
	require.NoError(t, err)
	assert.Equal(t, want.FileName("skellycam-server"), got)
}
