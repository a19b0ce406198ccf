package backend

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderOpenCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"darwin", "open", []string{"/logs"}},
		{"windows", "cmd", []string{"/c", "start", "", "/logs"}},
		{"linux", "xdg-open", []string{"/logs"}},
		{"freebsd", "xdg-open", []string{"/logs"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := folderOpenCommand(tt.goos, "/logs")
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestStartDetached_ReapsChild(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)

	cmd := exec.Command(exe)
	cmd.Env = append(os.Environ(), helperModeEnv+"=fail")
	done, err := startDetached(cmd)
	require.NoError(t, err)

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 3, exitErr.ExitCode())
	case <-time.After(30 * time.Second):
		t.Fatal("child was not reaped")
	}
}

func TestStartDetached_StartError(t *testing.T) {
	done, err := startDetached(exec.Command(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, err)
	assert.Nil(t, done)
}
