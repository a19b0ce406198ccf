package backend

import (
	"context"
	"os/exec"
	"runtime"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// FileService はファイル操作関連の機能を提供するインターフェースです
type FileService interface {
	SelectDirectory(ctx context.Context, title string) (string, error)
	OpenFolder(path string) error
}

// fileService はFileServiceの実装です
type fileService struct{}

// NewFileService は新しいfileServiceインスタンスを作成します
func NewFileService() *fileService {
	return &fileService{}
}

// SelectDirectory はフォルダ選択ダイアログを表示し、選択されたパスを返します
// An empty path means the dialog was cancelled.
func (s *fileService) SelectDirectory(ctx context.Context, title string) (string, error) {
	return wailsRuntime.OpenDirectoryDialog(ctx, wailsRuntime.OpenDialogOptions{
		Title:                title,
		CanCreateDirectories: false,
	})
}

// OpenFolder opens path in the platform file manager.
func (s *fileService) OpenFolder(path string) error {
	name, args := folderOpenCommand(runtime.GOOS, path)
	_, err := startDetached(exec.Command(name, args...))
	return err
}

// startDetached starts cmd and reaps it in the background. The channel
// receives the result of Wait.
func startDetached(cmd *exec.Cmd) (<-chan error, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	return done, nil
}

func folderOpenCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}
