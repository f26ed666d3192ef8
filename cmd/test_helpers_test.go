package cmd

import (
	"context"
	"io"
	"log"
	"os"
	"testing"

	"github.com/veligo/dropbox-client/internal/app"
	"github.com/veligo/dropbox-client/internal/config"
	"github.com/veligo/dropbox-client/internal/logger"
	"github.com/veligo/dropbox-client/pkg/dropbox"
)

// MockSDK is a mock implementation of the SDK interface for testing.
type MockSDK struct {
	RevokeTokenFunc func(ctx context.Context) error
	DownloadFunc    func(ctx context.Context, path string) ([]byte, error)
	UploadFunc      func(ctx context.Context, request dropbox.UploadRequest) (*dropbox.UploadResponse, error)
}

func (m *MockSDK) RevokeToken(ctx context.Context) error {
	if m.RevokeTokenFunc != nil {
		return m.RevokeTokenFunc(ctx)
	}
	return nil
}

func (m *MockSDK) Download(ctx context.Context, path string) ([]byte, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, path)
	}
	return nil, nil
}

func (m *MockSDK) Upload(ctx context.Context, request dropbox.UploadRequest) (*dropbox.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, request)
	}
	return &dropbox.UploadResponse{}, nil
}

// newTestApp creates a new app instance with a mock SDK for testing.
func newTestApp(sdk app.SDK) *app.App {
	return &app.App{
		Config: &config.Configuration{},
		Logger: logger.NoopLogger{},
		SDK:    sdk,
	}
}

// captureOutput captures stdout and stderr, returning them as a string.
func captureOutput(t *testing.T, f func()) string {
	t.Helper()

	// Save original log output
	originalLogOutput := log.Writer()

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Capture stderr and redirect log to it
	oldStderr := os.Stderr
	r2, w2, _ := os.Pipe()
	os.Stderr = w2
	log.SetOutput(w2)

	// Run the function
	f()

	// Restore everything
	w.Close()
	w2.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr
	log.SetOutput(originalLogOutput)

	// Read captured output
	stdout, _ := io.ReadAll(r)
	stderr, _ := io.ReadAll(r2)

	// Combine stdout and stderr
	output := string(stdout) + string(stderr)
	return output
}
