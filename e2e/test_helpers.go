//go:build e2e

package e2e

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"path"
	"testing"

	"github.com/veligo/dropbox-client/internal/app"
	"github.com/veligo/dropbox-client/internal/config"
	"github.com/veligo/dropbox-client/internal/logger"
	"github.com/veligo/dropbox-client/pkg/dropbox"
)

// E2ETestHelper provides utilities for E2E testing against a real Dropbox
// account.
type E2ETestHelper struct {
	App     *app.App
	Config  *Config
	TestID  string
	TestDir string
}

// NewE2ETestHelper creates a new E2E test helper. The suite needs a real
// access token; there is nothing on disk to fall back to.
func NewE2ETestHelper(t *testing.T) *E2ETestHelper {
	t.Helper()

	token := os.Getenv("DROPBOX_ACCESS_TOKEN")
	if token == "" {
		t.Fatal(`
E2E Testing Setup Required:

1. Authorize the app and export the token it prints:
   ./dropbox-client auth login

2. Run the E2E tests with the token in the environment:
   DROPBOX_ACCESS_TOKEN=sl.XXXX go test -tags=e2e -v ./e2e/...

Uploads land under the folder named by DROPBOX_E2E_TEST_DIR
(default /E2E-Tests). There is no delete endpoint in this client,
so clean the folder up from the Dropbox UI when you are done.
`)
	}

	cfg := LoadConfig()
	testID := generateTestID()

	client := dropbox.NewClient(dropbox.BearerAuth(token))
	helper := &E2ETestHelper{
		App: &app.App{
			Config: &config.Configuration{AccessToken: token},
			Logger: logger.NoopLogger{},
			SDK:    app.NewLiveSDK(client),
		},
		Config:  cfg,
		TestID:  testID,
		TestDir: path.Join(cfg.TestDir, testID),
	}
	return helper
}

// Context returns a context bounded by the configured test timeout.
func (h *E2ETestHelper) Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), h.Config.Timeout)
	t.Cleanup(cancel)
	return ctx
}

// RemotePath places a file name under this run's test directory.
func (h *E2ETestHelper) RemotePath(name string) string {
	return path.Join(h.TestDir, name)
}

// LogTestInfo logs where this run's files will land.
func (h *E2ETestHelper) LogTestInfo(t *testing.T) {
	t.Helper()
	t.Logf("E2E run %s, uploading under %s", h.TestID, h.TestDir)
}

// generateTestID returns a short random identifier for this test run.
func generateTestID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "fallback"
	}
	return hex.EncodeToString(b)
}

// randomContent returns size bytes of random data for upload payloads.
func randomContent(t *testing.T, size int) []byte {
	t.Helper()
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("generating random content: %v", err)
	}
	return b
}
