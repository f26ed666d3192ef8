// Package app wires configuration, logging, and the Dropbox SDK into the
// application context the CLI commands run against.
package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/veligo/dropbox-client/internal/config"
	"github.com/veligo/dropbox-client/internal/logger"
	"github.com/veligo/dropbox-client/pkg/dropbox"
)

// ErrNotAuthenticated is returned when an operation needs an access token
// and none is configured.
var ErrNotAuthenticated = errors.New("not authenticated")

// App carries everything a command needs: resolved configuration, a logger,
// and the SDK when credentials are available.
type App struct {
	Config *config.Configuration
	Logger logger.Logger
	SDK    SDK
}

// NewApp assembles the application context for a command invocation. The SDK
// field stays nil when no access token is configured; commands that need it
// go through RequireSDK.
func NewApp(cmd *cobra.Command) (*App, error) {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	// The --debug flag wins over both the file and the environment.
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		cfg.Debug = true
	}

	log := logger.NewDefaultLogger(cfg.Debug)

	a := &App{
		Config: cfg,
		Logger: log,
	}

	if cfg.AccessToken != "" {
		client := dropbox.NewClient(dropbox.BearerAuth(cfg.AccessToken), dropbox.WithLogger(log))
		a.SDK = NewLiveSDK(client)
	}
	return a, nil
}

// RequireSDK returns the SDK, or ErrNotAuthenticated with a hint when no
// token is configured.
func (a *App) RequireSDK() (SDK, error) {
	if a.SDK == nil {
		return nil, fmt.Errorf("%w: set DROPBOX_ACCESS_TOKEN or run 'dropbox-client auth login'", ErrNotAuthenticated)
	}
	return a.SDK, nil
}
