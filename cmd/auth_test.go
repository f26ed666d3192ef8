package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veligo/dropbox-client/internal/app"
	"github.com/veligo/dropbox-client/internal/config"
)

func TestAuthURLLogic(t *testing.T) {
	a := newTestApp(nil)
	a.Config = &config.Configuration{AppKey: "abc", RedirectURI: "https://example.com/redirect"}

	output := captureOutput(t, func() {
		err := authURLLogic(a, &cobra.Command{}, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, output,
		"https://www.dropbox.com/oauth2/authorize?response_type=token&client_id=abc&redirect_uri=https://example.com/redirect")
}

func TestAuthURLLogicMissingAppKey(t *testing.T) {
	a := newTestApp(nil)
	a.Config = &config.Configuration{RedirectURI: "https://example.com/redirect"}

	err := authURLLogic(a, &cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no app key configured")
}

func TestAuthURLLogicMissingRedirectURI(t *testing.T) {
	a := newTestApp(nil)
	a.Config = &config.Configuration{AppKey: "abc"}

	err := authURLLogic(a, &cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no redirect URI configured")
}

func TestAuthLoginLogicImplicit(t *testing.T) {
	a := newTestApp(nil)
	a.Config = &config.Configuration{AppKey: "abc", RedirectURI: "https://example.com/redirect"}

	pasted := "https://example.com/redirect#access_token=sl.TOKEN&token_type=bearer&uid=12345&account_id=dbid:xyz\n"
	output := captureOutput(t, func() {
		err := authLoginLogic(a, &cobra.Command{}, strings.NewReader(pasted))
		assert.NoError(t, err)
	})

	assert.Contains(t, output, "Open this URL in your browser")
	assert.Contains(t, output, "Authorization complete.")
	assert.Contains(t, output, "dbid:xyz (uid 12345)")
	assert.Contains(t, output, "export DROPBOX_ACCESS_TOKEN=sl.TOKEN")
}

func TestAuthLoginLogicNoFragment(t *testing.T) {
	a := newTestApp(nil)
	a.Config = &config.Configuration{AppKey: "abc", RedirectURI: "https://example.com/redirect"}

	var err error
	captureOutput(t, func() {
		err = authLoginLogic(a, &cobra.Command{}, strings.NewReader("https://example.com/redirect\n"))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#fragment")
}

func TestAuthLoginLogicWrongTokenType(t *testing.T) {
	a := newTestApp(nil)
	a.Config = &config.Configuration{AppKey: "abc", RedirectURI: "https://example.com/redirect"}

	pasted := "https://example.com/redirect#access_token=sl.TOKEN&token_type=mac&uid=1&account_id=dbid:x\n"
	var err error
	captureOutput(t, func() {
		err = authLoginLogic(a, &cobra.Command{}, strings.NewReader(pasted))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown token_type: mac")
}

func TestAuthLoginLogicPKCEMissingAppKey(t *testing.T) {
	a := newTestApp(nil)
	a.Config = &config.Configuration{}

	cmd := &cobra.Command{}
	cmd.Flags().Bool("pkce", false, "")
	require.NoError(t, cmd.Flags().Set("pkce", "true"))

	err := authLoginLogic(a, cmd, strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no app key configured")
}

func TestAuthStatusLogic(t *testing.T) {
	a := newTestApp(nil)
	a.Config = &config.Configuration{AppKey: "abc"}

	output := captureOutput(t, func() {
		err := authStatusLogic(a, &cobra.Command{}, nil)
		assert.NoError(t, err)
	})

	assert.Contains(t, output, "Authentication status:")
	assert.Contains(t, output, "App key:          configured")
	assert.Contains(t, output, "Access token:     not set")
	assert.Contains(t, output, "auth login")
}

func TestAuthRevokeLogic(t *testing.T) {
	revoked := false
	mockSDK := &MockSDK{
		RevokeTokenFunc: func(ctx context.Context) error {
			revoked = true
			return nil
		},
	}
	a := newTestApp(mockSDK)

	output := captureOutput(t, func() {
		err := authRevokeLogic(a, &cobra.Command{}, nil)
		assert.NoError(t, err)
	})

	assert.True(t, revoked)
	assert.Contains(t, output, "Access token revoked")
}

func TestAuthRevokeLogicError(t *testing.T) {
	mockSDK := &MockSDK{
		RevokeTokenFunc: func(ctx context.Context) error {
			return errors.New("api is down")
		},
	}
	a := newTestApp(mockSDK)

	err := authRevokeLogic(a, &cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoking token")
	assert.Contains(t, err.Error(), "api is down")
}

func TestAuthRevokeLogicNotAuthenticated(t *testing.T) {
	a := newTestApp(nil)

	err := authRevokeLogic(a, &cobra.Command{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, app.ErrNotAuthenticated))
}
