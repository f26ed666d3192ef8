// Package cmd (auth.go) defines the Cobra commands related to authorization
// with Dropbox. This includes 'auth url', 'auth login', 'auth status', and
// 'auth revoke'. These commands interact with the internal app logic to build
// authorize URLs and validate the credentials Dropbox hands back.
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/veligo/dropbox-client/internal/app"
	"github.com/veligo/dropbox-client/internal/config"
	"github.com/veligo/dropbox-client/internal/ui"
	"github.com/veligo/dropbox-client/pkg/dropbox"
)

// authCmd represents the base command for authorization operations.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authorization with Dropbox",
	Long:  "Provides subcommands to build the authorization URL, complete a login, check the current status, and revoke the active access token.",
}

// authURLCmd prints the browser URL that starts the implicit-grant flow.
var authURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the Dropbox authorization URL",
	Long: `Prints the URL that starts the authorization flow in a browser.
The app key and redirect URI come from the configuration file or the
DROPBOX_APP_KEY and DROPBOX_REDIRECT_URI environment variables.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := app.NewApp(cmd)
		if err != nil {
			log.Fatalf("Error creating app: %v", err)
		}
		if err := authURLLogic(a, cmd, args); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

// authLoginCmd walks the user through the full authorization flow.
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize this app against your Dropbox account",
	Long: `Starts the authorization flow. The command prints a URL to open in a
browser; after you approve the app, Dropbox redirects the browser to the
registered redirect URI with credentials attached.

In the default (implicit grant) flow, paste the full redirect URL back here,
including the #fragment. With --pkce, Dropbox uses the code grant with PKCE
instead and shows an authorization code to paste.

The access token is never written to disk. The command prints an export line
for DROPBOX_ACCESS_TOKEN to paste into your shell.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := app.NewApp(cmd)
		if err != nil {
			log.Fatalf("Error creating app: %v", err)
		}
		if err := authLoginLogic(a, cmd, os.Stdin); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

// authStatusCmd reports whether an app key and access token are available.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current authorization status",
	Long:  "Shows whether an app key is configured and whether an access token is present in the environment.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := app.NewApp(cmd)
		if err != nil {
			log.Fatalf("Error creating app: %v", err)
		}
		if err := authStatusLogic(a, cmd, args); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

// authRevokeCmd invalidates the active access token server-side.
var authRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke the active access token",
	Long:  "Invalidates the current access token server-side. Afterwards the token can no longer be used.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := app.NewApp(cmd)
		if err != nil {
			log.Fatalf("Error creating app: %v", err)
		}
		if err := authRevokeLogic(a, cmd, args); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func authURLLogic(a *app.App, cmd *cobra.Command, args []string) error {
	request, err := authorizeRequest(a.Config)
	if err != nil {
		return err
	}
	fmt.Println(request.URL())
	return nil
}

func authLoginLogic(a *app.App, cmd *cobra.Command, in io.Reader) error {
	pkce, _ := cmd.Flags().GetBool("pkce")
	if pkce {
		return authLoginPKCE(a, cmd, in)
	}
	return authLoginImplicit(a, cmd, in)
}

// authLoginImplicit runs the token (implicit grant) flow: the browser lands on
// the redirect URI with the credentials in the URL fragment, and the user
// pastes that URL back into the terminal.
func authLoginImplicit(a *app.App, cmd *cobra.Command, in io.Reader) error {
	request, err := authorizeRequest(a.Config)
	if err != nil {
		return err
	}

	fmt.Println("Open this URL in your browser and approve the app:")
	fmt.Println()
	fmt.Println("  " + request.URL())
	fmt.Println()
	fmt.Print("Paste the full redirect URL here: ")

	line, err := readLine(in)
	if err != nil {
		return fmt.Errorf("reading redirect URL: %w", err)
	}
	loc, err := url.Parse(line)
	if err != nil {
		return fmt.Errorf("parsing redirect URL: %w", err)
	}

	response, err := dropbox.ParseAuthorizeResponse(dropbox.ParseFragment(loc.EscapedFragment()))
	if err != nil {
		if errors.Is(err, dropbox.ErrNoAuthorization) {
			return errors.New("the pasted URL carries no credentials; copy the full redirect URL including the #fragment")
		}
		return err
	}
	auth, err := response.UserAuth()
	if err != nil {
		return err
	}

	fmt.Println()
	ui.Success("Authorization complete.")
	fmt.Printf("  Account: %s (uid %s)\n", response.AccountID, response.UID)
	printTokenInstructions(auth.AccessToken())
	return nil
}

// authLoginPKCE runs the code grant with PKCE. Dropbox displays the
// authorization code in the browser when no redirect URI is registered, so
// this flow works without one.
func authLoginPKCE(a *app.App, cmd *cobra.Command, in io.Reader) error {
	if a.Config.AppKey == "" {
		return errors.New("no app key configured: set DROPBOX_APP_KEY or add app_key to the config file")
	}

	oauthConfig := dropbox.NewOAuthConfig(a.Config.AppKey, a.Config.RedirectURI)
	authURL, verifier, err := dropbox.StartAuthorization(oauthConfig)
	if err != nil {
		return fmt.Errorf("starting authorization: %w", err)
	}

	fmt.Println("Open this URL in your browser and approve the app:")
	fmt.Println()
	fmt.Println("  " + authURL)
	fmt.Println()
	fmt.Print("Paste the authorization code here: ")

	code, err := readLine(in)
	if err != nil {
		return fmt.Errorf("reading authorization code: %w", err)
	}

	auth, err := dropbox.CompleteAuthorization(cmd.Context(), oauthConfig, code, verifier)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	fmt.Println()
	ui.Success("Authorization complete.")
	printTokenInstructions(auth.AccessToken())
	return nil
}

func authStatusLogic(a *app.App, cmd *cobra.Command, args []string) error {
	configPath, err := config.Path()
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	ui.DisplayAuthStatus(a.Config.AppKey != "", a.Config.AccessToken != "", configPath)
	return nil
}

func authRevokeLogic(a *app.App, cmd *cobra.Command, args []string) error {
	sdk, err := a.RequireSDK()
	if err != nil {
		return err
	}
	if err := sdk.RevokeToken(cmd.Context()); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	ui.Success("Access token revoked. Unset DROPBOX_ACCESS_TOKEN to finish cleaning up.")
	return nil
}

// authorizeRequest builds the implicit-grant request from configuration.
func authorizeRequest(cfg *config.Configuration) (dropbox.AuthorizeRequest, error) {
	if cfg.AppKey == "" {
		return dropbox.AuthorizeRequest{}, errors.New("no app key configured: set DROPBOX_APP_KEY or add app_key to the config file")
	}
	if cfg.RedirectURI == "" {
		return dropbox.AuthorizeRequest{}, errors.New("no redirect URI configured: set DROPBOX_REDIRECT_URI or add redirect_uri to the config file")
	}
	return dropbox.AuthorizeRequest{ClientID: cfg.AppKey, RedirectURI: cfg.RedirectURI}, nil
}

// readLine reads a single trimmed line from the given reader.
func readLine(in io.Reader) (string, error) {
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func printTokenInstructions(token string) {
	fmt.Println()
	fmt.Println("The token is not persisted. Export it for this shell session:")
	fmt.Println()
	fmt.Printf("  export DROPBOX_ACCESS_TOKEN=%s\n", token)
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authURLCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRevokeCmd)

	authLoginCmd.Flags().Bool("pkce", false, "Use the code grant with PKCE instead of the implicit grant")
}
