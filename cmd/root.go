// Package cmd (root.go) defines the root command for the dropbox-client CLI.
// It sets up global flags and initializes subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// It provides overall application description and handles global setup.
var rootCmd = &cobra.Command{
	Use:   "dropbox-client",
	Short: "A CLI client for Dropbox",
	Long: `dropbox-client is a command-line interface tool to interact with Dropbox.
It allows you to authorize the application against your account, upload and
download files, and revoke access tokens when you no longer need them.

Current capabilities include:
  - Authorization management (url, login, status, revoke)
  - File transfer (upload, download)

Access tokens are never written to disk. Pass the token through the
DROPBOX_ACCESS_TOKEN environment variable instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help when no subcommand is provided.
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging for detailed API interactions")
}
