package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/veligo/dropbox-client/internal/app"
	"github.com/veligo/dropbox-client/internal/ui"
)

// maxDirectUploadBytes is the Dropbox cap for a single /files/upload call.
const maxDirectUploadBytes = 150 * 1024 * 1024

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Transfer files to and from Dropbox",
	Long:  "Provides commands for uploading and downloading files.",
}

var filesDownloadCmd = &cobra.Command{
	Use:   "download <remote-path> [local-path]",
	Short: "Download a file from Dropbox",
	Long:  "Downloads a file from your Dropbox. If no local path is given, the file is saved in the current directory under its remote name.",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := app.NewApp(cmd)
		if err != nil {
			log.Fatalf("Error creating app: %v", err)
		}
		if err := filesDownloadLogic(a, cmd, args); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

var filesUploadCmd = &cobra.Command{
	Use:   "upload <local-file> [remote-path]",
	Short: "Upload a file to Dropbox",
	Long: `Uploads a local file to your Dropbox. If no remote path is given, the
file lands in the root folder under its local name. A remote path ending in
'/' is treated as a folder and the local name is appended.

The write mode controls conflicts: 'add' (default) renames on conflict when
--autorename is set, 'overwrite' replaces the remote file, and 'update'
replaces it only when --rev still matches the server copy.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := app.NewApp(cmd)
		if err != nil {
			log.Fatalf("Error creating app: %v", err)
		}
		if err := filesUploadLogic(a, cmd, args); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func filesDownloadLogic(a *app.App, cmd *cobra.Command, args []string) error {
	sdk, err := a.RequireSDK()
	if err != nil {
		return err
	}

	remotePath := args[0]
	localPath := filepath.Base(remotePath)
	if len(args) == 2 {
		localPath = args[1]
	}

	content, err := sdk.Download(cmd.Context(), remotePath)
	if err != nil {
		return fmt.Errorf("downloading '%s': %w", remotePath, err)
	}

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("creating local file: %w", err)
	}
	defer file.Close()

	bar := ui.NewProgressBar(int64(len(content)), "Saving "+filepath.Base(localPath)+"...")
	if _, err := io.Copy(io.MultiWriter(file, bar), bytes.NewReader(content)); err != nil {
		return fmt.Errorf("writing local file: %w", err)
	}

	ui.PrintSuccess("Downloaded '%s' to '%s' (%d bytes)", remotePath, localPath, len(content))
	return nil
}

func filesUploadLogic(a *app.App, cmd *cobra.Command, args []string) error {
	sdk, err := a.RequireSDK()
	if err != nil {
		return err
	}

	request, err := ui.ParseUploadFlags(cmd)
	if err != nil {
		return err
	}

	localPath := args[0]
	request.Path = remoteUploadPath(localPath, args)

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening local file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("inspecting local file: %w", err)
	}
	if info.Size() > maxDirectUploadBytes {
		return fmt.Errorf("'%s' exceeds the 150 MB limit for single-call uploads", localPath)
	}

	var buf bytes.Buffer
	bar := ui.NewProgressBar(info.Size(), "Reading "+filepath.Base(localPath)+"...")
	if _, err := io.Copy(io.MultiWriter(&buf, bar), file); err != nil {
		return fmt.Errorf("reading local file: %w", err)
	}
	request.Content = buf.Bytes()

	response, err := sdk.Upload(cmd.Context(), request)
	if err != nil {
		return fmt.Errorf("uploading '%s': %w", localPath, err)
	}

	ui.PrintSuccess("Uploaded '%s' to '%s'", localPath, request.Path)
	ui.DisplayUploadResponse(response)
	return nil
}

// remoteUploadPath resolves the Dropbox destination for an upload. Paths are
// rooted at '/'; a trailing '/' means "into this folder".
func remoteUploadPath(localPath string, args []string) string {
	if len(args) < 2 {
		return "/" + filepath.Base(localPath)
	}
	remote := args[1]
	if !strings.HasPrefix(remote, "/") {
		remote = "/" + remote
	}
	if strings.HasSuffix(remote, "/") {
		remote += filepath.Base(localPath)
	}
	return remote
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.AddCommand(filesDownloadCmd)
	filesCmd.AddCommand(filesUploadCmd)

	ui.AddUploadFlags(filesUploadCmd)
}
