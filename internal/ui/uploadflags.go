package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/veligo/dropbox-client/pkg/dropbox"
)

// AddUploadFlags adds the standard upload behavior flags to a command.
func AddUploadFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "add", "Conflict behavior: add, overwrite, or update")
	cmd.Flags().String("rev", "", "Revision to replace (required with --mode update)")
	cmd.Flags().Bool("autorename", false, "Let Dropbox rename the file on conflict")
	cmd.Flags().Bool("mute", false, "Suppress the desktop notification for this change")
	cmd.Flags().String("client-modified", "", "Modification time to record for the file (RFC 3339)")
}

// ParseUploadFlags extracts upload settings from command flags into a
// request. Path and Content are left for the caller to fill in.
func ParseUploadFlags(cmd *cobra.Command) (dropbox.UploadRequest, error) {
	var request dropbox.UploadRequest

	mode, err := cmd.Flags().GetString("mode")
	if err != nil {
		return dropbox.UploadRequest{}, fmt.Errorf("error parsing mode flag: %w", err)
	}
	rev, err := cmd.Flags().GetString("rev")
	if err != nil {
		return dropbox.UploadRequest{}, fmt.Errorf("error parsing rev flag: %w", err)
	}

	switch mode {
	case "", "add":
		request.Mode = dropbox.WriteModeAdd
	case "overwrite":
		request.Mode = dropbox.WriteModeOverwrite
	case "update":
		if rev == "" {
			return dropbox.UploadRequest{}, errors.New("--mode update requires --rev")
		}
		request.Mode = dropbox.WriteModeUpdate(rev)
	default:
		return dropbox.UploadRequest{}, fmt.Errorf("unknown write mode %q", mode)
	}
	if rev != "" && mode != "update" {
		return dropbox.UploadRequest{}, errors.New("--rev only applies with --mode update")
	}

	request.Autorename, err = cmd.Flags().GetBool("autorename")
	if err != nil {
		return dropbox.UploadRequest{}, fmt.Errorf("error parsing autorename flag: %w", err)
	}
	request.Mute, err = cmd.Flags().GetBool("mute")
	if err != nil {
		return dropbox.UploadRequest{}, fmt.Errorf("error parsing mute flag: %w", err)
	}

	clientModified, err := cmd.Flags().GetString("client-modified")
	if err != nil {
		return dropbox.UploadRequest{}, fmt.Errorf("error parsing client-modified flag: %w", err)
	}
	if clientModified != "" {
		parsed, err := time.Parse(time.RFC3339, clientModified)
		if err != nil {
			return dropbox.UploadRequest{}, fmt.Errorf("parsing client-modified time: %w", err)
		}
		request.ClientModified = &parsed
	}

	return request, nil
}
