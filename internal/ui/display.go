// Package ui (display.go) provides functions for formatting and printing
// Dropbox data structures (file metadata, media details, auth status) to the
// console in a user-friendly way. It also includes helpers for progress bars
// and standardized success/error messages.
package ui

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/veligo/dropbox-client/pkg/dropbox"
)

// Success prints a simple success message to standard output.
func Success(msg string) {
	fmt.Println(msg)
}

// PrintSuccess prints a formatted success message through the standard
// logger, for positive feedback after an operation completes.
func PrintSuccess(msg string, args ...interface{}) {
	log.Printf("SUCCESS: "+msg, args...)
}

// PrintError prints a formatted error message through the standard logger.
func PrintError(err error) {
	log.Printf("ERROR: %v", err)
}

// formatBytes renders a byte count in binary units (KiB, MiB, ...).
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// DisplayUploadResponse prints the metadata Dropbox returned for an uploaded
// file, one field per line. Optional fields appear only when present.
func DisplayUploadResponse(response *dropbox.UploadResponse) {
	fmt.Println("Uploaded file metadata:")
	fmt.Printf("  Name:             %s\n", response.Name)
	fmt.Printf("  ID:               %s\n", response.ID)
	fmt.Printf("  Size:             %s (%d bytes)\n", formatBytes(response.Size), response.Size)
	fmt.Printf("  Client Modified:  %s\n", response.ClientModified.Local().Format(time.RFC1123))
	fmt.Printf("  Server Modified:  %s\n", response.ServerModified.Local().Format(time.RFC1123))
	fmt.Printf("  Rev:              %s\n", response.Rev)

	if response.PathDisplay != nil {
		fmt.Printf("  Path:             %s\n", *response.PathDisplay)
	}
	if response.ContentHash != nil {
		fmt.Printf("  Content Hash:     %s\n", *response.ContentHash)
	}
	if response.SharingInfo != nil {
		fmt.Printf("  Shared:           yes (read-only: %t)\n", response.SharingInfo.ReadOnly)
	}
	if response.MediaInfo != nil {
		displayMediaInfo(*response.MediaInfo)
	}
	if len(response.PropertyGroups) > 0 {
		fmt.Printf("  Property Groups:  %d\n", len(response.PropertyGroups))
	}
}

func displayMediaInfo(info dropbox.MediaInfo) {
	if info.Pending() {
		fmt.Printf("  Media Info:       pending analysis\n")
		return
	}
	if info.Metadata == nil {
		return
	}
	switch {
	case info.Metadata.Photo != nil:
		photo := info.Metadata.Photo
		fmt.Printf("  Media Info:       photo%s\n", describeMedia(photo.Dimensions, photo.TimeTaken))
	case info.Metadata.Video != nil:
		video := info.Metadata.Video
		detail := describeMedia(video.Dimensions, video.TimeTaken)
		if video.Duration != nil {
			detail += fmt.Sprintf(", %v", time.Duration(*video.Duration)*time.Millisecond)
		}
		fmt.Printf("  Media Info:       video%s\n", detail)
	}
}

func describeMedia(dimensions *dropbox.Dimensions, taken *time.Time) string {
	var detail string
	if dimensions != nil {
		detail += fmt.Sprintf(", %dx%d", dimensions.Width, dimensions.Height)
	}
	if taken != nil {
		detail += ", taken " + taken.Local().Format(time.RFC1123)
	}
	return detail
}

// DisplayAuthStatus summarizes the authentication state without revealing
// the token itself.
func DisplayAuthStatus(appKeySet, tokenSet bool, configPath string) {
	fmt.Println("Authentication status:")
	fmt.Printf("  Config file:      %s\n", configPath)
	fmt.Printf("  App key:          %s\n", presence(appKeySet))
	fmt.Printf("  Access token:     %s\n", presence(tokenSet))
	if !tokenSet {
		fmt.Println("\nSet DROPBOX_ACCESS_TOKEN or run 'dropbox-client auth login' to authenticate.")
	}
}

func presence(set bool) string {
	if set {
		return "configured"
	}
	return "not set"
}

// NewProgressBar creates and returns a new progress bar configured for file
// transfers. maxBytes is the total size of the transfer in bytes.
func NewProgressBar(maxBytes int64, description string) *progressbar.ProgressBar {
	if description == "" {
		description = "Processing..."
	}
	return progressbar.NewOptions64(
		maxBytes,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr), // Stderr so piped stdout stays clean
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}
