// Package dropbox (files.go) implements the content endpoints: files/download
// and files/upload. Content endpoints differ from the RPC endpoints in that
// the HTTP body carries file bytes and the call's arguments travel in the
// Dropbox-API-Arg header as compact JSON.
package dropbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// downloadArg is the Dropbox-API-Arg payload for files/download.
type downloadArg struct {
	Path string `json:"path"`
}

// Download fetches a file's content. The path is a Dropbox path such as
// "/folder/report.pdf"; an id or rev spec works too, Dropbox resolves them
// the same way.
//
// Example:
//
//	content, err := client.Download(ctx, "/notes/todo.txt")
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("todo.txt", content, 0644)
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	c.logger.Debugf("Download called for path: '%s'", path)

	req, err := newDownloadRequest(ctx, c.auth, c.contentBase, path)
	if err != nil {
		return nil, err
	}
	res, err := c.do(req, "download")
	if err != nil {
		return nil, err
	}
	defer closeBodySafely(res.Body, c.logger, "download")

	content, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading download content for '%s': %w", path, err)
	}
	return content, nil
}

// newDownloadRequest builds the files/download call: a POST against the
// content host with an empty body and the path in the arg header.
func newDownloadRequest(ctx context.Context, auth UserAuth, contentBase, path string) (*http.Request, error) {
	arg, err := json.Marshal(downloadArg{Path: path})
	if err != nil {
		return nil, fmt.Errorf("encoding download arg: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, contentBase+downloadPath, nil)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("Authorization", auth.AuthorizationHeader())
	req.Header.Set(apiArgHeader, string(arg))
	return req, nil
}

// Upload writes upload.Content to upload.Path in a single call. Dropbox caps
// single-call uploads at 150 MB; larger files need an upload session, which
// this client does not implement. The returned metadata reflects the file as
// stored, including the rev to pass to WriteModeUpdate for a follow-up write.
//
// Example:
//
//	response, err := client.Upload(ctx, dropbox.UploadRequest{
//		Path:    "/notes/todo.txt",
//		Mode:    dropbox.WriteModeOverwrite,
//		Content: []byte("buy milk\n"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println("stored as rev", response.Rev)
func (c *Client) Upload(ctx context.Context, upload UploadRequest) (*UploadResponse, error) {
	c.logger.Debugf("Upload called for path: '%s' (%d bytes)", upload.Path, len(upload.Content))

	req, err := newUploadRequest(ctx, c.auth, c.contentBase, upload)
	if err != nil {
		return nil, err
	}
	var response UploadResponse
	if err := c.doAndDecode(req, &response, "upload"); err != nil {
		return nil, err
	}
	return &response, nil
}

// newUploadRequest builds the files/upload call: the file bytes as an
// octet-stream body, everything else in the arg header.
func newUploadRequest(ctx context.Context, auth UserAuth, contentBase string, upload UploadRequest) (*http.Request, error) {
	arg, err := upload.apiArg()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, contentBase+uploadPath, bytes.NewReader(upload.Content))
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Authorization", auth.AuthorizationHeader())
	req.Header.Set(apiArgHeader, arg)
	req.Header.Set("Content-Type", "application/octet-stream")
	return req, nil
}
