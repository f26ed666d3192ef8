package app

import (
	"context"

	"github.com/veligo/dropbox-client/pkg/dropbox"
)

// SDK defines the interface for interacting with the Dropbox API.
// This allows for mocking in tests.
type SDK interface {
	RevokeToken(ctx context.Context) error
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, request dropbox.UploadRequest) (*dropbox.UploadResponse, error)
}

// LiveSDK is the concrete implementation of the SDK interface that makes
// real API calls through a dropbox.Client.
type LiveSDK struct {
	client *dropbox.Client
}

// NewLiveSDK wraps a client in the SDK interface.
func NewLiveSDK(client *dropbox.Client) *LiveSDK {
	return &LiveSDK{client: client}
}

// RevokeToken calls the real dropbox.Client RevokeToken method.
func (s *LiveSDK) RevokeToken(ctx context.Context) error {
	return s.client.RevokeToken(ctx)
}

// Download calls the real dropbox.Client Download method.
func (s *LiveSDK) Download(ctx context.Context, path string) ([]byte, error) {
	return s.client.Download(ctx, path)
}

// Upload calls the real dropbox.Client Upload method.
func (s *LiveSDK) Upload(ctx context.Context, request dropbox.UploadRequest) (*dropbox.UploadResponse, error) {
	return s.client.Upload(ctx, request)
}
