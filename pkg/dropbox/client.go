package dropbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Logger is the interface the SDK uses for logging. It is a structural
// subset of the CLI's logger, so any richer implementation drops straight in.
type Logger interface {
	Debug(msg string, args ...any)
	Debugf(format string, args ...any)
	Warn(msg string, args ...any)
	Warnf(format string, args ...any)
}

// noopLogger discards everything; it is the default when no logger is set.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any)     {}
func (noopLogger) Debugf(format string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)      {}
func (noopLogger) Warnf(format string, args ...any)  {}

// Client calls the Dropbox API on behalf of one user credential. The zero
// value is not usable; construct with NewClient.
type Client struct {
	auth        UserAuth
	httpClient  *http.Client
	logger      Logger
	apiBase     string
	contentBase string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client and its DefaultTimeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEndpoints overrides the API and content hosts, mainly for tests
// against local servers.
func WithEndpoints(apiBase, contentBase string) Option {
	return func(c *Client) {
		c.apiBase = strings.TrimSuffix(apiBase, "/")
		c.contentBase = strings.TrimSuffix(contentBase, "/")
	}
}

// NewClient returns a Client authenticated as auth.
//
// Example:
//
//	auth := dropbox.BearerAuth(os.Getenv("DROPBOX_ACCESS_TOKEN"))
//	client := dropbox.NewClient(auth)
func NewClient(auth UserAuth, opts ...Option) *Client {
	c := &Client{
		auth:        auth,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		logger:      noopLogger{},
		apiBase:     defaultAPIBase,
		contentBase: defaultContentBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger allows users of the SDK to swap the logger after construction.
func (c *Client) SetLogger(l Logger) {
	if l != nil {
		c.logger = l
	}
}

// do executes a prepared request and checks the status. Non-2xx responses
// are drained into an *APIError; the caller owns the body only on success.
func (c *Client) do(req *http.Request, operation string) (*http.Response, error) {
	c.logger.Debugf("%s: %s %s", operation, req.Method, req.URL)
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		defer closeBodySafely(res.Body, c.logger, operation)
		return nil, fmt.Errorf("%s: %w", operation, parseAPIError(res))
	}
	return res, nil
}

// doAndDecode performs a call and decodes the JSON response into dest.
func (c *Client) doAndDecode(req *http.Request, dest any, operation string) error {
	res, err := c.do(req, operation)
	if err != nil {
		return err
	}
	defer closeBodySafely(res.Body, c.logger, operation)

	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", ErrDecodingFailed, operation, err)
	}
	return nil
}

// parseAPIError turns a non-2xx response into an *APIError, pulling out the
// error_summary Dropbox includes in JSON error bodies when there is one.
func parseAPIError(res *http.Response) *APIError {
	apiError := &APIError{StatusCode: res.StatusCode, Summary: res.Status}
	body := readErrorBody(res.Body)
	var payload struct {
		ErrorSummary string `json:"error_summary"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload.ErrorSummary != "" {
		apiError.Summary = payload.ErrorSummary
	} else if trimmed := strings.TrimSpace(body); trimmed != "" {
		apiError.Summary = trimmed
	}
	return apiError
}

// APIError is a non-success response from the Dropbox API. It matches
// ErrAPIResponse under errors.Is.
type APIError struct {
	StatusCode int
	Summary    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", ErrAPIResponse, e.StatusCode, e.Summary)
}

func (e *APIError) Unwrap() error {
	return ErrAPIResponse
}

// RevokeToken disables the client's access token server-side. The call
// returns no payload; success is the status code alone.
//
// Example:
//
//	if err := client.RevokeToken(ctx); err != nil {
//		log.Fatal(err)
//	}
func (c *Client) RevokeToken(ctx context.Context) error {
	c.logger.Debug("RevokeToken called")
	req, err := newRevokeRequest(ctx, c.auth, c.apiBase)
	if err != nil {
		return err
	}
	res, err := c.do(req, "revoke token")
	if err != nil {
		return err
	}
	closeBodySafely(res.Body, c.logger, "revoke token")
	return nil
}

// newRevokeRequest builds the auth/token/revoke call: a bare POST carrying
// only the Authorization header.
func newRevokeRequest(ctx context.Context, auth UserAuth, apiBase string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+revokePath, nil)
	if err != nil {
		return nil, fmt.Errorf("creating revoke request: %w", err)
	}
	req.Header.Set("Authorization", auth.AuthorizationHeader())
	return req, nil
}

// Sentinel errors
var (
	// ErrNoAuthorization means a redirect fragment carried no credentials.
	// Expected on any page load that is not Dropbox's redirect.
	ErrNoAuthorization = errors.New("no authorization found")

	// ErrAPIResponse is the base error for non-2xx API responses; the
	// detail travels in the wrapping *APIError.
	ErrAPIResponse = errors.New("dropbox api error")

	// ErrDecodingFailed means the API returned success but the payload did
	// not match the expected shape.
	ErrDecodingFailed = errors.New("decoding failed")
)
