// Package dropbox (constants.go) defines the endpoints, headers, and other
// fixed values the SDK uses when talking to the Dropbox HTTP API.
package dropbox

import "time"

const (
	// defaultAPIBase is the root of the RPC-style endpoints (JSON in, JSON out).
	defaultAPIBase = "https://api.dropboxapi.com/2"

	// defaultContentBase is the root of the content endpoints, which carry
	// file bytes in the request or response body and their arguments in the
	// Dropbox-API-Arg header.
	defaultContentBase = "https://content.dropboxapi.com/2"

	// authorizeEndpoint is where users are sent to grant the app access.
	authorizeEndpoint = "https://www.dropbox.com/oauth2/authorize"

	// tokenEndpoint exchanges authorization codes for tokens in the PKCE flow.
	tokenEndpoint = "https://api.dropboxapi.com/oauth2/token"
)

const (
	revokePath   = "/auth/token/revoke"
	downloadPath = "/files/download"
	uploadPath   = "/files/upload"
)

// apiArgHeader carries a content endpoint's argument object as compact JSON.
const apiArgHeader = "Dropbox-API-Arg"

// timeFormat is how Dropbox renders timestamps: UTC, seconds precision.
const timeFormat = "2006-01-02T15:04:05Z"

// DefaultTimeout is the HTTP client timeout used when the caller does not
// supply their own client via WithHTTPClient.
const DefaultTimeout = 30 * time.Second
