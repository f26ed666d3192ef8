// Package dropbox provides utility functions for common operations and error
// handling.
package dropbox

import "io"

// closeBodySafely closes an HTTP response body and logs any error. Intended
// for defer statements where the close error is not worth failing over.
func closeBodySafely(body io.Closer, logger Logger, operation string) {
	if err := body.Close(); err != nil {
		logger.Warnf("Failed to close %s body: %v", operation, err)
	}
}

// readErrorBody reads and returns the error body from an HTTP response, with
// safe handling of nil and read failures.
func readErrorBody(body io.Reader) string {
	if body == nil {
		return ""
	}
	errorBody, _ := io.ReadAll(body)
	return string(errorBody)
}
