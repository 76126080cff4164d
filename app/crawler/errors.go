package crawler

import "fmt"

// TransportError reports a non-success HTTP status from the remote API.
type TransportError struct {
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("HTTP request failed with status %d", e.StatusCode)
}

// ContentError reports a response body that lacks the expected success
// marker or does not decode into the expected shape.
type ContentError struct {
	Body string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("invalid response content: %s", truncate(e.Body, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
