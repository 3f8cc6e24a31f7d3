package slack

import "fmt"

// APIError is the single error type every client method returns on failure.
// It carries the Slack method that was called, the upstream error code
// (Slack's "error" field, or a synthetic code for transport-level failures)
// and an optional wrapped cause. No raw transport error escapes the client.
type APIError struct {
	Method  string
	Code    string
	Message string
	Err     error
}

// Synthetic codes for failures that never reached a Slack "error" field.
const (
	codeTransport          = "transport_error"
	codeInvalidResponse    = "invalid_response"
	codePaginationOverflow = "pagination_overflow"
)

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("slack %s failed: %s: %s", e.Method, e.Code, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("slack %s failed: %s: %v", e.Method, e.Code, e.Err)
	default:
		return fmt.Sprintf("slack %s failed: %s", e.Method, e.Code)
	}
}

func (e *APIError) Unwrap() error { return e.Err }
