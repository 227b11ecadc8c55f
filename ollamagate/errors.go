package ollamagate

import "fmt"

// GatewayError is the base error type for all gateway errors.
type GatewayError struct {
	Message string
	Cause   error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// UnsupportedModelError reports a model identifier rejected by the allow-list.
// It is raised before any network activity and is never retried.
type UnsupportedModelError struct {
	Model string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("model not supported: %s", e.Model)
}

// TransportError is a network or I/O failure during one attempt. Timeouts
// carry the Timeout flag but retry the same way.
type TransportError struct {
	GatewayError
	Timeout bool
}

// MalformedResponseError means the backend responded but without the expected
// payload shape. Retryable like a transport error.
type MalformedResponseError struct {
	GatewayError
}

// CancelledError is terminal: once a call observes a cancellation it never
// retries, regardless of remaining attempt budget.
type CancelledError struct{}

func (e *CancelledError) Error() string {
	return "generation cancelled by user"
}

// ExhaustedRetriesError wraps the last attempt's error after the retry
// ceiling is reached.
type ExhaustedRetriesError struct {
	Attempts int
	LastErr  error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("service unavailable after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.LastErr
}

// IsRetryable reports whether the retry engine may attempt again after err.
func IsRetryable(err error) bool {
	switch err.(type) {
	case *TransportError, *MalformedResponseError:
		return true
	default:
		return false
	}
}
