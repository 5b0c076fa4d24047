package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeInvalidContext = "invalid_context"
	ErrCodeAlreadyActive  = "already_active"
	ErrCodeNotActive      = "not_active"
	ErrCodeBadRequest     = "bad_request"
)

var (
	ErrInvalidContext = coreError(ErrCodeInvalidContext, "invalid room context")
	ErrAlreadyActive  = coreError(ErrCodeAlreadyActive, "client is already active in another room")
	ErrNotActive      = coreError(ErrCodeNotActive, "session is not active")
	ErrBadRequest     = coreError(ErrCodeBadRequest, "bad request")

	// ErrBackpressure is returned by Conn.Send when the outbound buffer is full.
	ErrBackpressure = errors.New("backpressure")
	// ErrConnClosed is returned by Conn.Send after Close.
	ErrConnClosed = errors.New("connection closed")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

// Is matches any CoreError with the same code, so callers can compare
// against the sentinels regardless of the message text.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	return ok && t.Code == e.Code
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// asCoreError converts err into a CoreError, falling back to bad_request.
func asCoreError(err error) *CoreError {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce
	}
	return coreError(ErrCodeBadRequest, err.Error())
}
