package wire

import "fmt"

// ErrorCode classifies a transport-level failure
type ErrorCode int

const (
	// ErrParse indicates the incoming line was not valid JSON.
	ErrParse ErrorCode = iota + 1

	// ErrInvalidRequest indicates a well-formed line that is not a valid
	// request object (for example, a missing tag).
	ErrInvalidRequest

	// ErrInternal indicates a handler failed while servicing the request.
	ErrInternal
)

// errorDetails maps error codes to their standard messages
var errorDetails = map[ErrorCode]string{
	ErrParse:          "Parse error",
	ErrInvalidRequest: "Invalid request",
	ErrInternal:       "Internal error",
}

// Error represents an error object carried on a response
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

var _ error = &Error{}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// NewError creates a new Error with the given code and optional data
func NewError(code ErrorCode, data any) *Error {
	msg, ok := errorDetails[code]
	if !ok {
		msg = "Unknown error"
	}

	return &Error{
		Code:    code,
		Message: msg,
		Data:    data,
	}
}
