package wire

// Status is the dispatch outcome reported on the wire.
type Status string

const (
	// StatusHandled reports that a handler serviced the request.
	StatusHandled Status = "handled"

	// StatusUnhandled reports that no handler in the chain matched.
	StatusUnhandled Status = "unhandled"

	// StatusError reports that the request could not be dispatched.
	StatusError Status = "error"
)

// Response represents the outcome of one request
type Response struct {
	Status  Status `json:"status"`
	Handler string `json:"handler,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      ID     `json:"id"`
}

// NewResponse creates a new Response object
func NewResponse(id any, status Status, handler string, err *Error) Response {
	respID, _ := NewID(id)

	return Response{
		Status:  status,
		Handler: handler,
		Error:   err,
		ID:      respID,
	}
}
