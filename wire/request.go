// Package wire defines the line-oriented envelope exchanged over a
// transport: one JSON request per line in, one JSON response per line out.
package wire

import "encoding/json"

// Request represents a routed request read off the transport
type Request struct {
	Tag     string          `json:"tag"`
	Payload json.RawMessage `json:"payload,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// NewRequest creates a new Request object
func NewRequest(tag string, payload json.RawMessage, id any) Request {
	return Request{
		Tag:     tag,
		Payload: payload,
		ID:      id,
	}
}
