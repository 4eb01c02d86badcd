package internal

import "net/http"

// AuthTransport is a RoundTripper that injects an Authorization header into
// outbound requests that do not already carry one.
type AuthTransport struct {
	Base          http.RoundTripper
	Authorization string
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Authorization != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", t.Authorization)
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
