package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthTransport(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer ts.Close()

	client := &http.Client{Transport: &AuthTransport{Authorization: "Bearer token123"}}

	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	resp.Body.Close()
	if got != "Bearer token123" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer token123")
	}

	// An explicit header on the request must win.
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	if err != nil {
		t.Fatalf("NewRequest() = %v", err)
	}
	req.Header.Set("Authorization", "Bearer other")

	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("Do() = %v", err)
	}
	resp.Body.Close()
	if got != "Bearer other" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer other")
	}
}
