package github

import (
	"io"
	"net/http"
	"strings"
)

// DryRunHeader marks synthetic responses produced by DryRunTransport
const DryRunHeader = "X-Dry-Run"

// DryRunTransport is an http.RoundTripper that lets read requests through
// and suppresses everything else. Suppressed requests never reach the
// network; they are answered locally with a minimal success response so the
// calling code continues down its normal path, making a dry run exercise
// exactly the live code without remote effects. Synthetic responses carry
// the X-Dry-Run header so the suppression stays visible in tests and traces.
type DryRunTransport struct {
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *DryRunTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return t.base().RoundTrip(req)
	}

	if req.Body != nil {
		req.Body.Close()
	}

	return &http.Response{
		Status:     "200 OK",
		StatusCode: http.StatusOK,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header: http.Header{
			"Content-Type": {"application/json; charset=utf-8"},
			DryRunHeader:   {"suppressed"},
		},
		Body:          io.NopCloser(strings.NewReader("{}")),
		ContentLength: 2,
		Request:       req,
	}, nil
}

func (t *DryRunTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
