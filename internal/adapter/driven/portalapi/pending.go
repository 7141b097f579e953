package portalapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// MaxRetries is how many times a request may be reissued after a 401.
const MaxRetries = 1

// requestIDHeader correlates an original request with its retry in logs on
// both sides.
const requestIDHeader = "X-Request-ID"

// PendingRequest describes an outbound request in a form that can be sent
// again: the body is buffered so a retry replays the same bytes. Attempt
// counts prior retries and is only advanced by Retry, which returns a new
// descriptor.
type PendingRequest struct {
	ID      string
	Method  string
	URL     *url.URL
	Header  http.Header
	Body    []byte
	Attempt int
}

// NewPendingRequest captures req as a PendingRequest with Attempt 0. The
// request body is read fully and closed.
func NewPendingRequest(req *http.Request) (PendingRequest, error) {
	body, err := bufferBody(req)
	if err != nil {
		return PendingRequest{}, fmt.Errorf("buffer request body for %s %s: %w", req.Method, req.URL.Path, err)
	}

	id := req.Header.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}

	u := *req.URL
	return PendingRequest{
		ID:     id,
		Method: req.Method,
		URL:    &u,
		Header: req.Header.Clone(),
		Body:   body,
	}, nil
}

// CanRetry reports whether the descriptor may still be reissued.
func (p PendingRequest) CanRetry() bool {
	return p.Attempt < MaxRetries
}

// Retry returns a copy of the descriptor with Attempt advanced by one.
func (p PendingRequest) Retry() PendingRequest {
	next := p
	next.Header = p.Header.Clone()
	next.Attempt++
	return next
}

// Request builds a fresh *http.Request for one attempt.
func (p PendingRequest) Request(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if p.Body != nil {
		body = bytes.NewReader(p.Body)
	}

	req, err := http.NewRequestWithContext(ctx, p.Method, p.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", p.Method, p.URL.Path, err)
	}
	req.Header = p.Header.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	req.Header.Set(requestIDHeader, p.ID)
	return req, nil
}

func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer func() { _ = req.Body.Close() }()

	if req.GetBody != nil {
		rc, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return io.ReadAll(req.Body)
}
