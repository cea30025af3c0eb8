package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Response is what the gateway answered to a single request.
type Response struct {
	StatusCode int
	Body       string
}

// Requester performs form-encoded POST requests. Tests swap it for a fake.
type Requester interface {
	PostForm(ctx context.Context, endpoint string, form url.Values) (*Response, error)
}

// HTTPRequester is the default Requester, backed by net/http.
type HTTPRequester struct {
	httpClient *http.Client
}

// NewHTTPRequester wraps hc, or a client with a 10s timeout when hc is nil.
func NewHTTPRequester(hc *http.Client) *HTTPRequester {
	if hc == nil {
		hc = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	return &HTTPRequester{httpClient: hc}
}

// PostForm implements Requester.
func (r *HTTPRequester) PostForm(ctx context.Context, endpoint string, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(raw)}, nil
}

var _ Requester = (*HTTPRequester)(nil)
