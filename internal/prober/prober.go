// Package prober performs liveness checks against bookmark URLs.
package prober

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrCancelled marks a probe cut short by the caller's context. The scan
// orchestrator treats it as "no result, stop", never as a broken link.
var ErrCancelled = errors.New("probe cancelled")

// Response is the outcome of one liveness probe.
type Response struct {
	OK       bool
	Status   int           // HTTP status, 0 when the request never completed
	Err      string        // failure description when !OK
	Duration time.Duration
	Method   string // "HEAD" or "GET"
}

// HTTPProber checks URLs over the network. It tries HEAD first and falls
// back to a single GET when the server rejects or doesn't support HEAD.
type HTTPProber struct {
	client *http.Client
}

// New returns a prober with a shared redirect-limited client. The
// per-probe timeout is supplied by the caller on every call.
func New() *HTTPProber {
	return &HTTPProber{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Probe checks a single URL. Non-http(s) URLs are rejected before any
// network attempt and reported as a failed Response, not an error. A parent
// context cancellation returns ErrCancelled; every other failure becomes a
// Response with OK false.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string, timeout time.Duration) (*Response, error) {
	start := time.Now()

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return &Response{
			OK:       false,
			Err:      fmt.Sprintf("unsupported URL scheme %q", schemeOf(u)),
			Duration: time.Since(start),
			Method:   http.MethodHead,
		}, nil
	}

	resp, err := p.attempt(ctx, http.MethodHead, u.String(), timeout)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		// HEAD failed outright; some servers only answer GET.
		return p.get(ctx, u.String(), timeout, start)
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusMethodNotAllowed {
		return p.get(ctx, u.String(), timeout, start)
	}

	return &Response{
		OK:       true,
		Status:   resp.StatusCode,
		Duration: time.Since(start),
		Method:   http.MethodHead,
	}, nil
}

// get is the single retry after a failed or rejected HEAD. The response
// body is closed without being read.
func (p *HTTPProber) get(ctx context.Context, u string, timeout time.Duration, start time.Time) (*Response, error) {
	resp, err := p.attempt(ctx, http.MethodGet, u, timeout)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return &Response{
			OK:       false,
			Err:      normalizeError(err.Error()),
			Duration: time.Since(start),
			Method:   http.MethodGet,
		}, nil
	}
	resp.Body.Close()

	return &Response{
		OK:       true,
		Status:   resp.StatusCode,
		Duration: time.Since(start),
		Method:   http.MethodGet,
	}, nil
}

// attempt runs one request with its own timeout layered on the caller's
// context.
func (p *HTTPProber) attempt(ctx context.Context, method, u string, timeout time.Duration) (*http.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	// The body must be fully consumed before cancel fires, but liveness
	// checking never reads it, so the caller closes it immediately.
	return resp, nil
}

func schemeOf(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.Scheme
}

// normalizeError simplifies verbose transport errors into readable
// categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
