// Package fetcher performs the outbound request for URLs the policy allowed.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds the whole outbound request, redirects included.
	DefaultTimeout = 5000 * time.Millisecond

	// DefaultMaxChars is the body length kept before truncation kicks in.
	DefaultMaxChars = 2000

	// TruncationMarker is appended to bodies cut at the character limit.
	TruncationMarker = "\n... (truncated)"

	userAgent = "ssrf-lab/1.0"
)

// ErrorKind classifies fetch failures for the gateway's error taxonomy.
type ErrorKind int

const (
	ErrNetwork ErrorKind = iota
	ErrTimeout
)

// Error is a failed fetch. Kind separates timeouts from other transport
// failures (DNS, connection refused, TLS).
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Kind == ErrTimeout {
		return "fetch timed out: " + e.Detail
	}
	return "fetch failed: " + e.Detail
}

// Result is the shaped response for a successful fetch.
type Result struct {
	StatusCode int
	URL        string
	Body       string
	Truncated  bool
}

// Fetcher issues plain GETs with a fixed overall timeout. Redirects are
// followed with the client's default policy; hops are not re-validated.
type Fetcher struct {
	client   *http.Client
	maxChars int
}

// New builds a Fetcher. Non-positive arguments fall back to the defaults.
func New(timeout time.Duration, maxChars int) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxChars: maxChars,
	}
}

// Fetch GETs rawURL and returns the shaped result. Failures come back as
// *Error; no retries are attempted.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}, &Error{Kind: ErrNetwork, Detail: fmt.Sprintf("invalid request: %v", err)}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, classify(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, classify(err)
	}

	body := string(raw)
	truncated := false
	if runes := []rune(body); len(runes) > f.maxChars {
		body = string(runes[:f.maxChars]) + TruncationMarker
		truncated = true
	}

	return Result{
		StatusCode: resp.StatusCode,
		URL:        rawURL,
		Body:       body,
		Truncated:  truncated,
	}, nil
}

func classify(err error) *Error {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return &Error{Kind: ErrTimeout, Detail: err.Error()}
	}
	return &Error{Kind: ErrNetwork, Detail: err.Error()}
}
