// Package fetch downloads remote Markdown notes over HTTP(S).
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Sentinel errors for fetch operations.
var (
	ErrInvalidURL       = errors.New("invalid document URL")
	ErrFetchFailed      = errors.New("failed to fetch document")
	ErrResponseTooLarge = errors.New("document exceeds maximum size")
)

// MaxDocumentSize bounds remote documents (default 10MB).
var MaxDocumentSize int64 = 10 << 20

// defaultTimeout bounds one fetch when the caller's context has no deadline.
const defaultTimeout = 30 * time.Second

// Fetcher downloads remote Markdown documents.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher with the default HTTP client.
func New() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: defaultTimeout}}
}

// NewWithClient creates a Fetcher with a custom client (for tests).
func NewWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch downloads the document at rawURL and returns its body.
// Only http and https schemes are accepted.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	// Read one byte past the limit to distinguish "exactly at" from "over".
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetchFailed, err)
	}
	if int64(len(body)) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, MaxDocumentSize)
	}

	return body, nil
}

// IsRemote reports whether the argument looks like a fetchable URL rather
// than a local path.
func IsRemote(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
