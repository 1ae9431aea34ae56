package preload

import (
	"context"
	"fmt"
	"net/http"
)

// Fetcher performs the underlying fetch of one resource. It returns nil once
// the resource is in the cache it warms and an error otherwise. Fetch must
// honour ctx so deadlines free the goroutine as well as the slot.
type Fetcher interface {
	Fetch(ctx context.Context, url string) error
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) error

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) error {
	return f(ctx, url)
}

var _ Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher fetches images over HTTP(S) and validates the payload.
type HTTPFetcher struct {
	client  *http.Client
	headers Headers
}

// NewHTTPFetcher creates an HTTPFetcher. A nil client uses
// http.DefaultClient. User-Agent and Accept are filled in when missing.
func NewHTTPFetcher(client *http.Client, headers Headers) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	h := make(Headers, len(headers))
	copy(h, headers)
	h.Default(USER_AGENT_KEY, DEF_USER_AGENT)
	h.Default(ACCEPT_KEY, DEF_ACCEPT)
	return &HTTPFetcher{client: client, headers: h}
}

// Fetch issues a GET for rawURL. Non-2xx responses and bodies that are not
// images are failures.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return newFetchError(rawURL, "request", err)
	}
	f.headers.Apply(req.Header)
	resp, err := f.client.Do(req)
	if err != nil {
		return newFetchError(rawURL, "request", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newFetchError(rawURL, "status", fmt.Errorf("unexpected status %s", resp.Status))
	}
	return validateImage(rawURL, resp.Body, resp.Header.Get("Content-Type"))
}
