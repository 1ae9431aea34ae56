package preload

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

var _ Fetcher = (*SchemeRouter)(nil)

// SchemeRouter maps URL schemes to Fetchers and is itself a Fetcher.
// The zero value is not usable; use NewSchemeRouter to create one.
type SchemeRouter struct {
	routes map[string]Fetcher
}

// NewSchemeRouter creates a SchemeRouter with http/https served by an
// HTTPFetcher using client and headers, and ftp/ftps by an FTPFetcher.
func NewSchemeRouter(client *http.Client, headers Headers) *SchemeRouter {
	r := &SchemeRouter{
		routes: make(map[string]Fetcher),
	}
	hf := NewHTTPFetcher(client, headers)
	r.routes["http"] = hf
	r.routes["https"] = hf

	ff := NewFTPFetcher()
	r.routes["ftp"] = ff
	r.routes["ftps"] = ff
	return r
}

// Register adds or replaces the fetcher for the given scheme.
func (r *SchemeRouter) Register(scheme string, f Fetcher) {
	r.routes[strings.ToLower(scheme)] = f
}

// Schemes returns the registered schemes in sorted order.
func (r *SchemeRouter) Schemes() []string {
	out := make([]string, 0, len(r.routes))
	for s := range r.routes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Fetch dispatches rawURL to the fetcher registered for its scheme
// (case-insensitive).
func (r *SchemeRouter) Fetch(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return newFetchError(rawURL, "request", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	f, ok := r.routes[scheme]
	if !ok {
		return newFetchError(rawURL, "request", fmt.Errorf(
			"%w %q, supported: %s",
			ErrUnsupportedScheme,
			scheme,
			strings.Join(r.Schemes(), ", "),
		))
	}
	return f.Fetch(ctx, rawURL)
}
