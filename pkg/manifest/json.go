package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
)

// ParseJSON reads a JSON array of {"url", "priority"} objects.
func ParseJSON(r io.Reader, base *url.URL) ([]Resource, error) {
	var raw []Resource
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	out := make([]Resource, 0, len(raw))
	for i, res := range raw {
		if res.URL == "" {
			return nil, &ParseError{Line: i + 1, Cause: ErrMissingURL}
		}
		u, err := resolve(base, res.URL)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Cause: err}
		}
		out = append(out, Resource{URL: u, Priority: res.Priority})
	}
	return Dedupe(out), nil
}
