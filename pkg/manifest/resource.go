// Package manifest loads the list of images to warm.
//
// A manifest is a JSON array, a plain text list or an HTML page whose
// image references are extracted. Every loader returns deduplicated
// resources with absolute URLs when a base URL is given.
package manifest

import (
	"net/url"
	"sort"
	"strings"
)

// Priorities assigned to resources discovered in HTML pages.
const (
	PRIORITY_PRELOAD = 10
	PRIORITY_IMAGE   = 5
	PRIORITY_LAZY    = 1
)

// Resource is one image to warm.
type Resource struct {
	URL      string `json:"url"`
	Priority int    `json:"priority"`
}

// Dedupe collapses resources with the same URL into one entry that keeps
// the highest priority seen. First-appearance order is preserved.
func Dedupe(in []Resource) []Resource {
	index := make(map[string]int, len(in))
	out := make([]Resource, 0, len(in))
	for _, r := range in {
		if i, ok := index[r.URL]; ok {
			if r.Priority > out[i].Priority {
				out[i].Priority = r.Priority
			}
			continue
		}
		index[r.URL] = len(out)
		out = append(out, r)
	}
	return out
}

// SortByPriority sorts resources by descending priority, keeping the
// relative order of equal priorities.
func SortByPriority(rs []Resource) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Priority > rs[j].Priority
	})
}

// resolve returns ref as an absolute URL against base. A nil base leaves
// ref untouched apart from surrounding whitespace.
func resolve(base *url.URL, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if base == nil {
		return ref, nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}
