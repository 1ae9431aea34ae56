package capability

import (
	"net/url"
	"path"
	"strings"

	"github.com/warpdl/imgwarm/pkg/manifest"
)

const (
	// DEF_CRITICAL_PRIORITY is the lowest priority a low-end device still
	// preloads.
	DEF_CRITICAL_PRIORITY = manifest.PRIORITY_PRELOAD
	// DEF_MID_TIER_LIMIT caps the plan for devices that are neither low- nor
	// high-end.
	DEF_MID_TIER_LIMIT = 12
)

// PlanOpts tunes Plan. The zero value uses the defaults above.
type PlanOpts struct {
	// CriticalPriority is the low-end threshold. Nil uses
	// DEF_CRITICAL_PRIORITY; any value, including 0, is used as given.
	CriticalPriority *int
	// MidTierLimit values < 1 use DEF_MID_TIER_LIMIT.
	MidTierLimit int
}

// Plan selects which resources to preload for a device. Resources in a
// format the device cannot decode are dropped. Low-end devices get only
// critical resources, high-end devices get everything and the rest get the
// top MidTierLimit. The result is sorted by priority, stable on ties.
func Plan(caps Capabilities, resources []manifest.Resource, opts *PlanOpts) []manifest.Resource {
	if opts == nil {
		opts = &PlanOpts{}
	}
	critical := DEF_CRITICAL_PRIORITY
	if opts.CriticalPriority != nil {
		critical = *opts.CriticalPriority
	}
	limit := opts.MidTierLimit
	if limit <= 0 {
		limit = DEF_MID_TIER_LIMIT
	}

	out := make([]manifest.Resource, 0, len(resources))
	for _, r := range resources {
		if f := formatOf(r.URL); f != "" && !caps.Supports(f) {
			continue
		}
		if caps.LowEnd && r.Priority < critical {
			continue
		}
		out = append(out, r)
	}
	manifest.SortByPriority(out)
	if !caps.LowEnd && !caps.HighEnd && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// formatOf returns the image format named by the URL's extension, or ""
// when the extension is not a known image format.
func formatOf(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	switch ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), "."); ext {
	case "jpg", "jpeg":
		return "jpeg"
	case "png", "gif", "webp", "avif":
		return ext
	default:
		return ""
	}
}
