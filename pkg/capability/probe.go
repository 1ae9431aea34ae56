// Package capability takes a snapshot of the device and network and turns
// it into a preload plan.
package capability

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// NetworkClass is the effective connection type.
type NetworkClass string

const (
	NetworkSlow2G  NetworkClass = "slow-2g"
	Network2G      NetworkClass = "2g"
	Network3G      NetworkClass = "3g"
	Network4G      NetworkClass = "4g"
	NetworkUnknown NetworkClass = "unknown"
)

// ParseNetworkClass maps a connection hint to a NetworkClass.
// Unrecognised hints are NetworkUnknown.
func ParseNetworkClass(s string) NetworkClass {
	switch c := NetworkClass(strings.ToLower(strings.TrimSpace(s))); c {
	case NetworkSlow2G, Network2G, Network3G, Network4G:
		return c
	default:
		return NetworkUnknown
	}
}

// Slow reports whether the class is 2g or worse.
func (n NetworkClass) Slow() bool {
	return n == NetworkSlow2G || n == Network2G
}

const (
	gib = 1 << 30

	LOW_END_MAX_CORES    = 2
	LOW_END_MIN_MEMORY   = 2.0
	HIGH_END_MIN_CORES   = 4
	HIGH_END_MIN_MEMORY  = 4.0
	MEMORY_GB_RESOLUTION = 0.25
)

var mobileUA = regexp.MustCompile(`(?i)android|webos|iphone|ipad|ipod|blackberry|iemobile|opera mini|mobile`)

// baseFormats are decodable everywhere.
var baseFormats = []string{"gif", "jpeg", "png"}

// Capabilities is an immutable snapshot produced by Probe.
type Capabilities struct {
	Cores    int          `json:"cores"`
	MemoryGB float64      `json:"memoryGB"`
	Network  NetworkClass `json:"network"`
	SaveData bool         `json:"saveData"`
	Mobile   bool         `json:"mobile"`
	LowEnd   bool         `json:"lowEnd"`
	HighEnd  bool         `json:"highEnd"`
	formats  []string
}

// Formats returns the supported image formats in sorted order.
func (c Capabilities) Formats() []string {
	out := make([]string, len(c.formats))
	copy(out, c.formats)
	return out
}

// Supports reports whether images of the given format can be decoded.
func (c Capabilities) Supports(format string) bool {
	format = strings.ToLower(format)
	if format == "jpg" {
		format = "jpeg"
	}
	i := sort.SearchStrings(c.formats, format)
	return i < len(c.formats) && c.formats[i] == format
}

// MarshalJSON includes the format list.
func (c Capabilities) MarshalJSON() ([]byte, error) {
	type plain Capabilities
	return json.Marshal(struct {
		plain
		Formats []string `json:"formats"`
	}{plain(c), c.Formats()})
}

// Probe inspects env once and returns the snapshot. Memory is reported in
// GB rounded down to a quarter, 0 when unknown; unknown memory counts as
// neither low- nor high-end.
func Probe(env Env) Capabilities {
	c := Capabilities{
		Cores:    env.NumCPU(),
		Network:  ParseNetworkClass(env.Network()),
		SaveData: env.SaveData(),
		Mobile:   mobileUA.MatchString(env.UserAgent()),
		formats:  probeFormats(env.Accept()),
	}
	if mem := env.TotalMemory(); mem > 0 {
		gb := float64(mem) / gib
		c.MemoryGB = float64(int(gb/MEMORY_GB_RESOLUTION)) * MEMORY_GB_RESOLUTION
	}

	c.LowEnd = c.Cores <= LOW_END_MAX_CORES ||
		(c.MemoryGB > 0 && c.MemoryGB < LOW_END_MIN_MEMORY) ||
		c.Network.Slow() ||
		c.SaveData
	c.HighEnd = !c.LowEnd &&
		c.Cores >= HIGH_END_MIN_CORES &&
		c.MemoryGB >= HIGH_END_MIN_MEMORY &&
		c.Network == Network4G &&
		!c.Mobile
	return c
}

// probeFormats returns the base formats plus webp and avif when the
// Accept header names them.
func probeFormats(accept string) []string {
	out := append([]string(nil), baseFormats...)
	accept = strings.ToLower(accept)
	for _, f := range []string{"avif", "webp"} {
		if strings.Contains(accept, "image/"+f) {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
