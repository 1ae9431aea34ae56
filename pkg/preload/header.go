package preload

import (
	"net/http"
	"strings"
)

const (
	USER_AGENT_KEY = "User-Agent"
	ACCEPT_KEY     = "Accept"

	DEF_USER_AGENT = "imgwarm/1.0 (+https://github.com/warpdl/imgwarm)"
	DEF_ACCEPT     = "image/avif,image/webp,image/apng,image/png,image/jpeg,image/*;q=0.8,*/*;q=0.5"
)

// Header is a single request header.
type Header struct {
	Key   string
	Value string
}

// Headers is an ordered list of request headers sent with every fetch.
// Keys match case-insensitively.
type Headers []Header

func (h Headers) index(key string) int {
	for i, x := range h {
		if strings.EqualFold(x.Key, key) {
			return i
		}
	}
	return -1
}

// Get returns the value for key and whether it is present.
func (h Headers) Get(key string) (string, bool) {
	if i := h.index(key); i >= 0 {
		return h[i].Value, true
	}
	return "", false
}

// Default adds key unless it is already present.
func (h *Headers) Default(key, value string) {
	if h.index(key) < 0 {
		*h = append(*h, Header{key, value})
	}
}

// Update replaces the value for key, adding it when missing.
func (h *Headers) Update(key, value string) {
	if i := h.index(key); i >= 0 {
		(*h)[i].Value = value
		return
	}
	*h = append(*h, Header{key, value})
}

// Apply writes every header into dst.
func (h Headers) Apply(dst http.Header) {
	for _, x := range h {
		dst.Set(x.Key, x.Value)
	}
}
