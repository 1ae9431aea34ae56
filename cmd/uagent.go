package cmd

import (
	"strings"

	"github.com/warpdl/imgwarm/pkg/preload"
)

// UserAgents are the aliases accepted by --user-agent.
var UserAgents = map[string]string{
	"warp":    preload.DEF_USER_AGENT,
	"firefox": "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0",
	"chrome":  "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"iphone":  "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1",
	"android": "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Mobile Safari/537.36",
}

func getUserAgent(s string) (ua string) {
	r, ok := UserAgents[strings.ToLower(s)]
	if !ok {
		ua = s
		return
	}
	ua = r
	return
}

// fetchHeaders returns the headers sent with every fetch, built from
// --user-agent and --accept. Unset flags fall back to the fetcher defaults.
func fetchHeaders() preload.Headers {
	var h preload.Headers
	if userAgent != "" {
		h.Update(preload.USER_AGENT_KEY, getUserAgent(userAgent))
	}
	if accept != "" {
		h.Update(preload.ACCEPT_KEY, accept)
	}
	return h
}
