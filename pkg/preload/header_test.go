package preload

import (
	"net/http"
	"testing"
)

func TestHeaders_Update(t *testing.T) {
	tests := []struct {
		name string
		h    Headers
		key  string
		want int
	}{
		{"new entry", Headers{}, USER_AGENT_KEY, 1},
		{"existing entry", Headers{{USER_AGENT_KEY, "TestUA/12.3"}}, USER_AGENT_KEY, 1},
		{"case-insensitive key", Headers{{"user-agent", "TestUA/12.3"}}, USER_AGENT_KEY, 1},
		{"other keys kept", Headers{{ACCEPT_KEY, "image/png"}}, USER_AGENT_KEY, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.h.Update(tt.key, DEF_USER_AGENT)
			v, ok := tt.h.Get(tt.key)
			if !ok || v != DEF_USER_AGENT {
				t.Errorf("Get(%q) = %q, %v after Update", tt.key, v, ok)
			}
			if len(tt.h) != tt.want {
				t.Errorf("expected %d headers, got %v", tt.want, tt.h)
			}
		})
	}
}

func TestHeaders_DefaultKeepsExisting(t *testing.T) {
	h := Headers{{ACCEPT_KEY, "image/png"}}
	h.Default(ACCEPT_KEY, DEF_ACCEPT)
	h.Default(USER_AGENT_KEY, DEF_USER_AGENT)

	hdr := http.Header{}
	h.Apply(hdr)
	if hdr.Get(ACCEPT_KEY) != "image/png" {
		t.Errorf("expected existing Accept to be kept, got %q", hdr.Get(ACCEPT_KEY))
	}
	if hdr.Get(USER_AGENT_KEY) != DEF_USER_AGENT {
		t.Errorf("expected default User-Agent, got %q", hdr.Get(USER_AGENT_KEY))
	}
}
