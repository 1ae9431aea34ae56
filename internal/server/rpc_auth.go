package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// requireToken wraps an http.Handler with Bearer token authentication.
// Returns JSON-RPC 2.0 error response on auth failure (not plain HTTP error).
//
// If secret is empty, all requests are rejected -- RPC requires explicit opt-in.
func requireToken(secret string, allowQuery bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" && allowQuery {
			// Browsers cannot set headers on a WebSocket handshake.
			if tok := r.URL.Query().Get("token"); tok != "" {
				auth = "Bearer " + tok
			}
		}
		if !validToken(secret, auth) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"error": map[string]any{
					"code":    -32600,
					"message": "Unauthorized",
				},
				"id": nil,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validToken checks an Authorization header value against secret using a
// constant-time comparison. An empty secret matches nothing.
func validToken(secret, authHeader string) bool {
	if secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
