// Package auth guards the operator API with a shared token.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TokenHeader is an alternative to the Authorization header for clients
// that cannot set bearer tokens.
const TokenHeader = "X-Operator-Token"

// OperatorConfig holds the operator token. An empty token disables the
// check, which is how a single device on a trusted network runs.
type OperatorConfig struct {
	token []byte
}

// NewOperatorConfig creates operator config from the configured token.
func NewOperatorConfig(token string) *OperatorConfig {
	return &OperatorConfig{token: []byte(strings.TrimSpace(token))}
}

// Enabled reports whether requests must carry the token.
func (c *OperatorConfig) Enabled() bool {
	return len(c.token) > 0
}

// IsOperator checks the token presented by a request.
func (c *OperatorConfig) IsOperator(r *http.Request) bool {
	if !c.Enabled() {
		return true
	}
	got := requestToken(r)
	return got != "" && subtle.ConstantTimeCompare([]byte(got), c.token) == 1
}

func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(TokenHeader))
}

// OperatorMiddleware creates middleware that requires the operator token.
func OperatorMiddleware(cfg *OperatorConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.IsOperator(r) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="courtside"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
