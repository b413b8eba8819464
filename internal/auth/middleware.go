// internal/auth/middleware.go
//
// Chi middleware that enforces bearer-token access on /api routes.

package auth

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Require accepts requests whose Authorization header carries one of tokens
// as a Bearer credential.  An empty token list disables the check.
func Require(tokens []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			keys = append(keys, []byte(t))
		}
	}
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := bearer(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="countries"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			for i, k := range keys {
				if subtle.ConstantTimeCompare(got, k) == 1 {
					ctx := WithSubject(r.Context(), "token#"+strconv.Itoa(i))
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
			zap.L().Warn("auth rejected", zap.String("path", r.URL.Path))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// bearer returns the credential from "Authorization: Bearer <token>".
func bearer(r *http.Request) ([]byte, bool) {
	scheme, cred, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, false
	}
	cred = strings.TrimSpace(cred)
	if cred == "" {
		return nil, false
	}
	return []byte(cred), true
}
