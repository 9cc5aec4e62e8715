package chi

import (
	"crypto/subtle"
	"net/http"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/_cluster/health": {},
	"/metrics":         {},
}

// BasicAuthMiddleware returns a middleware that validates HTTP Basic
// credentials the way Elasticsearch security does. If password is
// empty, authentication is disabled (pass-through).
func BasicAuthMiddleware(username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		// Auth disabled — pass everything through
		if password == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				writeAuthError(w, "missing authentication credentials for REST request")
				return
			}

			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
			if !userOK || !passOK {
				writeAuthError(w, "unable to authenticate user for REST request")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, reason string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="security"`)
	writeError(w, http.StatusUnauthorized, "security_exception", reason)
}
