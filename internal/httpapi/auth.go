package httpapi

import (
	"net/http"
	"strings"
)

// authRequired controls whether generation endpoints reject requests
// without a valid bearer token. Off by default, matching clients that do
// not authenticate against self-hosted servers.
var authRequired bool

// SetAuthRequired toggles bearer-token enforcement on API endpoints.
func SetAuthRequired(on bool) { authRequired = on }

// authError is a 401 with a human-readable detail string.
type authError struct{ msg string }

func (e authError) Error() string   { return e.msg }
func (e authError) StatusCode() int { return http.StatusUnauthorized }

// BearerToken extracts the token from an "Authorization: Bearer <tok>"
// header.
func BearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", authError{msg: "missing authorization header"}
	}
	parts := strings.Split(h, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", authError{msg: "invalid authorization header"}
	}
	return parts[1], nil
}

// checkAuth enforces bearer auth when enabled. Returns false after writing
// the rejection.
func checkAuth(w http.ResponseWriter, r *http.Request) bool {
	if !authRequired {
		return true
	}
	if _, err := BearerToken(r); err != nil {
		writeMappedError(w, err)
		return false
	}
	return true
}
