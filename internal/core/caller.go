package core

import (
	"net/http"

	jwt "github.com/golang-jwt/jwt/v5"
)

// CallerHeader carries an optional platform-issued JWT describing the end
// user. It is read for logs and audit only and never verified.
const CallerHeader = "x-bhindi-user-token"

// CallerSubject returns the subject of the platform caller token, or "".
// Tokens are parsed unverified: identity here is informational and grants
// nothing.
func CallerSubject(h http.Header) string {
	raw := HeaderValue(h, CallerHeader)
	if raw == "" {
		return ""
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
