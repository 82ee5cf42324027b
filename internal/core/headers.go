package core

import (
	"net/http"
	"strings"
)

// APIKeyHeaders are the accepted spellings of the platform API key header.
var APIKeyHeaders = []string{"x-api-key", "x-apikey"}

// HeaderValue returns the first non-empty value among names. Each name is
// also tried with hyphens replaced by underscores.
func HeaderValue(h http.Header, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(h.Get(name)); v != "" {
			return v
		}
		if alt := strings.ReplaceAll(name, "-", "_"); alt != name {
			if v := strings.TrimSpace(headerExact(h, alt)); v != "" {
				return v
			}
		}
	}
	return ""
}

// headerExact also matches keys that bypassed canonicalization, which
// happens for header names containing underscores in some proxies.
func headerExact(h http.Header, name string) string {
	if v := h.Get(name); v != "" {
		return v
	}
	for k, vals := range h {
		if strings.EqualFold(k, name) && len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(h http.Header) string {
	raw := strings.TrimSpace(h.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}

// APIKey returns the platform API key or "".
func APIKey(h http.Header) string {
	return HeaderValue(h, APIKeyHeaders...)
}
