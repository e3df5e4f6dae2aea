package auth

import "strings"

// BearerToken extracts the token from an Authorization header value of the
// form "Bearer <token>". The scheme prefix is matched case-insensitively.
// Returns "" when the header is absent or not bearer-shaped.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) {
		return ""
	}
	if !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
