package auth

import "crypto/subtle"

// SecureCompare reports whether a and b are equal without leaking where the
// first mismatching byte occurs. Differing lengths return false immediately;
// the values compared here (tokens, signatures, configured secrets) have
// fixed formats, so the length itself is not secret.
func SecureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
