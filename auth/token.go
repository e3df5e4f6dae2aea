// Package auth implements the backoffice session token scheme: a compact
// HMAC-SHA256 signed bearer token with an embedded expiry, plus the
// constant-time comparisons used by the login and content-admin gates.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// TokenLifetime is how long an issued session token stays valid.
const TokenLifetime = 12 * time.Hour

// tokenPayload is the signed claim set. Exp is epoch milliseconds.
type tokenPayload struct {
	Email string `json:"email"`
	Exp   int64  `json:"exp"`
}

// Issue creates a signed session token for email, valid for TokenLifetime
// from now.
func Issue(email, secret string) string {
	return IssueAt(email, secret, time.Now())
}

// IssueAt is Issue with an explicit clock. The token is
// base64url(payload) + "." + base64url(HMAC-SHA256(base64url(payload), secret)),
// both segments unpadded.
func IssueAt(email, secret string, now time.Time) string {
	payload, _ := json.Marshal(tokenPayload{
		Email: email,
		Exp:   now.Add(TokenLifetime).UnixMilli(),
	})
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + sign(encoded, secret)
}

// Verify checks a token against secret using the wall clock. It returns the
// embedded email and true only for a well-formed, correctly signed,
// unexpired token.
func Verify(token, secret string) (string, bool) {
	return VerifyAt(token, secret, time.Now())
}

// VerifyAt is Verify with an explicit clock. A token is valid exactly
// through its expiry instant; any malformed segment makes it invalid rather
// than an error.
func VerifyAt(token, secret string, now time.Time) (string, bool) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || sig == "" {
		return "", false
	}
	if !SecureCompare(sig, sign(encoded, secret)) {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", false
	}
	if payload.Email == "" || payload.Exp == 0 {
		return "", false
	}
	if now.UnixMilli() > payload.Exp {
		return "", false
	}
	return payload.Email, true
}

func sign(encodedPayload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
