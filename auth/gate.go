package auth

// GateResult classifies a content-admin token check.
type GateResult int

const (
	// GateOK means the presented token matched the configured secret.
	GateOK GateResult = iota
	// GateUnconfigured means no secret is configured server-side.
	GateUnconfigured
	// GateMissing means no token was presented.
	GateMissing
	// GateMismatch means a token was presented but did not match.
	GateMismatch
)

// CheckContentGate implements the static shared-secret check for the
// content endpoint. The token may arrive via a dedicated header or a bearer
// Authorization header; the caller passes both candidates and the first
// non-empty one is compared. Unlike the session gate this distinguishes a
// missing credential from a wrong one.
func CheckContentGate(secret, headerToken, authHeader string) GateResult {
	if secret == "" {
		return GateUnconfigured
	}
	token := headerToken
	if token == "" {
		token = BearerToken(authHeader)
	}
	if token == "" {
		return GateMissing
	}
	if !SecureCompare(token, secret) {
		return GateMismatch
	}
	return GateOK
}
