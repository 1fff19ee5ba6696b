package auth

// Status classifies the result of verifying a presented token.
type Status int

const (
	// StatusOk means the token is valid and satisfies all requirements.
	StatusOk Status = iota
	// StatusMissing means no token was presented.
	StatusMissing
	// StatusInvalid means the token was malformed, tampered with, or of the wrong type.
	StatusInvalid
	// StatusExpired means the token's expiry has passed.
	StatusExpired
	// StatusRevoked means the token's jti is on the blocklist.
	StatusRevoked
	// StatusNotFresh means a fresh token was required but the token came from a refresh exchange.
	StatusNotFresh
)

// String returns the status name for logging.
func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusInvalid:
		return "invalid"
	case StatusExpired:
		return "expired"
	case StatusRevoked:
		return "revoked"
	case StatusNotFresh:
		return "not_fresh"
	default:
		return "unknown"
	}
}

// Outcome is the result of token verification. Claims is non-nil only
// when Status is StatusOk. Callers branch on Status rather than
// inspecting errors, so every failure mode maps to exactly one response.
type Outcome struct {
	Status Status
	Claims *Claims
}

// Ok reports whether verification succeeded.
func (o Outcome) Ok() bool {
	return o.Status == StatusOk
}
