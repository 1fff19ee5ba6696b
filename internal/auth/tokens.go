package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	// TokenTypeAccess tokens authorize API requests.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh tokens can only be exchanged for new access tokens.
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the JWT payload carried by both token types.
//
// The subject is the user ID. The jti is unique per token and is what
// the revocation blocklist records. Fresh marks access tokens minted
// directly from a password login, as opposed to a refresh exchange.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"typ"`
	Fresh     bool      `json:"fresh,omitempty"`
	IsAdmin   bool      `json:"is_admin,omitempty"`
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// JTI returns the unique token identifier.
func (c *Claims) JTI() string {
	return c.ID
}

// Parse errors. ErrTokenExpired is distinct so callers can report
// expiry separately from malformed or tampered tokens.
var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// TokenService issues and verifies HMAC-SHA256 signed JWTs.
type TokenService struct {
	secret          []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

// NewTokenService creates a token service with the given signing secret and lifetimes.
func NewTokenService(secret []byte, accessDuration, refreshDuration time.Duration) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("signing secret must be at least 32 bytes, got %d", len(secret))
	}
	if accessDuration <= 0 || refreshDuration <= 0 {
		return nil, errors.New("token durations must be positive")
	}
	return &TokenService{
		secret:          secret,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}, nil
}

// IssueAccessToken mints an access token for the user.
// Fresh should be true only when the user just proved their password.
func (s *TokenService) IssueAccessToken(user *domain.User, fresh bool) (string, *Claims, error) {
	return s.issue(user, TokenTypeAccess, fresh, s.accessDuration)
}

// IssueRefreshToken mints a refresh token for the user.
func (s *TokenService) IssueRefreshToken(user *domain.User) (string, *Claims, error) {
	return s.issue(user, TokenTypeRefresh, false, s.refreshDuration)
}

func (s *TokenService) issue(user *domain.User, typ TokenType, fresh bool, lifetime time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
		TokenType: typ,
		Fresh:     fresh,
		IsAdmin:   user.IsAdmin(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies the signature and expiry of a token and returns its claims.
// Returns ErrTokenExpired for expired-but-otherwise-valid tokens, and
// ErrTokenInvalid for everything else.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
