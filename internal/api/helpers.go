package api

import (
	"context"
	"strings"

	"github.com/storekeeperapp/storekeeper-server/internal/auth"
	domainerrors "github.com/storekeeperapp/storekeeper-server/internal/errors"
)

// bearerToken extracts the token from an Authorization header.
// Returns "" when the header is absent or not a bearer scheme.
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authenticate verifies the access token in the Authorization header.
// Each verification failure maps to its own 401 code so clients can
// distinguish an expired token from a revoked one.
func (s *Server) authenticate(ctx context.Context, header string, requireFresh bool) (*auth.Claims, error) {
	outcome := s.services.Auth.VerifyAccess(ctx, bearerToken(header), requireFresh)
	return claimsFromOutcome(outcome)
}

// authenticateRefresh verifies a refresh token in the Authorization header.
func (s *Server) authenticateRefresh(ctx context.Context, header string) (*auth.Claims, error) {
	outcome := s.services.Auth.VerifyRefresh(ctx, bearerToken(header))
	return claimsFromOutcome(outcome)
}

// requireAdmin verifies the access token and requires admin privileges.
func (s *Server) requireAdmin(ctx context.Context, header string) (*auth.Claims, error) {
	claims, err := s.authenticate(ctx, header, false)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin {
		return nil, domainerrors.Forbidden("admin privilege required")
	}
	return claims, nil
}

// claimsFromOutcome converts a verification outcome into claims or the
// matching domain error.
func claimsFromOutcome(outcome auth.Outcome) (*auth.Claims, error) {
	switch outcome.Status {
	case auth.StatusOk:
		return outcome.Claims, nil
	case auth.StatusMissing:
		return nil, domainerrors.TokenMissing("authorization header is missing or malformed")
	case auth.StatusExpired:
		return nil, domainerrors.TokenExpired("token has expired")
	case auth.StatusRevoked:
		return nil, domainerrors.TokenRevoked("token has been revoked")
	case auth.StatusNotFresh:
		return nil, domainerrors.TokenNotFresh("a fresh token is required, log in again")
	default:
		return nil, domainerrors.TokenInvalid("token is invalid")
	}
}
