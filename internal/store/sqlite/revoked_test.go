package sqlite

import (
	"context"
	"testing"
	"time"
)

func TestRevokeToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	revoked, err := s.IsTokenRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected jti-1 not revoked")
	}

	if err := s.RevokeToken(ctx, "jti-1", time.Now()); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, err = s.IsTokenRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if !revoked {
		t.Error("expected jti-1 revoked")
	}
}

func TestRevokeToken_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.RevokeToken(ctx, "jti-1", time.Now()); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if err := s.RevokeToken(ctx, "jti-1", time.Now()); err != nil {
		t.Fatalf("RevokeToken twice: %v", err)
	}
}
