package service

import (
	"errors"
	"testing"

	"github.com/fulfill-next/internal/config"
	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/models"
)

func newAuthTestService() *AuthService {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "auth-service-test-secret"
	cfg.JWT.ExpireHours = 2
	return NewAuthService(cfg, nil)
}

func TestValidatePassword(t *testing.T) {
	svc := newAuthTestService()
	if err := svc.ValidatePassword("short"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak, got %v", err)
	}
	if err := svc.ValidatePassword("long-enough-password"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	svc := newAuthTestService()
	hash, err := svc.HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	if err := svc.VerifyPassword(hash, "correct-horse-battery"); err != nil {
		t.Fatalf("verify password failed: %v", err)
	}
	if err := svc.VerifyPassword(hash, "wrong-password"); err == nil {
		t.Fatalf("expected verify failure for wrong password")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	svc := newAuthTestService()
	user := &models.User{
		ID:           7,
		Email:        "staff@acme.example",
		Role:         constants.RoleMerchantStaff,
		MerchantID:   3,
		WarehouseID:  5,
		TokenVersion: 2,
	}

	token, expiresAt, err := svc.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate jwt failed: %v", err)
	}
	if expiresAt.IsZero() {
		t.Fatalf("expected non-zero expiry")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.UserID != user.ID || claims.TokenVersion != user.TokenVersion {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	actor := claims.Actor()
	if actor.UserID != user.ID || actor.Role != constants.RoleMerchantStaff || actor.MerchantID != 3 || actor.WarehouseID != 5 {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestParseJWTRejectsForgedToken(t *testing.T) {
	svc := newAuthTestService()
	foreignCfg := &config.Config{}
	foreignCfg.JWT.SecretKey = "another-secret"
	foreignCfg.JWT.ExpireHours = 2
	foreign := NewAuthService(foreignCfg, nil)

	token, _, err := foreign.GenerateJWT(&models.User{ID: 1, Role: constants.RolePlatformAdmin})
	if err != nil {
		t.Fatalf("generate jwt failed: %v", err)
	}
	if _, err := svc.ParseJWT(token); err == nil {
		t.Fatalf("expected parse failure for token signed with another secret")
	}
}
