package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/iho/bankcore/internal/domain"
)

func TestJWTManager_GenerateAndVerify(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)

	token, err := manager.Generate(&domain.Caller{
		ID:    "caller-1",
		Email: "teller@example.com",
		Role:  domain.RoleBanker,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}

	if claims.CallerID != "caller-1" {
		t.Errorf("expected caller-1, got %s", claims.CallerID)
	}
	if claims.Role != domain.RoleBanker {
		t.Errorf("expected banker role, got %s", claims.Role)
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret", -time.Minute)

	token, err := manager.Generate(&domain.Caller{ID: "caller-1", Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, err = manager.Verify(token)
	if !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	other := NewJWTManager("different", time.Hour)

	token, err := manager.Generate(&domain.Caller{ID: "caller-1", Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, err = other.Verify(token)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_GarbageToken(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)

	_, err := manager.Verify("not.a.token")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
