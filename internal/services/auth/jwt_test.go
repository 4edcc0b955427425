package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

func TestOperatorTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute)

	token, _, err := manager.GenerateOperatorToken(model.Operator{
		ID:          42,
		Role:        enums.RoleModerator,
		Permissions: []enums.Category{enums.CategoryListings, enums.CategoryReports},
	})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	operator, err := manager.ParseOperatorToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if operator.ID != 42 || operator.Role != enums.RoleModerator {
		t.Fatalf("unexpected operator: %+v", operator)
	}
	if !operator.HasPermission(enums.CategoryReports) || operator.HasPermission(enums.CategoryFinance) {
		t.Fatalf("unexpected permissions: %+v", operator.Permissions)
	}
}

func TestUserTokenIsNotAnOperatorToken(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute)

	token, _, err := manager.GenerateUserToken(7)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := manager.ParseOperatorToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for user token, got %v", err)
	}
	userID, err := manager.ParseUserToken(token)
	if err != nil || userID != 7 {
		t.Fatalf("unexpected user parse result: id=%d err=%v", userID, err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute)
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issuedAt }

	token, _, err := manager.GenerateOperatorToken(model.Operator{ID: 1, Role: enums.RoleAdmin})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	manager.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, err := manager.ParseOperatorToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, _, err := NewJWTManager("one", time.Minute).GenerateOperatorToken(model.Operator{ID: 1, Role: enums.RoleOwner})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := NewJWTManager("two", time.Minute).ParseOperatorToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
