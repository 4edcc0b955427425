package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	authsvc "github.com/ivankudzin/estate-backoffice/internal/services/auth"
)

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	mw := AuthMiddleware(authsvc.NewJWTManager("secret", time.Minute), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/admin/counts", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without a token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsUserToken(t *testing.T) {
	tokens := authsvc.NewJWTManager("secret", time.Minute)
	userToken, _, err := tokens.GenerateUserToken(42)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/counts", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rr := httptest.NewRecorder()

	AuthMiddleware(tokens, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("marketplace token must not reach admin handlers")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareSetsOperatorContext(t *testing.T) {
	tokens := authsvc.NewJWTManager("secret", time.Minute)
	token, _, err := tokens.GenerateOperatorToken(model.Operator{
		ID:          9,
		Role:        enums.RoleModerator,
		Permissions: []enums.Category{enums.CategoryReports},
	})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/counts", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rr := httptest.NewRecorder()

	AuthMiddleware(tokens, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator, ok := authsvc.OperatorFromContext(r.Context())
		if !ok || operator.ID != 9 || operator.Role != enums.RoleModerator {
			t.Fatalf("operator mismatch: %+v", operator)
		}
		if !operator.HasPermission(enums.CategoryReports) {
			t.Fatalf("permissions lost: %+v", operator.Permissions)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestOptionalUserAuthPassesAnonymousThrough(t *testing.T) {
	mw := OptionalUserAuth(authsvc.NewJWTManager("secret", time.Minute), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/reports", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authsvc.ReporterFromContext(r.Context()); ok {
			t.Fatalf("anonymous request must not carry a reporter")
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestOptionalUserAuthRejectsBadToken(t *testing.T) {
	mw := OptionalUserAuth(authsvc.NewJWTManager("secret", time.Minute), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/reports", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called on invalid token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, ok := extractBearerToken("Basic abc"); ok {
		t.Fatalf("basic auth must not be accepted")
	}
	if _, ok := extractBearerToken("Bearer "); ok {
		t.Fatalf("empty bearer must not be accepted")
	}
	if token, ok := extractBearerToken("  Bearer abc.def "); !ok || token != "abc.def" {
		t.Fatalf("unexpected token: %q ok=%v", token, ok)
	}
}
