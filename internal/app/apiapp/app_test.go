package apiapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/ivankudzin/estate-backoffice/internal/config"
	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	authsvc "github.com/ivankudzin/estate-backoffice/internal/services/auth"
	"github.com/ivankudzin/estate-backoffice/internal/transport/http/dto"
)

func newTestApp(t *testing.T) (*App, config.Config) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cfg := config.Default()
	cfg.HTTP.Addr = ":0"
	cfg.Storage.Driver = "memory"
	cfg.Redis.Addr = mr.Addr()

	app, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app, cfg
}

func TestHealthz(t *testing.T) {
	app, _ := newTestApp(t)
	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusOK)
	}

	var payload dto.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.OK {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)
	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/admin/counts")
	if err != nil {
		t.Fatalf("get counts: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestCountsForElevatedOperator(t *testing.T) {
	app, cfg := newTestApp(t)
	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	tokens := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	token, _, err := tokens.GenerateOperatorToken(model.Operator{ID: 1, Role: enums.RoleOwner})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/admin/counts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get counts: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusOK)
	}
	var payload dto.CountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Queues) != 3 {
		t.Fatalf("owner should see three queues, got %+v", payload.Queues)
	}
}
