package slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/jobs/tasks"
)

func TestReleaseRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	listingID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/slots/release" || r.Header.Get("Authorization") != "Bearer s3cret" {
			t.Errorf("unexpected request: %s auth=%q", r.URL.Path, r.Header.Get("Authorization"))
		}
		var body releaseRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ListingID != listingID.String() {
			t.Errorf("unexpected body: %+v err=%v", body, err)
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{BaseURL: srv.URL, Token: "s3cret", MaxAttempts: 3, InitialDelay: time.Millisecond})
	if err := client.Release(context.Background(), listingID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two calls, got %d", calls.Load())
	}
}

func TestReleaseMissingSlotIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{BaseURL: srv.URL, InitialDelay: time.Millisecond})
	if err := client.Release(context.Background(), uuid.New()); err != nil {
		t.Fatalf("release of listing without slot: %v", err)
	}
}

func TestReleaseClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{BaseURL: srv.URL, MaxAttempts: 3, InitialDelay: time.Millisecond})
	err := client.Release(context.Background(), uuid.New())
	if !errors.Is(err, tasks.ErrPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("permanent errors must not be retried, got %d calls", calls.Load())
	}
}
