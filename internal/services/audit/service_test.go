package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/repo/memory"
	"github.com/ivankudzin/estate-backoffice/internal/services/access"
)

func TestRecentRequiresAuditPermission(t *testing.T) {
	svc := NewService(access.NewGuard(), memory.NewStore())

	op := model.Operator{ID: 4, Role: enums.RoleModerator, Permissions: []enums.Category{enums.CategoryListings}}
	if _, err := svc.Recent(context.Background(), op, 10); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	err := store.InTx(context.Background(), func(tx *memory.Tx) error {
		for i := 0; i < 3; i++ {
			if err := tx.InsertAudit(context.Background(), model.AuditEntry{
				ID:        uuid.New(),
				ActorID:   1,
				Action:    enums.ActionListingApprove,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed audit: %v", err)
	}

	svc := NewService(access.NewGuard(), store)
	entries, err := svc.Recent(context.Background(), model.Operator{ID: 1, Role: enums.RoleOwner}, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].CreatedAt.After(entries[1].CreatedAt) {
		t.Fatalf("expected newest first: %v then %v", entries[0].CreatedAt, entries[1].CreatedAt)
	}
}

func TestOwnerStrikesValidatesOwner(t *testing.T) {
	svc := NewService(access.NewGuard(), memory.NewStore())

	_, err := svc.OwnerStrikes(context.Background(), model.Operator{ID: 1, Role: enums.RoleSuperAdmin}, 0)
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
