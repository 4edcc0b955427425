package access

import (
	"errors"
	"testing"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

func TestAuthorizeUnauthenticated(t *testing.T) {
	guard := NewGuard()

	err := guard.Authorize(model.Operator{}, enums.ActionListingApprove)
	if !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthorizeElevatedBypassesPermissions(t *testing.T) {
	guard := NewGuard()

	roles := enums.DefaultElevatedRoles()
	if len(roles) != 2 || roles[0] != enums.RoleOwner || roles[1] != enums.RoleSuperAdmin {
		t.Fatalf("unexpected default elevated roles: %v", roles)
	}
	for _, role := range roles {
		operator := model.Operator{ID: 1, Role: role}
		if err := guard.Authorize(operator, enums.ActionReportDeleteFinal); err != nil {
			t.Fatalf("role %s must bypass checks, got %v", role, err)
		}
	}
}

func TestAuthorizeByCategoryPermission(t *testing.T) {
	guard := NewGuard()
	operator := model.Operator{ID: 5, Role: enums.RoleModerator, Permissions: []enums.Category{enums.CategoryListings}}

	if err := guard.Authorize(operator, enums.ActionListingHide); err != nil {
		t.Fatalf("expected allow for listings action, got %v", err)
	}

	err := guard.Authorize(operator, enums.ActionReportClose)
	if !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden for reports action, got %v", err)
	}
	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("forbidden must stay distinct from not found and unauthorized")
	}
}

func TestAuthorizeRejectsNoneRoleAndUnknownAction(t *testing.T) {
	guard := NewGuard()

	none := model.Operator{ID: 9, Role: enums.RoleNone, Permissions: []enums.Category{enums.CategoryListings}}
	if err := guard.Authorize(none, enums.ActionListingView); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden for role NONE, got %v", err)
	}

	owner := model.Operator{ID: 1, Role: enums.RoleOwner}
	if err := guard.Authorize(owner, enums.Action("listings.teleport")); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden for unknown action, got %v", err)
	}
}

func TestCustomElevatedRoles(t *testing.T) {
	guard := NewGuard(enums.RoleAdmin)

	if err := guard.Authorize(model.Operator{ID: 2, Role: enums.RoleAdmin}, enums.ActionComplaintClose); err != nil {
		t.Fatalf("configured elevated role must bypass, got %v", err)
	}
	if err := guard.Authorize(model.Operator{ID: 3, Role: enums.RoleOwner}, enums.ActionComplaintClose); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("owner is not elevated in this configuration, got %v", err)
	}
}

func TestVisibleQueues(t *testing.T) {
	guard := NewGuard()

	support := model.Operator{ID: 4, Role: enums.RoleSupport, Permissions: []enums.Category{enums.CategoryComplaints}}
	got := guard.VisibleQueues(support)
	if len(got) != 1 || got[0] != enums.CategoryComplaints {
		t.Fatalf("unexpected queues: %v", got)
	}

	owner := model.Operator{ID: 1, Role: enums.RoleOwner}
	if got := guard.VisibleQueues(owner); len(got) != 3 {
		t.Fatalf("owner must see all queues, got %v", got)
	}
}
