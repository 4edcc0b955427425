package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/domain/rules"
)

// Store is the transactional listing storage. Conditional writes return
// errs.ErrNotFound for missing or deleted rows and errs.ErrInvalidTransition
// when the stored status no longer matches.
type Store interface {
	GetListing(ctx context.Context, id uuid.UUID) (model.Listing, error)
	UpdateListingStatus(ctx context.Context, upd model.ListingStatusUpdate) (model.Listing, error)
	TombstoneListing(ctx context.Context, id uuid.UUID, fromRaw []string, at time.Time) (model.Listing, error)
	UpdateDealStatus(ctx context.Context, upd model.DealStatusUpdate) (model.Listing, error)
	InsertAudit(ctx context.Context, entry model.AuditEntry) error
	ListListingReports(ctx context.Context, listingID uuid.UUID) ([]model.Report, error)
}

type TransitionInput struct {
	ID       uuid.UUID
	Action   enums.Action
	Operator model.Operator
	Reason   string
	Note     string
	At       time.Time
}

// Transition applies one table-driven status change inside an open
// transaction. changed is false when approve found the listing already approved.
func Transition(ctx context.Context, st Store, in TransitionInput) (listing model.Listing, changed bool, err error) {
	rule, ok := rules.ListingTransitionFor(in.Action)
	if !ok {
		return model.Listing{}, false, fmt.Errorf("no listing transition for %q", in.Action)
	}

	current, err := st.GetListing(ctx, in.ID)
	if err != nil {
		return model.Listing{}, false, err
	}
	if in.Action == enums.ActionListingApprove && current.Status == enums.ListingStatusApproved {
		return current, false, nil
	}
	if !rule.Allows(current.Status) {
		return model.Listing{}, false, errs.InvalidTransition(
			"listing %s cannot go from %s to %s", in.ID, current.Status, rule.To)
	}

	at := in.At.UTC()
	upd := model.ListingStatusUpdate{
		ID:        in.ID,
		FromRaw:   rules.ListingAliases(rule.From...),
		To:        rule.To,
		UpdatedAt: at,
	}
	switch in.Action {
	case enums.ActionListingApprove, enums.ActionListingReject, enums.ActionListingReview:
		reviewer := in.Operator.ID
		upd.ReviewerID = &reviewer
		upd.ReviewedAt = &at
	}
	switch in.Action {
	case enums.ActionListingApprove:
		cleared := ""
		upd.RejectionReason = &cleared
	case enums.ActionListingReject:
		reason := strings.TrimSpace(in.Reason)
		upd.RejectionReason = &reason
	}

	updated, err := st.UpdateListingStatus(ctx, upd)
	if err != nil {
		if in.Action == enums.ActionListingApprove && errors.Is(err, errs.ErrInvalidTransition) {
			if again, getErr := st.GetListing(ctx, in.ID); getErr == nil && again.Status == enums.ListingStatusApproved {
				return again, false, nil
			}
		}
		return model.Listing{}, false, fmt.Errorf("update listing status: %w", err)
	}

	note := in.Note
	if in.Action == enums.ActionListingReject {
		note = strings.TrimSpace(in.Reason)
	}
	if err := st.InsertAudit(ctx, auditEntry(in.Operator, in.Action, in.ID, string(current.Status), string(updated.Status), note, at)); err != nil {
		return model.Listing{}, false, fmt.Errorf("insert audit entry: %w", err)
	}

	return updated, true, nil
}

type RemoveInput struct {
	ID       uuid.UUID
	Action   enums.Action
	Operator model.Operator
	Note     string
	At       time.Time
}

// Remove tombstones a listing inside an open transaction.
func Remove(ctx context.Context, st Store, in RemoveInput) (model.Listing, error) {
	current, err := st.GetListing(ctx, in.ID)
	if err != nil {
		return model.Listing{}, err
	}
	deletable := false
	for _, s := range rules.DeletableListingStatuses {
		if s == current.Status {
			deletable = true
			break
		}
	}
	if !deletable {
		return model.Listing{}, errs.InvalidTransition("listing %s cannot be deleted from %s", in.ID, current.Status)
	}

	at := in.At.UTC()
	deleted, err := st.TombstoneListing(ctx, in.ID, rules.ListingAliases(rules.DeletableListingStatuses...), at)
	if err != nil {
		return model.Listing{}, fmt.Errorf("tombstone listing: %w", err)
	}

	action := in.Action
	if action == "" {
		action = enums.ActionListingDelete
	}
	if err := st.InsertAudit(ctx, auditEntry(in.Operator, action, in.ID, string(current.Status), "deleted", in.Note, at)); err != nil {
		return model.Listing{}, fmt.Errorf("insert audit entry: %w", err)
	}

	return deleted, nil
}

// EnsureNoPendingDecision fails while a report that hid the listing still
// waits for restore or delete-final.
func EnsureNoPendingDecision(ctx context.Context, st Store, id uuid.UUID) error {
	reports, err := st.ListListingReports(ctx, id)
	if err != nil {
		return fmt.Errorf("list listing reports: %w", err)
	}
	for _, r := range reports {
		if r.AwaitingDecision() {
			return errs.InvalidTransition(
				"listing %s was hidden by report %s; resolve it with restore or delete-final", id, r.ID)
		}
	}
	return nil
}

func auditEntry(operator model.Operator, action enums.Action, id uuid.UUID, from, to, note string, at time.Time) model.AuditEntry {
	return model.AuditEntry{
		ID:         uuid.New(),
		ActorID:    operator.ID,
		ActorRole:  operator.Role,
		Action:     action,
		EntityType: enums.EntityListing,
		EntityID:   id,
		FromStatus: from,
		ToStatus:   to,
		Note:       note,
		CreatedAt:  at,
	}
}
