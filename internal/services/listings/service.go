package listings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/domain/rules"
	"github.com/ivankudzin/estate-backoffice/internal/pkg/validate"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	maxReasonLength  = 1000
)

type Authorizer interface {
	Authorize(operator model.Operator, action enums.Action) error
}

type Reader interface {
	GetListing(ctx context.Context, id uuid.UUID) (model.Listing, error)
	ListListings(ctx context.Context, filter model.ListingFilter) ([]model.Listing, error)
}

// TxFunc runs fn in one storage transaction and rolls back when fn fails.
type TxFunc func(ctx context.Context, fn func(Store) error) error

// SideEffects are non-essential follow-ups. Implementations retry and log on
// their own; the committed transition never depends on them.
type SideEffects interface {
	ReleaseSlot(ctx context.Context, listingID uuid.UUID)
	PurgeMedia(ctx context.Context, listingID uuid.UUID, keys []string)
	NotifyOwner(ctx context.Context, ownerID int64, message string)
}

type Service struct {
	guard   Authorizer
	reader  Reader
	tx      TxFunc
	effects SideEffects
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(guard Authorizer, reader Reader, tx TxFunc, effects SideEffects, logger *zap.Logger) *Service {
	if effects == nil {
		effects = NopSideEffects{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		guard:   guard,
		reader:  reader,
		tx:      tx,
		effects: effects,
		now:     time.Now,
		logger:  logger,
	}
}

type ListInput struct {
	Status  string
	OwnerID int64
	Limit   int
}

func (s *Service) Get(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Listing, error) {
	if err := s.guard.Authorize(operator, enums.ActionListingView); err != nil {
		return model.Listing{}, err
	}
	return s.reader.GetListing(ctx, id)
}

func (s *Service) List(ctx context.Context, operator model.Operator, in ListInput) ([]model.Listing, error) {
	if err := s.guard.Authorize(operator, enums.ActionListingView); err != nil {
		return nil, err
	}

	filter := model.ListingFilter{OwnerID: in.OwnerID, Limit: clampLimit(in.Limit)}
	if validate.Required(in.Status) {
		status := rules.NormalizeListingStatus(in.Status)
		if !status.Valid() {
			return nil, errs.Validation("unknown listing status %q", in.Status)
		}
		filter.StatusesRaw = rules.ListingAliases(status)
	}

	items, err := s.reader.ListListings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return items, nil
}

// Approve is a no-op returning the listing when it is already approved.
func (s *Service) Approve(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Listing, error) {
	return s.transition(ctx, TransitionInput{ID: id, Action: enums.ActionListingApprove, Operator: operator})
}

func (s *Service) Reject(ctx context.Context, operator model.Operator, id uuid.UUID, reason string) (model.Listing, error) {
	if err := s.guard.Authorize(operator, enums.ActionListingReject); err != nil {
		return model.Listing{}, err
	}
	if !validate.Required(reason) {
		return model.Listing{}, errs.Validation("rejection reason is required")
	}
	if !validate.MaxRunes(reason, maxReasonLength) {
		return model.Listing{}, errs.Validation("rejection reason is longer than %d characters", maxReasonLength)
	}

	listing, err := s.apply(ctx, TransitionInput{ID: id, Action: enums.ActionListingReject, Operator: operator, Reason: reason}, nil)
	if err != nil {
		return model.Listing{}, err
	}

	s.effects.NotifyOwner(ctx, listing.OwnerID, fmt.Sprintf("Your listing %q was rejected: %s", listing.Title, listing.RejectionReason))
	return listing, nil
}

func (s *Service) MarkInReview(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Listing, error) {
	return s.transition(ctx, TransitionInput{ID: id, Action: enums.ActionListingReview, Operator: operator})
}

func (s *Service) Hide(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Listing, error) {
	listing, err := s.transition(ctx, TransitionInput{ID: id, Action: enums.ActionListingHide, Operator: operator})
	if err != nil {
		return model.Listing{}, err
	}

	s.effects.ReleaseSlot(ctx, listing.ID)
	return listing, nil
}

// Show fails while a report hide on the listing awaits its final decision.
func (s *Service) Show(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Listing, error) {
	if err := s.guard.Authorize(operator, enums.ActionListingShow); err != nil {
		return model.Listing{}, err
	}
	return s.apply(ctx, TransitionInput{ID: id, Action: enums.ActionListingShow, Operator: operator}, EnsureNoPendingDecision)
}

func (s *Service) Delete(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Listing, error) {
	if err := s.guard.Authorize(operator, enums.ActionListingDelete); err != nil {
		return model.Listing{}, err
	}

	var deleted model.Listing
	err := s.tx(ctx, func(st Store) error {
		if err := EnsureNoPendingDecision(ctx, st, id); err != nil {
			return err
		}
		var err error
		deleted, err = Remove(ctx, st, RemoveInput{ID: id, Operator: operator, At: s.now()})
		return err
	})
	if err != nil {
		return model.Listing{}, err
	}

	s.logger.Info("listing deleted", zap.String("listing_id", id.String()), zap.Int64("operator_id", operator.ID))
	AfterDelete(ctx, s.effects, deleted)
	return deleted, nil
}

// AfterDelete schedules slot and media cleanup for a committed deletion.
func AfterDelete(ctx context.Context, effects SideEffects, deleted model.Listing) {
	effects.ReleaseSlot(ctx, deleted.ID)
	if len(deleted.MediaKeys) > 0 {
		effects.PurgeMedia(ctx, deleted.ID, deleted.MediaKeys)
	}
}

func (s *Service) SetDealStatus(ctx context.Context, operator model.Operator, id uuid.UUID, to enums.DealStatus) (model.Listing, error) {
	if err := s.guard.Authorize(operator, enums.ActionListingDealStatus); err != nil {
		return model.Listing{}, err
	}
	if !to.Valid() {
		return model.Listing{}, errs.Validation("unknown deal status %q", to)
	}

	var listing model.Listing
	err := s.tx(ctx, func(st Store) error {
		current, err := st.GetListing(ctx, id)
		if err != nil {
			return err
		}
		if !rules.CanEditDeal(current.Status) {
			return errs.InvalidTransition("deal status of listing %s cannot change while %s", id, current.Status)
		}
		if current.DealStatus == to {
			listing = current
			return nil
		}
		if !rules.DealTransitionAllowed(current.DealStatus, to) {
			return errs.InvalidTransition("deal status cannot go from %s to %s", current.DealStatus, to)
		}

		at := s.now().UTC()
		listing, err = st.UpdateDealStatus(ctx, model.DealStatusUpdate{
			ID:        id,
			FromRaw:   rules.ListingAliases(rules.DealEditableListingStatuses...),
			FromDeal:  current.DealStatus,
			To:        to,
			UpdatedAt: at,
		})
		if err != nil {
			return fmt.Errorf("update deal status: %w", err)
		}
		return st.InsertAudit(ctx, auditEntry(operator, enums.ActionListingDealStatus, id, string(current.DealStatus), string(to), "", at))
	})
	if err != nil {
		return model.Listing{}, err
	}
	return listing, nil
}

func (s *Service) transition(ctx context.Context, in TransitionInput) (model.Listing, error) {
	if err := s.guard.Authorize(in.Operator, in.Action); err != nil {
		return model.Listing{}, err
	}
	return s.apply(ctx, in, nil)
}

// apply runs an already authorized transition. check, when set, runs first
// inside the same transaction.
func (s *Service) apply(ctx context.Context, in TransitionInput, check func(context.Context, Store, uuid.UUID) error) (model.Listing, error) {
	in.At = s.now()

	var (
		listing model.Listing
		changed bool
	)
	err := s.tx(ctx, func(st Store) error {
		if check != nil {
			if err := check(ctx, st, in.ID); err != nil {
				return err
			}
		}
		var err error
		listing, changed, err = Transition(ctx, st, in)
		return err
	})
	if err != nil {
		return model.Listing{}, err
	}

	if changed {
		s.logger.Info("listing transition",
			zap.String("listing_id", listing.ID.String()),
			zap.String("action", string(in.Action)),
			zap.String("status", string(listing.Status)),
			zap.Int64("operator_id", in.Operator.ID),
		)
	}
	return listing, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

type NopSideEffects struct{}

func (NopSideEffects) ReleaseSlot(context.Context, uuid.UUID)           {}
func (NopSideEffects) PurgeMedia(context.Context, uuid.UUID, []string) {}
func (NopSideEffects) NotifyOwner(context.Context, int64, string)      {}
