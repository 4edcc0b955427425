package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/domain/rules"
	"github.com/ivankudzin/estate-backoffice/internal/pkg/validate"
	listingsvc "github.com/ivankudzin/estate-backoffice/internal/services/listings"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	maxNoteLength    = 2000
	maxDetailsLength = 2000
)

// Store is the transactional storage for report and complaint resolution.
// It includes the listing store so composite resolutions commit as one unit.
type Store interface {
	listingsvc.Store
	GetReport(ctx context.Context, id uuid.UUID) (model.Report, error)
	UpdateReport(ctx context.Context, upd model.CaseUpdate) (model.Report, error)
	GetComplaint(ctx context.Context, id uuid.UUID) (model.Complaint, error)
	UpdateComplaint(ctx context.Context, upd model.CaseUpdate) (model.Complaint, error)
	InsertStrike(ctx context.Context, strike model.Strike) error
}

type Reader interface {
	GetReport(ctx context.Context, id uuid.UUID) (model.Report, error)
	ListReports(ctx context.Context, filter model.CaseFilter) ([]model.Report, error)
	InsertReport(ctx context.Context, report model.Report) (model.Report, error)
	GetComplaint(ctx context.Context, id uuid.UUID) (model.Complaint, error)
	ListComplaints(ctx context.Context, filter model.CaseFilter) ([]model.Complaint, error)
	InsertComplaint(ctx context.Context, complaint model.Complaint) (model.Complaint, error)
}

type TxFunc func(ctx context.Context, fn func(Store) error) error

type Service struct {
	guard   listingsvc.Authorizer
	reader  Reader
	tx      TxFunc
	effects listingsvc.SideEffects
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(guard listingsvc.Authorizer, reader Reader, tx TxFunc, effects listingsvc.SideEffects, logger *zap.Logger) *Service {
	if effects == nil {
		effects = listingsvc.NopSideEffects{}
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
	Status    string
	ListingID *uuid.UUID
	Limit     int
}

func (s *Service) GetReport(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Report, error) {
	if err := s.guard.Authorize(operator, enums.ActionReportView); err != nil {
		return model.Report{}, err
	}
	return s.reader.GetReport(ctx, id)
}

func (s *Service) ListReports(ctx context.Context, operator model.Operator, in ListInput) ([]model.Report, error) {
	if err := s.guard.Authorize(operator, enums.ActionReportView); err != nil {
		return nil, err
	}
	filter, err := caseFilter(in)
	if err != nil {
		return nil, err
	}

	items, err := s.reader.ListReports(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return items, nil
}

func (s *Service) StartReview(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Report, error) {
	if err := s.guard.Authorize(operator, enums.ActionReportReview); err != nil {
		return model.Report{}, err
	}

	var report model.Report
	err := s.tx(ctx, func(st Store) error {
		current, err := st.GetReport(ctx, id)
		if err != nil {
			return err
		}
		if current.Status != enums.CaseStatusNew {
			return errs.InvalidTransition("report %s cannot start review from %s", id, current.Status)
		}

		at := s.now().UTC()
		report, err = st.UpdateReport(ctx, model.CaseUpdate{
			ID:          id,
			FromRaw:     rules.CaseAliases(enums.CaseStatusNew),
			Version:     current.Version,
			To:          enums.CaseStatusInReview,
			ReviewStart: &at,
			UpdatedAt:   at,
		})
		if err != nil {
			return fmt.Errorf("update report: %w", err)
		}
		return st.InsertAudit(ctx, caseAudit(operator, enums.ActionReportReview, enums.EntityReport, id, current.Status, report.Status, "", at))
	})
	if err != nil {
		return model.Report{}, err
	}
	return report, nil
}

func (s *Service) Dismiss(ctx context.Context, operator model.Operator, id uuid.UUID, note string) (model.Report, error) {
	if err := s.guard.Authorize(operator, enums.ActionReportDismiss); err != nil {
		return model.Report{}, err
	}
	note, err := cleanNote(note)
	if err != nil {
		return model.Report{}, err
	}

	var report model.Report
	err = s.tx(ctx, func(st Store) error {
		current, err := s.openReport(ctx, st, id)
		if err != nil {
			return err
		}

		at := s.now().UTC()
		none := enums.ListingActionNone
		report, err = st.UpdateReport(ctx, resolution(current, operator, enums.CaseStatusDismissed, &none, note, at))
		if err != nil {
			return fmt.Errorf("update report: %w", err)
		}
		return st.InsertAudit(ctx, caseAudit(operator, enums.ActionReportDismiss, enums.EntityReport, id, current.Status, report.Status, note, at))
	})
	if err != nil {
		return model.Report{}, err
	}
	return report, nil
}

// Close resolves a report and applies the listing action in the same transaction.
func (s *Service) Close(ctx context.Context, operator model.Operator, id uuid.UUID, action enums.ListingAction, note string) (model.Report, error) {
	if err := s.guard.Authorize(operator, enums.ActionReportClose); err != nil {
		return model.Report{}, err
	}
	if action == "" {
		action = enums.ListingActionNone
	}
	if !action.ValidForClose() {
		return model.Report{}, errs.Validation("listing action %q is not allowed on close", action)
	}
	note, err := cleanNote(note)
	if err != nil {
		return model.Report{}, err
	}

	var (
		report  model.Report
		listing model.Listing
	)
	err = s.tx(ctx, func(st Store) error {
		current, err := s.openReport(ctx, st, id)
		if err != nil {
			return err
		}

		at := s.now().UTC()
		switch action {
		case enums.ListingActionHide:
			listing, _, err = listingsvc.Transition(ctx, st, listingsvc.TransitionInput{
				ID:       current.ListingID,
				Action:   enums.ActionListingHide,
				Operator: operator,
				Note:     note,
				At:       at,
			})
		case enums.ListingActionDelete:
			listing, err = listingsvc.Remove(ctx, st, listingsvc.RemoveInput{
				ID:       current.ListingID,
				Action:   enums.ActionReportClose,
				Operator: operator,
				Note:     note,
				At:       at,
			})
		}
		if err != nil {
			return fmt.Errorf("apply listing %s: %w", action, err)
		}

		report, err = st.UpdateReport(ctx, resolution(current, operator, enums.CaseStatusClosed, &action, note, at))
		if err != nil {
			return fmt.Errorf("update report: %w", err)
		}
		return st.InsertAudit(ctx, caseAudit(operator, enums.ActionReportClose, enums.EntityReport, id, current.Status, report.Status, note, at))
	})
	if err != nil {
		return model.Report{}, err
	}

	switch action {
	case enums.ListingActionHide:
		s.effects.ReleaseSlot(ctx, listing.ID)
		s.notify(ctx, listing, note, "Your listing %q was hidden after a report review.")
	case enums.ListingActionDelete:
		listingsvc.AfterDelete(ctx, s.effects, listing)
		s.notify(ctx, listing, note, "Your listing %q was removed after a report review.")
	}

	s.logger.Info("report closed",
		zap.String("report_id", id.String()),
		zap.String("listing_action", string(action)),
		zap.Int64("operator_id", operator.ID),
	)
	return report, nil
}

// Restore reverses a report-driven hide: the listing is shown again and the
// report is dismissed.
func (s *Service) Restore(ctx context.Context, operator model.Operator, id uuid.UUID, note string) (model.Report, error) {
	if err := s.guard.Authorize(operator, enums.ActionReportRestore); err != nil {
		return model.Report{}, err
	}
	note, err := cleanNote(note)
	if err != nil {
		return model.Report{}, err
	}

	var (
		report  model.Report
		listing model.Listing
	)
	err = s.tx(ctx, func(st Store) error {
		current, err := s.finalDecisionReport(ctx, st, id)
		if err != nil {
			return err
		}

		at := s.now().UTC()
		listing, _, err = listingsvc.Transition(ctx, st, listingsvc.TransitionInput{
			ID:       current.ListingID,
			Action:   enums.ActionListingShow,
			Operator: operator,
			Note:     note,
			At:       at,
		})
		if err != nil {
			return fmt.Errorf("show listing: %w", err)
		}

		restore := enums.ListingActionRestore
		upd := resolution(current, operator, enums.CaseStatusDismissed, &restore, note, at)
		upd.DecidedAt = &at
		report, err = st.UpdateReport(ctx, upd)
		if err != nil {
			return fmt.Errorf("update report: %w", err)
		}
		if err := settleAwaiting(ctx, st, current.ListingID, id, at); err != nil {
			return err
		}
		return st.InsertAudit(ctx, caseAudit(operator, enums.ActionReportRestore, enums.EntityReport, id, current.Status, report.Status, note, at))
	})
	if err != nil {
		return model.Report{}, err
	}

	s.notify(ctx, listing, note, "Your listing %q has been reinstated.")
	return report, nil
}

// DeleteFinal removes a hidden listing for good and records a strike against
// its owner. The strike is part of the transaction.
func (s *Service) DeleteFinal(ctx context.Context, operator model.Operator, id uuid.UUID, note string) (model.Report, error) {
	if err := s.guard.Authorize(operator, enums.ActionReportDeleteFinal); err != nil {
		return model.Report{}, err
	}
	note, err := cleanNote(note)
	if err != nil {
		return model.Report{}, err
	}

	var (
		report  model.Report
		listing model.Listing
	)
	err = s.tx(ctx, func(st Store) error {
		current, err := s.finalDecisionReport(ctx, st, id)
		if err != nil {
			return err
		}

		at := s.now().UTC()
		listing, err = listingsvc.Remove(ctx, st, listingsvc.RemoveInput{
			ID:       current.ListingID,
			Action:   enums.ActionReportDeleteFinal,
			Operator: operator,
			Note:     note,
			At:       at,
		})
		if err != nil {
			return fmt.Errorf("delete listing: %w", err)
		}

		if err := st.InsertStrike(ctx, model.Strike{
			ID:        uuid.New(),
			OwnerID:   listing.OwnerID,
			ListingID: listing.ID,
			ReportID:  id,
			Note:      note,
			ActorID:   operator.ID,
			CreatedAt: at,
		}); err != nil {
			return errs.Dependency(err, "record owner strike")
		}

		del := enums.ListingActionDelete
		upd := resolution(current, operator, enums.CaseStatusClosed, &del, note, at)
		upd.DecidedAt = &at
		report, err = st.UpdateReport(ctx, upd)
		if err != nil {
			return fmt.Errorf("update report: %w", err)
		}
		if err := settleAwaiting(ctx, st, current.ListingID, id, at); err != nil {
			return err
		}
		return st.InsertAudit(ctx, caseAudit(operator, enums.ActionReportDeleteFinal, enums.EntityReport, id, current.Status, report.Status, note, at))
	})
	if err != nil {
		return model.Report{}, err
	}

	listingsvc.AfterDelete(ctx, s.effects, listing)
	s.notify(ctx, listing, note, "Your listing %q was removed for a repeated violation.")
	s.logger.Info("report final delete",
		zap.String("report_id", id.String()),
		zap.String("listing_id", listing.ID.String()),
		zap.Int64("owner_id", listing.OwnerID),
		zap.Int64("operator_id", operator.ID),
	)
	return report, nil
}

// openReport loads a report eligible for an ordinary close or dismiss.
func (s *Service) openReport(ctx context.Context, st Store, id uuid.UUID) (model.Report, error) {
	current, err := st.GetReport(ctx, id)
	if err != nil {
		return model.Report{}, err
	}
	if !rules.CaseIsOpen(current.Status) {
		return model.Report{}, errs.InvalidTransition("report %s is already %s", id, current.Status)
	}

	listing, err := st.GetListing(ctx, current.ListingID)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return current, nil
	case err != nil:
		return model.Report{}, fmt.Errorf("load reported listing: %w", err)
	}
	if listing.Status == enums.ListingStatusHidden {
		return model.Report{}, errs.InvalidTransition(
			"listing %s is hidden; resolve report %s with restore or delete-final", listing.ID, id)
	}
	return current, nil
}

// finalDecisionReport loads a report eligible for restore or deleteFinal.
func (s *Service) finalDecisionReport(ctx context.Context, st Store, id uuid.UUID) (model.Report, error) {
	current, err := st.GetReport(ctx, id)
	if err != nil {
		return model.Report{}, err
	}
	if !rules.CaseIsOpen(current.Status) && !current.AwaitingDecision() {
		return model.Report{}, errs.InvalidTransition("report %s is already resolved", id)
	}

	listing, err := st.GetListing(ctx, current.ListingID)
	if err != nil {
		return model.Report{}, err
	}
	if listing.Status != enums.ListingStatusHidden {
		return model.Report{}, errs.InvalidTransition("listing %s is %s, not hidden", listing.ID, listing.Status)
	}
	return current, nil
}

// settleAwaiting marks other reports that hid the same listing as decided.
func settleAwaiting(ctx context.Context, st Store, listingID, decided uuid.UUID, at time.Time) error {
	siblings, err := st.ListListingReports(ctx, listingID)
	if err != nil {
		return fmt.Errorf("list listing reports: %w", err)
	}
	for _, r := range siblings {
		if r.ID == decided || !r.AwaitingDecision() {
			continue
		}
		if _, err := st.UpdateReport(ctx, model.CaseUpdate{
			ID:        r.ID,
			FromRaw:   rules.CaseAliases(enums.CaseStatusClosed),
			Version:   r.Version,
			To:        enums.CaseStatusClosed,
			DecidedAt: &at,
			UpdatedAt: at,
		}); err != nil {
			return fmt.Errorf("settle report %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *Service) notify(ctx context.Context, listing model.Listing, note, fallback string) {
	message := note
	if message == "" {
		message = fmt.Sprintf(fallback, listing.Title)
	}
	s.effects.NotifyOwner(ctx, listing.OwnerID, message)
}

func resolution(current model.Report, operator model.Operator, to enums.CaseStatus, action *enums.ListingAction, note string, at time.Time) model.CaseUpdate {
	resolver := operator.ID
	return model.CaseUpdate{
		ID:          current.ID,
		FromRaw:     rules.CaseAliases(current.Status),
		Version:     current.Version,
		To:          to,
		ActionTaken: action,
		Note:        &note,
		ResolvedBy:  &resolver,
		ResolvedAt:  &at,
		UpdatedAt:   at,
	}
}

func caseAudit(operator model.Operator, action enums.Action, entity enums.EntityType, id uuid.UUID, from, to enums.CaseStatus, note string, at time.Time) model.AuditEntry {
	return model.AuditEntry{
		ID:         uuid.New(),
		ActorID:    operator.ID,
		ActorRole:  operator.Role,
		Action:     action,
		EntityType: entity,
		EntityID:   id,
		FromStatus: string(from),
		ToStatus:   string(to),
		Note:       note,
		CreatedAt:  at,
	}
}

func cleanNote(note string) (string, error) {
	note = strings.TrimSpace(note)
	if !validate.MaxRunes(note, maxNoteLength) {
		return "", errs.Validation("note is longer than %d characters", maxNoteLength)
	}
	return note, nil
}

func caseFilter(in ListInput) (model.CaseFilter, error) {
	filter := model.CaseFilter{ListingID: in.ListingID, Limit: in.Limit}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if validate.Required(in.Status) {
		status := rules.NormalizeCaseStatus(in.Status)
		if !status.Valid() {
			return model.CaseFilter{}, errs.Validation("unknown status %q", in.Status)
		}
		filter.StatusesRaw = rules.CaseAliases(status)
	}
	return filter, nil
}
