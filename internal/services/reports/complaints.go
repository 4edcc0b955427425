package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/domain/rules"
)

func (s *Service) GetComplaint(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Complaint, error) {
	if err := s.guard.Authorize(operator, enums.ActionComplaintView); err != nil {
		return model.Complaint{}, err
	}
	return s.reader.GetComplaint(ctx, id)
}

func (s *Service) ListComplaints(ctx context.Context, operator model.Operator, in ListInput) ([]model.Complaint, error) {
	if err := s.guard.Authorize(operator, enums.ActionComplaintView); err != nil {
		return nil, err
	}
	in.ListingID = nil
	filter, err := caseFilter(in)
	if err != nil {
		return nil, err
	}

	items, err := s.reader.ListComplaints(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return items, nil
}

func (s *Service) StartComplaintReview(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Complaint, error) {
	return s.resolveComplaint(ctx, operator, id, enums.ActionComplaintReview, "")
}

func (s *Service) DismissComplaint(ctx context.Context, operator model.Operator, id uuid.UUID, note string) (model.Complaint, error) {
	return s.resolveComplaint(ctx, operator, id, enums.ActionComplaintDismiss, note)
}

func (s *Service) CloseComplaint(ctx context.Context, operator model.Operator, id uuid.UUID, note string) (model.Complaint, error) {
	return s.resolveComplaint(ctx, operator, id, enums.ActionComplaintClose, note)
}

func (s *Service) resolveComplaint(ctx context.Context, operator model.Operator, id uuid.UUID, action enums.Action, note string) (model.Complaint, error) {
	if err := s.guard.Authorize(operator, action); err != nil {
		return model.Complaint{}, err
	}
	note, err := cleanNote(note)
	if err != nil {
		return model.Complaint{}, err
	}

	var complaint model.Complaint
	err = s.tx(ctx, func(st Store) error {
		current, err := st.GetComplaint(ctx, id)
		if err != nil {
			return err
		}

		at := s.now().UTC()
		upd := model.CaseUpdate{
			ID:        id,
			FromRaw:   rules.CaseAliases(current.Status),
			Version:   current.Version,
			UpdatedAt: at,
		}
		switch action {
		case enums.ActionComplaintReview:
			if current.Status != enums.CaseStatusNew {
				return errs.InvalidTransition("complaint %s cannot start review from %s", id, current.Status)
			}
			upd.To = enums.CaseStatusInReview
			upd.ReviewStart = &at
		case enums.ActionComplaintDismiss, enums.ActionComplaintClose:
			if !rules.CaseIsOpen(current.Status) {
				return errs.InvalidTransition("complaint %s is already %s", id, current.Status)
			}
			upd.To = enums.CaseStatusClosed
			if action == enums.ActionComplaintDismiss {
				upd.To = enums.CaseStatusDismissed
			}
			resolver := operator.ID
			upd.Note = &note
			upd.ResolvedBy = &resolver
			upd.ResolvedAt = &at
		default:
			return fmt.Errorf("unsupported complaint action %q", action)
		}

		complaint, err = st.UpdateComplaint(ctx, upd)
		if err != nil {
			return fmt.Errorf("update complaint: %w", err)
		}
		return st.InsertAudit(ctx, caseAudit(operator, action, enums.EntityComplaint, id, current.Status, complaint.Status, note, at))
	})
	if err != nil {
		return model.Complaint{}, err
	}
	return complaint, nil
}
