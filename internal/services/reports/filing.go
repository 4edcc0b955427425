package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/pkg/validate"
)

type FileReportInput struct {
	ListingID      uuid.UUID
	ReasonCode     string
	Details        string
	ReporterUserID *int64
}

// FileReport records a report from a marketplace user or an anonymous visitor.
func (s *Service) FileReport(ctx context.Context, in FileReportInput) (model.Report, error) {
	if in.ListingID == uuid.Nil {
		return model.Report{}, errs.Validation("listing id is required")
	}
	reason := enums.ReportReason(strings.ToLower(strings.TrimSpace(in.ReasonCode)))
	if !reason.Valid() {
		return model.Report{}, errs.Validation("unknown report reason %q", in.ReasonCode)
	}
	details := strings.TrimSpace(in.Details)
	if !validate.MaxRunes(details, maxDetailsLength) {
		return model.Report{}, errs.Validation("details are longer than %d characters", maxDetailsLength)
	}
	if reason == enums.ReportReasonOther && details == "" {
		return model.Report{}, errs.Validation("details are required for reason %q", reason)
	}

	now := s.now().UTC()
	report, err := s.reader.InsertReport(ctx, model.Report{
		ID:             uuid.New(),
		ListingID:      in.ListingID,
		ReasonCode:     reason,
		Details:        details,
		ReporterUserID: in.ReporterUserID,
		Status:         enums.CaseStatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return model.Report{}, fmt.Errorf("insert report: %w", err)
	}
	return report, nil
}

type FileComplaintInput struct {
	SubjectUserID int64
	ComplainantID *int64
	Reason        string
	Details       string
}

func (s *Service) FileComplaint(ctx context.Context, in FileComplaintInput) (model.Complaint, error) {
	if in.SubjectUserID <= 0 {
		return model.Complaint{}, errs.Validation("subject user id is required")
	}
	if !validate.Required(in.Reason) {
		return model.Complaint{}, errs.Validation("reason is required")
	}
	reason := strings.TrimSpace(in.Reason)
	details := strings.TrimSpace(in.Details)
	if !validate.MaxRunes(reason, 200) || !validate.MaxRunes(details, maxDetailsLength) {
		return model.Complaint{}, errs.Validation("complaint text is too long")
	}

	now := s.now().UTC()
	complaint, err := s.reader.InsertComplaint(ctx, model.Complaint{
		ID:            uuid.New(),
		SubjectUserID: in.SubjectUserID,
		ComplainantID: in.ComplainantID,
		Reason:        reason,
		Details:       details,
		Status:        enums.CaseStatusNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return model.Complaint{}, fmt.Errorf("insert complaint: %w", err)
	}
	return complaint, nil
}
