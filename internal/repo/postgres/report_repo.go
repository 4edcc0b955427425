package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/domain/rules"
)

const reportColumns = `
	id,
	listing_id,
	reason_code,
	details,
	reporter_user_id,
	status,
	action_taken,
	action_note,
	resolved_by,
	review_started_at,
	resolved_at,
	decided_at,
	version,
	created_at,
	updated_at
`

func (r repo) GetReport(ctx context.Context, id uuid.UUID) (model.Report, error) {
	if err := r.ready(); err != nil {
		return model.Report{}, err
	}

	report, err := scanReport(r.q.QueryRow(ctx, `
SELECT `+reportColumns+`
FROM reports
WHERE id = $1
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Report{}, errs.NotFound("report %s not found", id)
	}
	if err != nil {
		return model.Report{}, fmt.Errorf("get report: %w", err)
	}
	return report, nil
}

func (r repo) ListReports(ctx context.Context, filter model.CaseFilter) ([]model.Report, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	args := []any{}
	where := []string{"TRUE"}
	if len(filter.StatusesRaw) > 0 {
		args = append(args, filter.StatusesRaw)
		where = append(where, fmt.Sprintf("LOWER(TRIM(status)) = ANY($%d)", len(args)))
	}
	if filter.ListingID != nil {
		args = append(args, *filter.ListingID)
		where = append(where, fmt.Sprintf("listing_id = $%d", len(args)))
	}
	args = append(args, filter.Limit)

	rows, err := r.q.Query(ctx, `
SELECT `+reportColumns+`
FROM reports
WHERE `+strings.Join(where, " AND ")+`
ORDER BY created_at DESC, id DESC
LIMIT $`+fmt.Sprint(len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return collectReports(rows)
}

// InsertReport only files against a live listing.
func (r repo) InsertReport(ctx context.Context, report model.Report) (model.Report, error) {
	if err := r.ready(); err != nil {
		return model.Report{}, err
	}
	if report.Status == "" {
		report.Status = enums.CaseStatusNew
	}
	if report.ActionTaken == "" {
		report.ActionTaken = enums.ListingActionNone
	}

	created, err := scanReport(r.q.QueryRow(ctx, `
INSERT INTO reports (
	id,
	listing_id,
	reason_code,
	details,
	reporter_user_id,
	status,
	action_taken,
	version,
	created_at,
	updated_at
)
SELECT $1, l.id, $3, $4, $5, $6, $7, 1, $8, $8
FROM listings l
WHERE l.id = $2
  AND l.deleted_at IS NULL
RETURNING `+reportColumns,
		report.ID,
		report.ListingID,
		string(report.ReasonCode),
		report.Details,
		report.ReporterUserID,
		string(report.Status),
		string(report.ActionTaken),
		report.CreatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Report{}, errs.NotFound("listing %s not found", report.ListingID)
	}
	if err != nil {
		return model.Report{}, fmt.Errorf("insert report: %w", err)
	}
	return created, nil
}

func (r repo) UpdateReport(ctx context.Context, upd model.CaseUpdate) (model.Report, error) {
	if err := r.ready(); err != nil {
		return model.Report{}, err
	}

	var actionTaken *string
	if upd.ActionTaken != nil {
		value := string(*upd.ActionTaken)
		actionTaken = &value
	}

	report, err := scanReport(r.q.QueryRow(ctx, `
UPDATE reports
SET status = $4,
	action_taken = COALESCE($5, action_taken),
	action_note = COALESCE($6, action_note),
	resolved_by = COALESCE($7, resolved_by),
	review_started_at = COALESCE($8, review_started_at),
	resolved_at = COALESCE($9, resolved_at),
	decided_at = COALESCE($10, decided_at),
	version = version + 1,
	updated_at = $11
WHERE id = $1
  AND LOWER(TRIM(status)) = ANY($2)
  AND version = $3
RETURNING `+reportColumns,
		upd.ID,
		upd.FromRaw,
		upd.Version,
		string(upd.To),
		actionTaken,
		upd.Note,
		upd.ResolvedBy,
		upd.ReviewStart,
		upd.ResolvedAt,
		upd.DecidedAt,
		upd.UpdatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Report{}, r.classifyCaseMiss(ctx, "reports", "report", upd.ID)
	}
	if err != nil {
		return model.Report{}, fmt.Errorf("update report: %w", err)
	}
	return report, nil
}

func (r repo) ListListingReports(ctx context.Context, listingID uuid.UUID) ([]model.Report, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, `
SELECT `+reportColumns+`
FROM reports
WHERE listing_id = $1
ORDER BY created_at ASC, id ASC
FOR UPDATE
`, listingID)
	if err != nil {
		return nil, fmt.Errorf("list listing reports: %w", err)
	}
	return collectReports(rows)
}

// classifyCaseMiss runs after a versioned update matched no row. table and
// noun come from call sites, never from input.
func (r repo) classifyCaseMiss(ctx context.Context, table, noun string, id uuid.UUID) error {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check %s: %w", noun, err)
	}
	if !exists {
		return errs.NotFound("%s %s not found", noun, id)
	}
	return errs.InvalidTransition("%s %s changed concurrently", noun, id)
}

func collectReports(rows pgx.Rows) ([]model.Report, error) {
	defer rows.Close()

	out := make([]model.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

func scanReport(row pgx.Row) (model.Report, error) {
	var (
		report      model.Report
		reason      string
		status      string
		actionTaken string
	)
	if err := row.Scan(
		&report.ID,
		&report.ListingID,
		&reason,
		&report.Details,
		&report.ReporterUserID,
		&status,
		&actionTaken,
		&report.ActionNote,
		&report.ResolvedBy,
		&report.ReviewStartedAt,
		&report.ResolvedAt,
		&report.DecidedAt,
		&report.Version,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return model.Report{}, err
	}
	report.ReasonCode = enums.ReportReason(strings.ToLower(strings.TrimSpace(reason)))
	report.Status = rules.NormalizeCaseStatus(status)
	report.ActionTaken = enums.ListingAction(strings.ToLower(strings.TrimSpace(actionTaken)))
	return report, nil
}
