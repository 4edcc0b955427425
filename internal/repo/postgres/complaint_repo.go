package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/domain/rules"
)

const complaintColumns = `
	id,
	subject_user_id,
	complainant_id,
	reason,
	details,
	status,
	admin_note,
	resolved_by,
	review_started_at,
	resolved_at,
	version,
	created_at,
	updated_at
`

func (r repo) GetComplaint(ctx context.Context, id uuid.UUID) (model.Complaint, error) {
	if err := r.ready(); err != nil {
		return model.Complaint{}, err
	}

	complaint, err := scanComplaint(r.q.QueryRow(ctx, `
SELECT `+complaintColumns+`
FROM complaints
WHERE id = $1
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Complaint{}, errs.NotFound("complaint %s not found", id)
	}
	if err != nil {
		return model.Complaint{}, fmt.Errorf("get complaint: %w", err)
	}
	return complaint, nil
}

func (r repo) ListComplaints(ctx context.Context, filter model.CaseFilter) ([]model.Complaint, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var statuses []string
	if len(filter.StatusesRaw) > 0 {
		statuses = filter.StatusesRaw
	}

	rows, err := r.q.Query(ctx, `
SELECT `+complaintColumns+`
FROM complaints
WHERE ($1::TEXT[] IS NULL OR LOWER(TRIM(status)) = ANY($1))
ORDER BY created_at DESC, id DESC
LIMIT $2
`, statuses, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	out := make([]model.Complaint, 0)
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		out = append(out, complaint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate complaints: %w", err)
	}
	return out, nil
}

func (r repo) InsertComplaint(ctx context.Context, complaint model.Complaint) (model.Complaint, error) {
	if err := r.ready(); err != nil {
		return model.Complaint{}, err
	}
	if complaint.Status == "" {
		complaint.Status = enums.CaseStatusNew
	}

	created, err := scanComplaint(r.q.QueryRow(ctx, `
INSERT INTO complaints (
	id,
	subject_user_id,
	complainant_id,
	reason,
	details,
	status,
	version,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $7)
RETURNING `+complaintColumns,
		complaint.ID,
		complaint.SubjectUserID,
		complaint.ComplainantID,
		complaint.Reason,
		complaint.Details,
		string(complaint.Status),
		complaint.CreatedAt,
	))
	if err != nil {
		return model.Complaint{}, fmt.Errorf("insert complaint: %w", err)
	}
	return created, nil
}

func (r repo) UpdateComplaint(ctx context.Context, upd model.CaseUpdate) (model.Complaint, error) {
	if err := r.ready(); err != nil {
		return model.Complaint{}, err
	}

	complaint, err := scanComplaint(r.q.QueryRow(ctx, `
UPDATE complaints
SET status = $4,
	admin_note = COALESCE($5, admin_note),
	resolved_by = COALESCE($6, resolved_by),
	review_started_at = COALESCE($7, review_started_at),
	resolved_at = COALESCE($8, resolved_at),
	version = version + 1,
	updated_at = $9
WHERE id = $1
  AND LOWER(TRIM(status)) = ANY($2)
  AND version = $3
RETURNING `+complaintColumns,
		upd.ID,
		upd.FromRaw,
		upd.Version,
		string(upd.To),
		upd.Note,
		upd.ResolvedBy,
		upd.ReviewStart,
		upd.ResolvedAt,
		upd.UpdatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Complaint{}, r.classifyCaseMiss(ctx, "complaints", "complaint", upd.ID)
	}
	if err != nil {
		return model.Complaint{}, fmt.Errorf("update complaint: %w", err)
	}
	return complaint, nil
}

func scanComplaint(row pgx.Row) (model.Complaint, error) {
	var (
		complaint model.Complaint
		status    string
	)
	if err := row.Scan(
		&complaint.ID,
		&complaint.SubjectUserID,
		&complaint.ComplainantID,
		&complaint.Reason,
		&complaint.Details,
		&status,
		&complaint.AdminNote,
		&complaint.ResolvedBy,
		&complaint.ReviewStartedAt,
		&complaint.ResolvedAt,
		&complaint.Version,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return model.Complaint{}, err
	}
	complaint.Status = rules.NormalizeCaseStatus(status)
	return complaint, nil
}
