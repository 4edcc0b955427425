package replica

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/domain/rules"
)

// CountsRepo runs the dashboard aggregation against a replica. Results may lag
// the primary by replication delay, which the counters tolerate.
type CountsRepo struct {
	db *sql.DB
}

func NewCountsRepo(db *sql.DB) *CountsRepo {
	return &CountsRepo{db: db}
}

func (r *CountsRepo) StatusCounts(ctx context.Context, category enums.Category) ([]model.StatusCount, error) {
	if r.db == nil {
		return nil, fmt.Errorf("replica db is nil")
	}

	var (
		query    string
		statuses []string
	)
	switch category {
	case enums.CategoryListings:
		query = `
			SELECT status, FALSE, COUNT(*)
			FROM listings
			WHERE deleted_at IS NULL
			  AND LOWER(TRIM(status)) = ANY($1)
			GROUP BY status
		`
		statuses = rules.ListingAliases(enums.ListingStatusPending, enums.ListingStatusInReview)
	case enums.CategoryReports:
		query = `
			SELECT status,
			       COALESCE(LOWER(action_taken) = 'hide' AND decided_at IS NULL, FALSE) AS awaiting,
			       COUNT(*)
			FROM reports
			WHERE LOWER(TRIM(status)) = ANY($1)
			GROUP BY status, awaiting
		`
		statuses = rules.CaseAliases(enums.CaseStatusNew, enums.CaseStatusInReview, enums.CaseStatusClosed)
	case enums.CategoryComplaints:
		query = `
			SELECT status, FALSE, COUNT(*)
			FROM complaints
			WHERE LOWER(TRIM(status)) = ANY($1)
			GROUP BY status
		`
		statuses = rules.CaseAliases(enums.CaseStatusNew, enums.CaseStatusInReview)
	default:
		return nil, errs.Validation("unknown queue %q", category)
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("count %s by status: %w", category, err)
	}
	defer rows.Close()

	out := make([]model.StatusCount, 0, 8)
	for rows.Next() {
		var row model.StatusCount
		if err := rows.Scan(&row.Status, &row.AwaitingDecision, &row.Count); err != nil {
			return nil, fmt.Errorf("scan %s count: %w", category, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s counts: %w", category, err)
	}
	return out, nil
}
