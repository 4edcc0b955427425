package postgres

import (
	"context"
	"fmt"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

// StatusCounts is the primary-database fallback used when no replica DSN is
// configured. Unlike the replica query it counts every status.
func (r repo) StatusCounts(ctx context.Context, category enums.Category) ([]model.StatusCount, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var query string
	switch category {
	case enums.CategoryListings:
		query = `
SELECT status, FALSE, COUNT(*)
FROM listings
WHERE deleted_at IS NULL
GROUP BY status
`
	case enums.CategoryReports:
		query = `
SELECT status,
	COALESCE(LOWER(action_taken) = 'hide' AND decided_at IS NULL, FALSE) AS awaiting,
	COUNT(*)
FROM reports
GROUP BY status, awaiting
`
	case enums.CategoryComplaints:
		query = `
SELECT status, FALSE, COUNT(*)
FROM complaints
GROUP BY status
`
	default:
		return nil, errs.Validation("unknown queue %q", category)
	}

	rows, err := r.q.Query(ctx, query)
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
