package postgres

import (
	"context"
	"fmt"

	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

func (r repo) InsertStrike(ctx context.Context, strike model.Strike) error {
	if err := r.ready(); err != nil {
		return err
	}

	if _, err := r.q.Exec(ctx, `
INSERT INTO owner_strikes (
	id,
	owner_id,
	listing_id,
	report_id,
	note,
	actor_id,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
`, strike.ID, strike.OwnerID, strike.ListingID, strike.ReportID, strike.Note, strike.ActorID, strike.CreatedAt); err != nil {
		return fmt.Errorf("insert strike: %w", err)
	}
	return nil
}

func (r repo) ListStrikes(ctx context.Context, ownerID int64) ([]model.Strike, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, `
SELECT id, owner_id, listing_id, report_id, note, actor_id, created_at
FROM owner_strikes
WHERE owner_id = $1
ORDER BY created_at DESC
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list strikes: %w", err)
	}
	defer rows.Close()

	out := make([]model.Strike, 0)
	for rows.Next() {
		var strike model.Strike
		if err := rows.Scan(
			&strike.ID,
			&strike.OwnerID,
			&strike.ListingID,
			&strike.ReportID,
			&strike.Note,
			&strike.ActorID,
			&strike.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan strike: %w", err)
		}
		out = append(out, strike)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strikes: %w", err)
	}
	return out, nil
}
