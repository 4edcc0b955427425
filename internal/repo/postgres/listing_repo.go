package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/domain/rules"
)

const listingColumns = `
	id,
	owner_id,
	title,
	status,
	deal_status,
	rejection_reason,
	reviewer_id,
	reviewed_at,
	media_keys,
	created_at,
	updated_at,
	deleted_at
`

func (r repo) GetListing(ctx context.Context, id uuid.UUID) (model.Listing, error) {
	if err := r.ready(); err != nil {
		return model.Listing{}, err
	}

	listing, err := scanListing(r.q.QueryRow(ctx, `
SELECT `+listingColumns+`
FROM listings
WHERE id = $1
  AND deleted_at IS NULL
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Listing{}, errs.NotFound("listing %s not found", id)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return listing, nil
}

func (r repo) ListListings(ctx context.Context, filter model.ListingFilter) ([]model.Listing, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	args := []any{}
	where := []string{"deleted_at IS NULL"}
	if len(filter.StatusesRaw) > 0 {
		args = append(args, filter.StatusesRaw)
		where = append(where, fmt.Sprintf("LOWER(TRIM(status)) = ANY($%d)", len(args)))
	}
	if filter.OwnerID > 0 {
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	args = append(args, filter.Limit)

	rows, err := r.q.Query(ctx, `
SELECT `+listingColumns+`
FROM listings
WHERE `+strings.Join(where, " AND ")+`
ORDER BY created_at DESC, id DESC
LIMIT $`+fmt.Sprint(len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	out := make([]model.Listing, 0, filter.Limit)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		out = append(out, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return out, nil
}

func (r repo) UpdateListingStatus(ctx context.Context, upd model.ListingStatusUpdate) (model.Listing, error) {
	if err := r.ready(); err != nil {
		return model.Listing{}, err
	}

	listing, err := scanListing(r.q.QueryRow(ctx, `
UPDATE listings
SET status = $3,
	rejection_reason = COALESCE($4, rejection_reason),
	reviewer_id = COALESCE($5, reviewer_id),
	reviewed_at = COALESCE($6, reviewed_at),
	updated_at = $7
WHERE id = $1
  AND deleted_at IS NULL
  AND LOWER(TRIM(status)) = ANY($2)
RETURNING `+listingColumns, upd.ID, upd.FromRaw, string(upd.To), upd.RejectionReason, upd.ReviewerID, upd.ReviewedAt, upd.UpdatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Listing{}, r.classifyListingMiss(ctx, upd.ID)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("update listing status: %w", err)
	}
	return listing, nil
}

func (r repo) TombstoneListing(ctx context.Context, id uuid.UUID, fromRaw []string, at time.Time) (model.Listing, error) {
	if err := r.ready(); err != nil {
		return model.Listing{}, err
	}

	listing, err := scanListing(r.q.QueryRow(ctx, `
UPDATE listings
SET deleted_at = $3,
	updated_at = $3
WHERE id = $1
  AND deleted_at IS NULL
  AND LOWER(TRIM(status)) = ANY($2)
RETURNING `+listingColumns, id, fromRaw, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Listing{}, r.classifyListingMiss(ctx, id)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("tombstone listing: %w", err)
	}
	return listing, nil
}

func (r repo) UpdateDealStatus(ctx context.Context, upd model.DealStatusUpdate) (model.Listing, error) {
	if err := r.ready(); err != nil {
		return model.Listing{}, err
	}

	listing, err := scanListing(r.q.QueryRow(ctx, `
UPDATE listings
SET deal_status = $4,
	updated_at = $5
WHERE id = $1
  AND deleted_at IS NULL
  AND LOWER(TRIM(status)) = ANY($2)
  AND LOWER(deal_status) = $3
RETURNING `+listingColumns, upd.ID, upd.FromRaw, string(upd.FromDeal), string(upd.To), upd.UpdatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Listing{}, r.classifyListingMiss(ctx, upd.ID)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("update deal status: %w", err)
	}
	return listing, nil
}

// classifyListingMiss tells a vanished listing apart from a lost race after a
// conditional update matched no row.
func (r repo) classifyListingMiss(ctx context.Context, id uuid.UUID) error {
	var live bool
	err := r.q.QueryRow(ctx, `SELECT deleted_at IS NULL FROM listings WHERE id = $1`, id).Scan(&live)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && !live) {
		return errs.NotFound("listing %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("check listing: %w", err)
	}
	return errs.InvalidTransition("listing %s status changed concurrently", id)
}

func scanListing(row pgx.Row) (model.Listing, error) {
	var (
		listing    model.Listing
		status     string
		dealStatus string
	)
	if err := row.Scan(
		&listing.ID,
		&listing.OwnerID,
		&listing.Title,
		&status,
		&dealStatus,
		&listing.RejectionReason,
		&listing.ReviewerID,
		&listing.ReviewedAt,
		&listing.MediaKeys,
		&listing.CreatedAt,
		&listing.UpdatedAt,
		&listing.DeletedAt,
	); err != nil {
		return model.Listing{}, err
	}
	listing.Status = rules.NormalizeListingStatus(status)
	listing.DealStatus = enums.DealStatus(strings.ToLower(strings.TrimSpace(dealStatus)))
	return listing, nil
}
