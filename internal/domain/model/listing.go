package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
)

type Listing struct {
	ID              uuid.UUID           `json:"id"`
	OwnerID         int64               `json:"owner_id"`
	Title           string              `json:"title"`
	Status          enums.ListingStatus `json:"status"`
	DealStatus      enums.DealStatus    `json:"deal_status"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	ReviewerID      *int64              `json:"reviewer_id,omitempty"`
	ReviewedAt      *time.Time          `json:"reviewed_at,omitempty"`
	MediaKeys       []string            `json:"media_keys,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	DeletedAt       *time.Time          `json:"deleted_at,omitempty"`
}

// ListingStatusUpdate is a conditional write: it applies only while the stored
// status is one of FromRaw.
type ListingStatusUpdate struct {
	ID              uuid.UUID
	FromRaw         []string
	To              enums.ListingStatus
	RejectionReason *string
	ReviewerID      *int64
	ReviewedAt      *time.Time
	UpdatedAt       time.Time
}

type DealStatusUpdate struct {
	ID        uuid.UUID
	FromRaw   []string
	FromDeal  enums.DealStatus
	To        enums.DealStatus
	UpdatedAt time.Time
}

type ListingFilter struct {
	StatusesRaw []string
	OwnerID     int64
	Limit       int
}
