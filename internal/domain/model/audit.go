package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
)

type AuditEntry struct {
	ID         uuid.UUID        `json:"id"`
	ActorID    int64            `json:"actor_id"`
	ActorRole  enums.Role       `json:"actor_role"`
	Action     enums.Action     `json:"action"`
	EntityType enums.EntityType `json:"entity_type"`
	EntityID   uuid.UUID        `json:"entity_id"`
	FromStatus string           `json:"from_status"`
	ToStatus   string           `json:"to_status"`
	Note       string           `json:"note,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

type Strike struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	ListingID uuid.UUID `json:"listing_id"`
	ReportID  uuid.UUID `json:"report_id"`
	Note      string    `json:"note,omitempty"`
	ActorID   int64     `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}
