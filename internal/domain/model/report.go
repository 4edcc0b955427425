package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
)

type Report struct {
	ID              uuid.UUID           `json:"id"`
	ListingID       uuid.UUID           `json:"listing_id"`
	ReasonCode      enums.ReportReason  `json:"reason_code"`
	Details         string              `json:"details,omitempty"`
	ReporterUserID  *int64              `json:"reporter_user_id,omitempty"`
	Status          enums.CaseStatus    `json:"status"`
	ActionTaken     enums.ListingAction `json:"action_taken,omitempty"`
	ActionNote      string              `json:"action_note,omitempty"`
	ResolvedBy      *int64              `json:"resolved_by,omitempty"`
	ReviewStartedAt *time.Time          `json:"review_started_at,omitempty"`
	ResolvedAt      *time.Time          `json:"resolved_at,omitempty"`
	DecidedAt       *time.Time          `json:"decided_at,omitempty"`
	Version         int64               `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// AwaitingDecision is true for a report closed with a hide that has not yet
// received restore or deleteFinal.
func (r Report) AwaitingDecision() bool {
	return r.Status == enums.CaseStatusClosed &&
		r.ActionTaken == enums.ListingActionHide &&
		r.DecidedAt == nil
}

// CaseUpdate is a conditional write on a report or complaint. It applies only
// while the stored status is one of FromRaw and the version still matches.
type CaseUpdate struct {
	ID          uuid.UUID
	FromRaw     []string
	Version     int64
	To          enums.CaseStatus
	ActionTaken *enums.ListingAction
	Note        *string
	ResolvedBy  *int64
	ReviewStart *time.Time
	ResolvedAt  *time.Time
	DecidedAt   *time.Time
	UpdatedAt   time.Time
}

type CaseFilter struct {
	StatusesRaw []string
	ListingID   *uuid.UUID
	Limit       int
}
