package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
)

type Complaint struct {
	ID              uuid.UUID        `json:"id"`
	SubjectUserID   int64            `json:"subject_user_id"`
	ComplainantID   *int64           `json:"complainant_id,omitempty"`
	Reason          string           `json:"reason"`
	Details         string           `json:"details,omitempty"`
	Status          enums.CaseStatus `json:"status"`
	AdminNote       string           `json:"admin_note,omitempty"`
	ResolvedBy      *int64           `json:"resolved_by,omitempty"`
	ReviewStartedAt *time.Time       `json:"review_started_at,omitempty"`
	ResolvedAt      *time.Time       `json:"resolved_at,omitempty"`
	Version         int64            `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
