package dto

import (
	"time"

	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

type ComplaintResponse struct {
	ID              string     `json:"id"`
	SubjectUserID   int64      `json:"subject_user_id"`
	ComplainantID   *int64     `json:"complainant_id,omitempty"`
	Reason          string     `json:"reason"`
	Details         string     `json:"details,omitempty"`
	Status          string     `json:"status"`
	AdminNote       string     `json:"admin_note,omitempty"`
	ResolvedBy      *int64     `json:"resolved_by,omitempty"`
	ReviewStartedAt *time.Time `json:"review_started_at,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ComplaintsResponse struct {
	Items []ComplaintResponse `json:"items"`
}

type FileComplaintRequest struct {
	SubjectUserID int64  `json:"subject_user_id"`
	Reason        string `json:"reason"`
	Details       string `json:"details"`
}

func NewComplaintResponse(c model.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:              c.ID.String(),
		SubjectUserID:   c.SubjectUserID,
		ComplainantID:   c.ComplainantID,
		Reason:          c.Reason,
		Details:         c.Details,
		Status:          string(c.Status),
		AdminNote:       c.AdminNote,
		ResolvedBy:      c.ResolvedBy,
		ReviewStartedAt: c.ReviewStartedAt,
		ResolvedAt:      c.ResolvedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func NewComplaintsResponse(items []model.Complaint) ComplaintsResponse {
	out := ComplaintsResponse{Items: make([]ComplaintResponse, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, NewComplaintResponse(item))
	}
	return out
}
