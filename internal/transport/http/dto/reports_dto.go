package dto

import (
	"time"

	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

type ReportResponse struct {
	ID               string     `json:"id"`
	ListingID        string     `json:"listing_id"`
	ReasonCode       string     `json:"reason_code"`
	Details          string     `json:"details,omitempty"`
	ReporterUserID   *int64     `json:"reporter_user_id,omitempty"`
	Status           string     `json:"status"`
	ActionTaken      string     `json:"action_taken,omitempty"`
	ActionNote       string     `json:"action_note,omitempty"`
	AwaitingDecision bool       `json:"awaiting_decision"`
	ResolvedBy       *int64     `json:"resolved_by,omitempty"`
	ReviewStartedAt  *time.Time `json:"review_started_at,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	DecidedAt        *time.Time `json:"decided_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ReportsResponse struct {
	Items []ReportResponse `json:"items"`
}

type NoteRequest struct {
	Note string `json:"note"`
}

type CloseReportRequest struct {
	Action string `json:"action"`
	Note   string `json:"note"`
}

type FileReportRequest struct {
	ListingID  string `json:"listing_id"`
	ReasonCode string `json:"reason_code"`
	Details    string `json:"details"`
}

func NewReportResponse(r model.Report) ReportResponse {
	return ReportResponse{
		ID:               r.ID.String(),
		ListingID:        r.ListingID.String(),
		ReasonCode:       string(r.ReasonCode),
		Details:          r.Details,
		ReporterUserID:   r.ReporterUserID,
		Status:           string(r.Status),
		ActionTaken:      string(r.ActionTaken),
		ActionNote:       r.ActionNote,
		AwaitingDecision: r.AwaitingDecision(),
		ResolvedBy:       r.ResolvedBy,
		ReviewStartedAt:  r.ReviewStartedAt,
		ResolvedAt:       r.ResolvedAt,
		DecidedAt:        r.DecidedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func NewReportsResponse(items []model.Report) ReportsResponse {
	out := ReportsResponse{Items: make([]ReportResponse, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, NewReportResponse(item))
	}
	return out
}
