package dto

import (
	"time"

	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

type CountsResponse struct {
	Queues map[string]model.QueueCounts `json:"queues"`
}

type AuditEntryResponse struct {
	ID         string    `json:"id"`
	ActorID    int64     `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type AuditResponse struct {
	Items []AuditEntryResponse `json:"items"`
}

type StrikesResponse struct {
	OwnerID int64          `json:"owner_id"`
	Count   int            `json:"count"`
	Items   []model.Strike `json:"items"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

func NewCountsResponse(counts model.Counts) CountsResponse {
	out := CountsResponse{Queues: make(map[string]model.QueueCounts, len(counts))}
	for category, value := range counts {
		out.Queues[string(category)] = value
	}
	return out
}

func NewAuditResponse(entries []model.AuditEntry) AuditResponse {
	out := AuditResponse{Items: make([]AuditEntryResponse, 0, len(entries))}
	for _, e := range entries {
		out.Items = append(out.Items, AuditEntryResponse{
			ID:         e.ID.String(),
			ActorID:    e.ActorID,
			ActorRole:  string(e.ActorRole),
			Action:     string(e.Action),
			EntityType: string(e.EntityType),
			EntityID:   e.EntityID.String(),
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Note:       e.Note,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}
