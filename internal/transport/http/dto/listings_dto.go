package dto

import (
	"time"

	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

type ListingResponse struct {
	ID              string     `json:"id"`
	OwnerID         int64      `json:"owner_id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	DealStatus      string     `json:"deal_status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ReviewerID      *int64     `json:"reviewer_id,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	MediaCount      int        `json:"media_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ListingsResponse struct {
	Items []ListingResponse `json:"items"`
}

type RejectListingRequest struct {
	Reason string `json:"reason"`
}

type DealStatusRequest struct {
	DealStatus string `json:"deal_status"`
}

func NewListingResponse(l model.Listing) ListingResponse {
	return ListingResponse{
		ID:              l.ID.String(),
		OwnerID:         l.OwnerID,
		Title:           l.Title,
		Status:          string(l.Status),
		DealStatus:      string(l.DealStatus),
		RejectionReason: l.RejectionReason,
		ReviewerID:      l.ReviewerID,
		ReviewedAt:      l.ReviewedAt,
		MediaCount:      len(l.MediaKeys),
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func NewListingsResponse(items []model.Listing) ListingsResponse {
	out := ListingsResponse{Items: make([]ListingResponse, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, NewListingResponse(item))
	}
	return out
}
