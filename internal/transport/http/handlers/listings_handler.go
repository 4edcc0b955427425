package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	listingsvc "github.com/ivankudzin/estate-backoffice/internal/services/listings"
	"github.com/ivankudzin/estate-backoffice/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/estate-backoffice/internal/transport/http/errors"
)

type ListingsHandler struct {
	service *listingsvc.Service
}

func NewListingsHandler(service *listingsvc.Service) *ListingsHandler {
	return &ListingsHandler{service: service}
}

func (h *ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	operator, ok := requireOperator(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "LISTINGS_SERVICE_UNAVAILABLE", "listings service is unavailable")
		return
	}
	limit, ok := queryLimit(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid limit")
		return
	}

	var ownerID int64
	if raw := strings.TrimSpace(r.URL.Query().Get("owner_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid owner_id")
			return
		}
		ownerID = parsed
	}

	items, err := h.service.List(r.Context(), operator, listingsvc.ListInput{
		Status:  r.URL.Query().Get("status"),
		OwnerID: ownerID,
		Limit:   limit,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewListingsResponse(items))
}

func (h *ListingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Get)
}

func (h *ListingsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Approve)
}

func (h *ListingsHandler) Review(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.MarkInReview)
}

func (h *ListingsHandler) Hide(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Hide)
}

func (h *ListingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Show)
}

func (h *ListingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Delete)
}

func (h *ListingsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req dto.RejectListingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	h.run(w, r, func(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Listing, error) {
		return h.service.Reject(ctx, operator, id, req.Reason)
	})
}

func (h *ListingsHandler) SetDealStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.DealStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	to := enums.DealStatus(strings.ToLower(strings.TrimSpace(req.DealStatus)))
	h.run(w, r, func(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Listing, error) {
		return h.service.SetDealStatus(ctx, operator, id, to)
	})
}

func (h *ListingsHandler) run(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, operator model.Operator, id uuid.UUID) (model.Listing, error),
) {
	operator, ok := requireOperator(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "LISTINGS_SERVICE_UNAVAILABLE", "listings service is unavailable")
		return
	}
	id, ok := uuidParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid listing id")
		return
	}

	listing, err := op(r.Context(), operator, id)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewListingResponse(listing))
}
