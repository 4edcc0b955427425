package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	reportsvc "github.com/ivankudzin/estate-backoffice/internal/services/reports"
	"github.com/ivankudzin/estate-backoffice/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/estate-backoffice/internal/transport/http/errors"
)

type ComplaintsHandler struct {
	service *reportsvc.Service
}

func NewComplaintsHandler(service *reportsvc.Service) *ComplaintsHandler {
	return &ComplaintsHandler{service: service}
}

func (h *ComplaintsHandler) List(w http.ResponseWriter, r *http.Request) {
	operator, ok := requireOperator(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "COMPLAINTS_SERVICE_UNAVAILABLE", "complaints service is unavailable")
		return
	}
	limit, ok := queryLimit(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid limit")
		return
	}

	items, err := h.service.ListComplaints(r.Context(), operator, reportsvc.ListInput{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewComplaintsResponse(items))
}

func (h *ComplaintsHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(ctx context.Context, operator model.Operator, id uuid.UUID, _ string) (model.Complaint, error) {
		return h.service.GetComplaint(ctx, operator, id)
	})
}

func (h *ComplaintsHandler) Review(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(ctx context.Context, operator model.Operator, id uuid.UUID, _ string) (model.Complaint, error) {
		return h.service.StartComplaintReview(ctx, operator, id)
	})
}

func (h *ComplaintsHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.DismissComplaint)
}

func (h *ComplaintsHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.CloseComplaint)
}

func (h *ComplaintsHandler) run(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, operator model.Operator, id uuid.UUID, note string) (model.Complaint, error),
) {
	operator, ok := requireOperator(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "COMPLAINTS_SERVICE_UNAVAILABLE", "complaints service is unavailable")
		return
	}
	id, ok := uuidParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid complaint id")
		return
	}
	var req dto.NoteRequest
	if r.Method != http.MethodGet {
		if err := decodeOptionalJSON(r, &req); err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
			return
		}
	}

	complaint, err := op(r.Context(), operator, id, req.Note)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewComplaintResponse(complaint))
}
