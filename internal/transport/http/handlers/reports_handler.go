package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	reportsvc "github.com/ivankudzin/estate-backoffice/internal/services/reports"
	"github.com/ivankudzin/estate-backoffice/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/estate-backoffice/internal/transport/http/errors"
)

type ReportsHandler struct {
	service *reportsvc.Service
}

func NewReportsHandler(service *reportsvc.Service) *ReportsHandler {
	return &ReportsHandler{service: service}
}

func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	operator, ok := requireOperator(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "REPORTS_SERVICE_UNAVAILABLE", "reports service is unavailable")
		return
	}
	limit, ok := queryLimit(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid limit")
		return
	}

	in := reportsvc.ListInput{Status: r.URL.Query().Get("status"), Limit: limit}
	if raw := strings.TrimSpace(r.URL.Query().Get("listing_id")); raw != "" {
		listingID, err := uuid.Parse(raw)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid listing_id")
			return
		}
		in.ListingID = &listingID
	}

	items, err := h.service.ListReports(r.Context(), operator, in)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewReportsResponse(items))
}

func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(ctx context.Context, operator model.Operator, id uuid.UUID, _ dto.CloseReportRequest) (model.Report, error) {
		return h.service.GetReport(ctx, operator, id)
	})
}

func (h *ReportsHandler) Review(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(ctx context.Context, operator model.Operator, id uuid.UUID, _ dto.CloseReportRequest) (model.Report, error) {
		return h.service.StartReview(ctx, operator, id)
	})
}

func (h *ReportsHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(ctx context.Context, operator model.Operator, id uuid.UUID, req dto.CloseReportRequest) (model.Report, error) {
		return h.service.Dismiss(ctx, operator, id, req.Note)
	})
}

// Close takes an optional listing action: none, hide or delete.
func (h *ReportsHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(ctx context.Context, operator model.Operator, id uuid.UUID, req dto.CloseReportRequest) (model.Report, error) {
		action := enums.ListingAction(strings.ToLower(strings.TrimSpace(req.Action)))
		if action == "" {
			action = enums.ListingActionNone
		}
		return h.service.Close(ctx, operator, id, action, req.Note)
	})
}

func (h *ReportsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(ctx context.Context, operator model.Operator, id uuid.UUID, req dto.CloseReportRequest) (model.Report, error) {
		return h.service.Restore(ctx, operator, id, req.Note)
	})
}

func (h *ReportsHandler) DeleteFinal(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(ctx context.Context, operator model.Operator, id uuid.UUID, req dto.CloseReportRequest) (model.Report, error) {
		return h.service.DeleteFinal(ctx, operator, id, req.Note)
	})
}

func (h *ReportsHandler) run(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, operator model.Operator, id uuid.UUID, req dto.CloseReportRequest) (model.Report, error),
) {
	operator, ok := requireOperator(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "REPORTS_SERVICE_UNAVAILABLE", "reports service is unavailable")
		return
	}
	id, ok := uuidParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}
	var req dto.CloseReportRequest
	if r.Method != http.MethodGet {
		if err := decodeOptionalJSON(r, &req); err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
			return
		}
	}

	report, err := op(r.Context(), operator, id, req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewReportResponse(report))
}
