package handlers

import (
	"net/http"

	auditsvc "github.com/ivankudzin/estate-backoffice/internal/services/audit"
	countersvc "github.com/ivankudzin/estate-backoffice/internal/services/counters"
	"github.com/ivankudzin/estate-backoffice/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/estate-backoffice/internal/transport/http/errors"
)

type DashboardHandler struct {
	counters *countersvc.Service
	audit    *auditsvc.Service
}

func NewDashboardHandler(counters *countersvc.Service, audit *auditsvc.Service) *DashboardHandler {
	return &DashboardHandler{counters: counters, audit: audit}
}

func (h *DashboardHandler) Counts(w http.ResponseWriter, r *http.Request) {
	operator, ok := requireOperator(w, r)
	if !ok {
		return
	}
	if h.counters == nil {
		writeInternal(w, "COUNTERS_SERVICE_UNAVAILABLE", "counters service is unavailable")
		return
	}

	counts, err := h.counters.CountsFor(r.Context(), operator)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewCountsResponse(counts))
}

func (h *DashboardHandler) Audit(w http.ResponseWriter, r *http.Request) {
	operator, ok := requireOperator(w, r)
	if !ok {
		return
	}
	if h.audit == nil {
		writeInternal(w, "AUDIT_SERVICE_UNAVAILABLE", "audit service is unavailable")
		return
	}
	limit, ok := queryLimit(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid limit")
		return
	}

	entries, err := h.audit.Recent(r.Context(), operator, limit)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewAuditResponse(entries))
}

func (h *DashboardHandler) OwnerStrikes(w http.ResponseWriter, r *http.Request) {
	operator, ok := requireOperator(w, r)
	if !ok {
		return
	}
	if h.audit == nil {
		writeInternal(w, "AUDIT_SERVICE_UNAVAILABLE", "audit service is unavailable")
		return
	}
	ownerID, ok := int64Param(r, "ownerID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid owner id")
		return
	}

	strikes, err := h.audit.OwnerStrikes(r.Context(), operator, ownerID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.StrikesResponse{OwnerID: ownerID, Count: len(strikes), Items: strikes})
}

func Healthz(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, dto.HealthResponse{OK: true})
}
