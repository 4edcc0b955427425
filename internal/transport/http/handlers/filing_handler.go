package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	authsvc "github.com/ivankudzin/estate-backoffice/internal/services/auth"
	reportsvc "github.com/ivankudzin/estate-backoffice/internal/services/reports"
	"github.com/ivankudzin/estate-backoffice/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/estate-backoffice/internal/transport/http/errors"
)

// FilingHandler accepts reports and complaints from marketplace users. A
// bearer token is optional; anonymous filings carry no reporter id.
type FilingHandler struct {
	service *reportsvc.Service
}

func NewFilingHandler(service *reportsvc.Service) *FilingHandler {
	return &FilingHandler{service: service}
}

func (h *FilingHandler) FileReport(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "REPORTS_SERVICE_UNAVAILABLE", "reports service is unavailable")
		return
	}

	var req dto.FileReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	listingID, err := uuid.Parse(strings.TrimSpace(req.ListingID))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid listing_id")
		return
	}

	in := reportsvc.FileReportInput{
		ListingID:  listingID,
		ReasonCode: req.ReasonCode,
		Details:    req.Details,
	}
	if userID, ok := authsvc.ReporterFromContext(r.Context()); ok {
		in.ReporterUserID = &userID
	}

	report, err := h.service.FileReport(r.Context(), in)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, dto.NewReportResponse(report))
}

func (h *FilingHandler) FileComplaint(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "REPORTS_SERVICE_UNAVAILABLE", "reports service is unavailable")
		return
	}

	var req dto.FileComplaintRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	in := reportsvc.FileComplaintInput{
		SubjectUserID: req.SubjectUserID,
		Reason:        req.Reason,
		Details:       req.Details,
	}
	if userID, ok := authsvc.ReporterFromContext(r.Context()); ok {
		in.ComplainantID = &userID
	}

	complaint, err := h.service.FileComplaint(r.Context(), in)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, dto.NewComplaintResponse(complaint))
}
