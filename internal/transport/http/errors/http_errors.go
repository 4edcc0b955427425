package errors

import (
	"encoding/json"
	"net/http"

	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError maps a domain error kind to a status code. Anything without a
// kind is reported as an opaque internal error.
func WriteError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	status := StatusFor(kind)
	if status == http.StatusInternalServerError {
		Write(w, status, APIError{Code: "INTERNAL_ERROR", Message: "internal server error"})
		return
	}
	Write(w, status, APIError{Code: string(kind), Message: errs.MessageOf(err)})
}

func StatusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindInvalidTransition:
		return http.StatusConflict
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindUnauthorized:
		return http.StatusUnauthorized
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
