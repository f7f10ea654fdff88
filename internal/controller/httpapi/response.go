package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"officehours/internal/apperror"
	"officehours/internal/service"
)

// Every response carries a status discriminator; successes add a data
// payload, failures a human-readable message and, for validation, a list
// of per-field problems.
type envelope struct {
	Status  string               `json:"status"`
	Message string               `json:"message,omitempty"`
	Count   *int                 `json:"count,omitempty"`
	Data    any                  `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, envelope{Status: "success", Message: message, Data: data})
}

func writeSuccessCount(w http.ResponseWriter, count int, data any) {
	writeJSON(w, http.StatusOK, envelope{Status: "success", Count: &count, Data: data})
}

func writeFail(w http.ResponseWriter, code int, message string, fields ...apperror.FieldError) {
	writeJSON(w, code, envelope{Status: "error", Message: message, Errors: fields})
}

// writeError maps the service error taxonomy to HTTP statuses. Unknown
// errors are logged and surfaced as a generic failure without detail.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == service.ErrInvalidCredentials {
		writeFail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind == apperror.KindInternal {
		h.logger.Error("Request failed", zap.Error(err))
		writeFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch appErr.Kind {
	case apperror.KindValidation:
		writeFail(w, http.StatusBadRequest, appErr.Message, appErr.Fields...)
	case apperror.KindPolicy:
		writeFail(w, http.StatusBadRequest, appErr.Message)
	case apperror.KindConflict:
		writeFail(w, http.StatusConflict, appErr.Message)
	case apperror.KindNotFound:
		writeFail(w, http.StatusNotFound, appErr.Message)
	default:
		h.logger.Error("Request failed", zap.Error(err))
		writeFail(w, http.StatusInternalServerError, "Internal server error")
	}
}
