package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/notify"
	"github.com/mmeshcher/restaurant-backoffice/internal/repository"
	"github.com/mmeshcher/restaurant-backoffice/internal/service"
	"github.com/mmeshcher/restaurant-backoffice/internal/validation"
)

type errorResponse struct {
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeError переводит ошибку сервиса в HTTP-ответ.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if verr, ok := validation.IsError(err); ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: verr.Message, Errors: verr.Fields})
		return
	}

	switch {
	case errors.Is(err, service.ErrMalformedID):
		writeMessage(w, http.StatusBadRequest, "Invalid identifier")
	case errors.Is(err, repository.ErrOrderNotFound):
		writeMessage(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, repository.ErrSnapshotNotFound):
		writeMessage(w, http.StatusNotFound, "Analytics data not found")
	case errors.Is(err, repository.ErrMenuItemNotFound):
		writeMessage(w, http.StatusNotFound, "Menu item not found")
	case errors.Is(err, repository.ErrScheduleNotFound):
		writeMessage(w, http.StatusNotFound, "Schedule not found")
	case errors.Is(err, repository.ErrAdminNotFound):
		writeMessage(w, http.StatusNotFound, "Admin not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, repository.ErrAdminExists):
		writeMessage(w, http.StatusConflict, "Username already taken")
	case errors.Is(err, notify.ErrNotConfigured), errors.Is(err, service.ErrAnalyticsUnavailable):
		h.logger.Error(op+" error", zap.Error(err), zap.String("path", r.URL.Path))
		writeMessage(w, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
	case errors.Is(err, notify.ErrUpstream):
		h.logger.Error(op+" error", zap.Error(err), zap.String("path", r.URL.Path))
		writeMessage(w, http.StatusBadGateway, "Bot service request failed")
	default:
		h.logger.Error(op+" error", zap.Error(err), zap.String("path", r.URL.Path))
		writeMessage(w, http.StatusInternalServerError, "Server Error")
	}
}

// decodeJSON читает тело запроса; при ошибке сразу отвечает 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
