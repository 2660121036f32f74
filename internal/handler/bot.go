package handler

import (
	"net/http"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
	"github.com/mmeshcher/restaurant-backoffice/internal/notify"
)

// GetSchedule возвращает расписание работы бота.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.service.GetBotSchedule(r.Context())
	if err != nil {
		h.writeError(w, r, "get bot schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

type scheduleRequest struct {
	Schedule       model.WeekSchedule `json:"schedule"`
	IsEmergencyOff bool               `json:"isEmergencyOff"`
}

// UpdateSchedule заменяет расписание бота.
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	schedule, err := h.service.UpdateBotSchedule(r.Context(), req.Schedule, req.IsEmergencyOff)
	if err != nil {
		h.writeError(w, r, "update bot schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// SendBroadcast отправляет рассылку через сервис бота.
func (h *Handler) SendBroadcast(w http.ResponseWriter, r *http.Request) {
	var req notify.Broadcast
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SendBroadcast(r.Context(), req); err != nil {
		h.writeError(w, r, "send broadcast", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Broadcast sent successfully",
	})
}
