package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UpdateAnalytics пересчитывает аналитику по запросу администратора.
func (h *Handler) UpdateAnalytics(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.RecomputeAnalytics(r.Context())
	if err != nil {
		h.writeError(w, r, "recompute analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// GetDashboard возвращает последний снимок аналитики.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.GetDashboard(r.Context())
	if err != nil {
		h.writeError(w, r, "get dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// ExportDashboard отдаёт снимок аналитики файлом XLSX.
func (h *Handler) ExportDashboard(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportDashboard(r.Context(), &buf); err != nil {
		h.writeError(w, r, "export dashboard", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("write export response", zap.Error(err))
	}
}
