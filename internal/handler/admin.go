package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/middleware"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login аутентифицирует администратора и выдаёт JWT.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.service.AuthenticateAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, "login admin", err)
		return
	}

	token, err := h.authMiddleware.IssueToken(admin.ID, admin.Username)
	if err != nil {
		h.logger.Error("issue token error", zap.Error(err), zap.String("admin_id", admin.ID))
		writeMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, Username: admin.Username})
}

// UpdateCredentials меняет логин и/или пароль текущего администратора.
func (h *Handler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		return
	}

	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateAdminCredentials(r.Context(), adminID, req.Username, req.Password); err != nil {
		h.writeError(w, r, "update admin credentials", err)
		return
	}

	writeMessage(w, http.StatusOK, "Credentials updated successfully")
}
