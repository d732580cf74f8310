package handlers

import (
	"encoding/json"
	"net/http"

	"otledger/audit"
	"otledger/auth"
	"otledger/config"
	"otledger/middleware"
	"otledger/models"
)

type AuthHandler struct {
	config *config.Config
	auth   *auth.Service
	audit  *audit.Logger
}

func NewAuthHandler(cfg *config.Config, svc *auth.Service, auditLog *audit.Logger) *AuthHandler {
	return &AuthHandler{config: cfg, auth: svc, audit: auditLog}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string          `json:"token"`
	UserID   uint            `json:"user_id"`
	Username string          `json:"username"`
	Role     models.UserType `json:"role"`
	GroupID  uint            `json:"group_id"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	identity, err := h.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := middleware.GenerateToken(identity, h.config.JWTExpiration)
	if err != nil {
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.config.JWTExpiration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, http.StatusOK, loginResponse{
		Token:    token,
		UserID:   identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
		GroupID:  identity.GroupID,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		h.audit.Logout(identity.UserID, identity.Username)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.auth.ChangePassword(identity, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}
