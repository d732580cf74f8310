package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"otledger/guard"
	"otledger/middleware"
	"otledger/models"
	"otledger/store"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	guard *guard.Guard
}

func NewAdminHandler(g *guard.Guard) *AdminHandler {
	return &AdminHandler{guard: g}
}

// parseFilter reads group_id, start_date and end_date query parameters.
// Malformed values are a client error, not something to ignore.
func parseFilter(r *http.Request) (guard.Filter, error) {
	var filter guard.Filter

	if raw := r.URL.Query().Get("group_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, &store.ValidationError{Reason: "invalid group_id"}
		}
		groupID := uint(id)
		filter.GroupID = &groupID
	}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, &store.ValidationError{Reason: "invalid start_date (expected YYYY-MM-DD)"}
		}
		filter.From = &from
	}

	if raw := r.URL.Query().Get("end_date"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, &store.ValidationError{Reason: "invalid end_date (expected YYYY-MM-DD)"}
		}
		filter.To = &to
	}

	return filter, nil
}

type summaryResponse struct {
	Summary       []store.UserSummary `json:"summary"`
	ManagedGroups []models.Group      `json:"managed_groups"`
}

// Summary is the admin panel: per-user totals across managed groups.
func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, err)
		return
	}

	summaries, managedGroups, err := h.guard.GroupSummary(identity, filter)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summaryResponse{
		Summary:       summaries,
		ManagedGroups: managedGroups,
	})
}

// Records lists individual records across managed groups.
func (h *AdminHandler) Records(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, err)
		return
	}

	records, err := h.guard.GroupRecords(identity, filter)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

type userDetailResponse struct {
	User         *models.User      `json:"user"`
	Records      []models.Overtime `json:"records"`
	TotalMinutes int               `json:"total_minutes"`
	Total        string            `json:"total"`
}

func (h *AdminHandler) UserDetail(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	user, records, total, err := h.guard.UserRecords(identity, uint(id))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, userDetailResponse{
		User:         user,
		Records:      records,
		TotalMinutes: total,
		Total:        models.FormatMinutes(total),
	})
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	users, managedGroups, err := h.guard.ManagedUsers(identity)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"users":          users,
		"managed_groups": managedGroups,
	})
}

type createUserRequest struct {
	Username        string          `json:"username"`
	Password        string          `json:"password"`
	UserType        models.UserType `json:"user_type"`
	GroupID         uint            `json:"group_id"`
	ManagedGroupIDs []uint          `json:"managed_group_ids,omitempty"`
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.UserType == "" {
		req.UserType = models.UserTypeCommon
	}

	user, err := h.guard.CreateUser(identity, req.Username, req.Password, req.UserType, req.GroupID, req.ManagedGroupIDs)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	Username        *string          `json:"username,omitempty"`
	Password        *string          `json:"password,omitempty"`
	UserType        *models.UserType `json:"user_type,omitempty"`
	GroupID         *uint            `json:"group_id,omitempty"`
	ManagedGroupIDs *[]uint          `json:"managed_group_ids,omitempty"`
}

// UpdateUser applies a partial edit: omitted fields are left unchanged.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	changes := store.UserChanges{
		Username: req.Username,
		Password: req.Password,
		UserType: req.UserType,
		GroupID:  req.GroupID,
	}
	user, err := h.guard.UpdateUser(identity, uint(id), changes, req.ManagedGroupIDs)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	if err := h.guard.DeleteUser(identity, uint(id)); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
