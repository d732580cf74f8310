package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"otledger/guard"
	"otledger/middleware"
	"otledger/models"

	"github.com/go-chi/chi/v5"
)

type OvertimeHandler struct {
	guard *guard.Guard
}

func NewOvertimeHandler(g *guard.Guard) *OvertimeHandler {
	return &OvertimeHandler{guard: g}
}

type dashboardResponse struct {
	Records      []models.Overtime `json:"records"`
	TotalMinutes int               `json:"total_minutes"`
	Total        string            `json:"total"`
}

// List serves the dashboard: the caller's own records, newest first, with
// the derived total.
func (h *OvertimeHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	records, total, err := h.guard.OwnRecords(identity)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dashboardResponse{
		Records:      records,
		TotalMinutes: total,
		Total:        models.FormatMinutes(total),
	})
}

type createOvertimeRequest struct {
	Date        string `json:"date"`
	Minutes     int    `json:"minutes"`
	Description string `json:"description"`
}

func (h *OvertimeHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req createOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date format (expected YYYY-MM-DD)"})
		return
	}

	record, err := h.guard.AddRecord(identity, date, req.Minutes, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, record)
}

func (h *OvertimeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid record id"})
		return
	}

	if err := h.guard.RemoveRecord(identity, uint(id)); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
