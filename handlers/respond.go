package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"otledger/auth"
	"otledger/guard"
	"otledger/store"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

// respondError maps the domain error taxonomy onto HTTP statuses. Anything
// unrecognized is a 500: storage failures must never look like an empty,
// authorized result.
func respondError(w http.ResponseWriter, err error) {
	var validation *store.ValidationError
	switch {
	case errors.As(err, &validation):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Reason})
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid username or password"})
	case errors.Is(err, guard.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "access denied"})
	case errors.Is(err, store.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, store.ErrUsernameTaken):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "username already exists"})
	case errors.Is(err, store.ErrAlreadyAssigned):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "assignment already exists"})
	default:
		log.WithError(err).Error("request failed")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
