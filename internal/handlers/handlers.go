package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"tradejournal/internal/middleware"
	"tradejournal/internal/models"
	"tradejournal/internal/validator"

	zlog "github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

var errInvalidPayload = errors.New("invalid payload")

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Rule  string `json:"rule,omitempty"`
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognised is logged and reported as a generic 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validator.Error
	var authErr *models.AuthError
	var integrity *models.IntegrityError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Field: verr.Field, Rule: verr.Rule})
	case errors.As(err, &authErr):
		status := http.StatusUnauthorized
		if authErr.Reason == models.AuthDuplicate {
			status = http.StatusConflict
		}
		respondJSON(w, status, errorResponse{Error: authErr.Message, Rule: authErr.Reason})
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.As(err, &integrity):
		zlog.Info().Err(err).Str("constraint", integrity.Constraint).Str("path", r.URL.Path).Msg("integrity conflict")
		respondError(w, http.StatusConflict, "conflicts with existing data")
	case errors.Is(err, models.ErrPasswordNotSet):
		respondError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, errInvalidPayload):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		zlog.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return errInvalidPayload
	}
	return nil
}

// currentUser reads the id Auth stored; a missing id has already been
// answered with 401.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
	}
	return userID, ok
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func pagination(r *http.Request, defaultLimit int) (int, int) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), defaultLimit)
	page := parseInt(query.Get("page"), 1)
	return limit, (page - 1) * limit
}
