package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"cutroom/internal/middleware"
	"cutroom/internal/repository"
	"cutroom/internal/review"
	"cutroom/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes a 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps service errors to HTTP responses. Resources owned by someone
// else are reported as missing.
func writeError(w http.ResponseWriter, err error, notFound string, logger zerolog.Logger) {
	var qe *service.QuotaError
	switch {
	case errors.As(err, &qe):
		writeJSON(w, http.StatusUnprocessableEntity, qe.Result, logger)
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrForbidden):
		http.Error(w, notFound, http.StatusNotFound)
	case errors.Is(err, review.ErrInvalidDecision), errors.Is(err, service.ErrStepOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, review.ErrDecisionNotActionable),
		errors.Is(err, review.ErrRoundInProgress),
		errors.Is(err, service.ErrNotUploading),
		errors.Is(err, service.ErrMediaNotReady),
		errors.Is(err, service.ErrStepMalformed),
		errors.Is(err, service.ErrUploadMissing):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logger.Error().Err(err).Msg("request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
	}
	return userID, ok
}

// pathID returns the named path value if it is a UUID. Anything else cannot
// name a row, so it is answered with notFound.
func pathID(w http.ResponseWriter, r *http.Request, name, notFound string) (string, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		http.Error(w, notFound, http.StatusNotFound)
		return "", false
	}
	return id.String(), true
}
