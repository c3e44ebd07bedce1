package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"cutroom/internal/api/v1/dto"
	"cutroom/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ActivityHandler receives track events from the Pub/Sub push subscription.
type ActivityHandler struct {
	activityService service.ActivityService
	validate        *validator.Validate
	logger          zerolog.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService service.ActivityService, validate *validator.Validate, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, validate: validate, logger: logger}
}

// RegisterRoutes registers the push endpoint behind pubsubAuthMw.
func (h *ActivityHandler) RegisterRoutes(mux *http.ServeMux, pubsubAuthMw func(http.Handler) http.Handler) {
	mux.Handle("POST /activity/push", pubsubAuthMw(http.HandlerFunc(h.handlePush)))
}

// handlePush godoc
// @Summary Record a track event
// @Description Push endpoint for the track events subscription. Any decodable envelope is acknowledged, including events that cannot be recorded.
// @Tags activity
// @Accept json
// @Param message body dto.PubSubPushRequest true "Pub/Sub push message"
// @Success 204 {string} string "No Content"
// @Failure 400 {string} string "Undecodable envelope"
// @Failure 500 {string} string "Internal server error"
// @Router /activity/push [post]
func (h *ActivityHandler) handlePush(w http.ResponseWriter, r *http.Request) {
	var req dto.PubSubPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode Pub/Sub push request")
		http.Error(w, "Bad Request: could not decode message", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.Error().Err(err).Msg("Invalid Pub/Sub push request")
		http.Error(w, "Bad Request: invalid message", http.StatusBadRequest)
		return
	}

	if err := h.activityService.ProcessPush(r.Context(), &req); err != nil {
		if errors.Is(err, service.ErrMalformedEvent) {
			// ack so the message is not redelivered
			w.WriteHeader(http.StatusNoContent)
			return
		}
		// non-2xx makes Pub/Sub retry
		h.logger.Error().Err(err).Str("message_id", req.Message.MessageID).Msg("Failed to record track event")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
