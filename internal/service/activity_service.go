package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"

	"cutroom/internal/api/v1/dto"
	"cutroom/internal/model"
	"cutroom/internal/pubsub"
	"cutroom/internal/repository"

	"github.com/rs/zerolog"
)

// ErrMalformedEvent marks push messages that can never be recorded.
var ErrMalformedEvent = errors.New("malformed track event")

// ActivityService records track events delivered by the push subscription.
type ActivityService interface {
	ProcessPush(ctx context.Context, req *dto.PubSubPushRequest) error
}

type activityService struct {
	repo   repository.ActivityRepository
	logger zerolog.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(repo repository.ActivityRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("service", "ActivityService").Logger(),
	}
}

// ProcessPush decodes a pushed TrackEvent and stores it in the project's activity feed.
func (s *activityService) ProcessPush(ctx context.Context, req *dto.PubSubPushRequest) error {
	payload, err := base64.StdEncoding.DecodeString(req.Message.Data)
	if err != nil {
		s.logger.Warn().Err(err).Str("message_id", req.Message.MessageID).Msg("Failed to decode track event payload")
		return ErrMalformedEvent
	}
	var event pubsub.TrackEvent
	if err := json.Unmarshal(payload, &event); err != nil || event.ProjectID == "" || event.Type == "" {
		s.logger.Warn().Err(err).Str("message_id", req.Message.MessageID).Msg("Track event is missing required fields")
		return ErrMalformedEvent
	}

	activity := &model.ProjectActivity{
		ProjectID: event.ProjectID,
		TrackID:   event.TrackID,
		EventType: event.Type,
		MessageID: req.Message.MessageID,
		Payload:   payload,
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		s.logger.Error().Err(err).Str("project_id", event.ProjectID).Msg("Failed to save project activity")
		return err
	}
	return nil
}
