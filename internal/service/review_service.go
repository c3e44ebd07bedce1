package service

import (
	"context"
	"fmt"
	"time"

	"cutroom/internal/model"
	"cutroom/internal/pubsub"
	"cutroom/internal/repository"
	"cutroom/internal/review"

	"github.com/rs/zerolog"
)

// ProjectReview is a project's rounds with the derived state of the latest one.
type ProjectReview struct {
	Project *model.Project
	Tracks  []*model.ProjectTrack
	Latest  *model.ProjectTrack
	Summary review.Summary
}

// StepUpdate carries the editable fields of a step. Nil fields are left unchanged.
type StepUpdate struct {
	Status          *model.StepStatus
	DeliverableLink *string
	Note            *string
}

// ReviewService drives revision rounds: opening rounds, progressing steps and
// recording client decisions.
type ReviewService interface {
	GetProjectReview(ctx context.Context, projectID, userID string) (*ProjectReview, error)
	OpenRound(ctx context.Context, projectID, userID string, steps model.Steps) (*model.ProjectTrack, error)
	UpdateStep(ctx context.Context, trackID, userID string, index int, upd StepUpdate) (*model.ProjectTrack, error)
	SubmitDecision(ctx context.Context, trackID, actorID string, decision model.ClientDecision) (*model.ProjectTrack, error)
}

type reviewService struct {
	projects   repository.ProjectRepository
	tracks     repository.TrackRepository
	publisher  pubsub.Publisher
	trackTopic string
	now        func() time.Time
	logger     zerolog.Logger
}

// NewReviewService creates a new ReviewService with a scoped logger.
func NewReviewService(
	projects repository.ProjectRepository,
	tracks repository.TrackRepository,
	publisher pubsub.Publisher,
	trackTopic string,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		projects:   projects,
		tracks:     tracks,
		publisher:  publisher,
		trackTopic: trackTopic,
		now:        time.Now,
		logger:     logger.With().Str("service", "ReviewService").Logger(),
	}
}

func (s *reviewService) GetProjectReview(ctx context.Context, projectID, userID string) (*ProjectReview, error) {
	project, err := ownedProject(ctx, s.projects, projectID, userID)
	if err != nil {
		return nil, err
	}
	tracks, err := s.tracks.ListTracksByProject(ctx, projectID)
	if err != nil {
		s.logger.Error().Err(err).Str("project_id", projectID).Msg("Failed to list project tracks")
		return nil, err
	}
	latest := review.SelectLatestTrack(tracks)
	return &ProjectReview{
		Project: project,
		Tracks:  tracks,
		Latest:  latest,
		Summary: review.Summarize(latest),
	}, nil
}

// OpenRound starts the next revision round. Without explicit steps the previous
// round's steps are carried over as pending.
func (s *reviewService) OpenRound(ctx context.Context, projectID, userID string, steps model.Steps) (*model.ProjectTrack, error) {
	if _, err := ownedProject(ctx, s.projects, projectID, userID); err != nil {
		return nil, err
	}
	tracks, err := s.tracks.ListTracksByProject(ctx, projectID)
	if err != nil {
		s.logger.Error().Err(err).Str("project_id", projectID).Msg("Failed to list project tracks")
		return nil, err
	}
	if err := review.CanOpenRound(tracks); err != nil {
		return nil, err
	}

	if len(steps) == 0 {
		steps = review.CarryOverSteps(review.SelectLatestTrack(tracks))
	} else {
		for i := range steps {
			steps[i].Status = model.StepPending
		}
	}
	track := &model.ProjectTrack{
		ProjectID:      projectID,
		RoundNumber:    review.NextRoundNumber(tracks),
		Status:         "active",
		ClientDecision: model.DecisionPending,
		Steps:          steps,
	}
	if err := s.tracks.CreateTrack(ctx, track); err != nil {
		s.logger.Error().Err(err).Str("project_id", projectID).Int("round", track.RoundNumber).Msg("Failed to create track")
		return nil, err
	}
	s.publish(ctx, pubsub.EventRoundOpened, track, userID)
	return track, nil
}

// UpdateStep edits one step. Completing a final step publishes a review request.
func (s *reviewService) UpdateStep(ctx context.Context, trackID, userID string, index int, upd StepUpdate) (*model.ProjectTrack, error) {
	track, err := s.tracks.GetTrackByID(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedProject(ctx, s.projects, track.ProjectID, userID); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(track.Steps) {
		return nil, fmt.Errorf("%w: %d of %d", ErrStepOutOfRange, index, len(track.Steps))
	}
	if track.Steps[index].Malformed() {
		return nil, fmt.Errorf("%w: index %d", ErrStepMalformed, index)
	}

	wasAwaiting := review.NeedsReview(track)
	step := &track.Steps[index]
	if upd.Status != nil {
		step.Status = *upd.Status
	}
	if upd.DeliverableLink != nil {
		step.DeliverableLink = upd.DeliverableLink
	}
	if upd.Note != nil {
		if step.Metadata == nil {
			step.Metadata = &model.StepMetadata{CreatedAt: s.now(), StepIndex: index}
		}
		step.Metadata.Text = *upd.Note
	}

	if err := s.tracks.UpdateTrack(ctx, track); err != nil {
		s.logger.Error().Err(err).Str("track_id", trackID).Int("step", index).Msg("Failed to update step")
		return nil, err
	}
	if !wasAwaiting && review.NeedsReview(track) {
		s.publish(ctx, pubsub.EventReviewRequested, track, userID)
	}
	return track, nil
}

func (s *reviewService) SubmitDecision(ctx context.Context, trackID, actorID string, decision model.ClientDecision) (*model.ProjectTrack, error) {
	track, err := s.tracks.GetTrackByID(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if err := review.ApplyDecision(track, decision); err != nil {
		return nil, err
	}
	if decision == model.DecisionApproved {
		track.Status = "completed"
	}
	if err := s.tracks.UpdateTrack(ctx, track); err != nil {
		s.logger.Error().Err(err).Str("track_id", trackID).Str("decision", string(decision)).Msg("Failed to record client decision")
		return nil, err
	}
	s.publish(ctx, pubsub.EventDecisionMade, track, actorID)
	return track, nil
}

// publish is best effort; the write has already happened.
func (s *reviewService) publish(ctx context.Context, eventType string, track *model.ProjectTrack, actorID string) {
	event := pubsub.TrackEvent{
		Type:        eventType,
		ProjectID:   track.ProjectID,
		TrackID:     track.ID,
		RoundNumber: track.RoundNumber,
		ActorID:     actorID,
		OccurredAt:  s.now().UTC(),
	}
	if eventType == pubsub.EventDecisionMade {
		event.Decision = string(track.ClientDecision)
	}
	data, attrs, err := event.Encode()
	if err != nil {
		s.logger.Error().Err(err).Str("track_id", track.ID).Msg("Failed to marshal track event")
		return
	}
	if _, err := s.publisher.Publish(ctx, s.trackTopic, data, attrs); err != nil {
		s.logger.Error().Err(err).Str("topic", s.trackTopic).Str("event", eventType).Msg("Failed to publish track event")
	}
}
