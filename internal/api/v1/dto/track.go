package dto

import (
	"time"

	"cutroom/internal/model"
	"cutroom/internal/review"
)

// TrackResponseDTO is a revision round with its derived review state.
type TrackResponseDTO struct {
	TrackID        string               `json:"track_id"`
	ProjectID      string               `json:"project_id"`
	RoundNumber    int                  `json:"round_number"`
	Status         string               `json:"status"`
	ClientDecision model.ClientDecision `json:"client_decision"`
	Steps          model.Steps          `json:"steps"`
	Review         review.Summary       `json:"review"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ProjectReviewResponseDTO lists a project's rounds and the latest one's state.
type ProjectReviewResponseDTO struct {
	ProjectID     string             `json:"project_id"`
	Title         string             `json:"title"`
	LatestTrackID *string            `json:"latest_track_id"`
	Review        review.Summary     `json:"review"`
	Tracks        []TrackResponseDTO `json:"tracks"`
}

// StepCreateDTO describes a step of a newly opened round.
type StepCreateDTO struct {
	Name    string `json:"name" validate:"required,max=200"`
	IsFinal bool   `json:"is_final"`
}

// TrackCreateDTO opens a new round. Without steps the previous round's steps are reused.
type TrackCreateDTO struct {
	Steps []StepCreateDTO `json:"steps" validate:"omitempty,max=50,dive"`
}

// StepUpdateDTO edits one step of a track.
type StepUpdateDTO struct {
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=pending completed"`
	DeliverableLink *string `json:"deliverable_link,omitempty" validate:"omitempty,url"`
	Note            *string `json:"note,omitempty" validate:"omitempty,max=5000"`
}

// DecisionCreateDTO is a client's verdict on a round's final deliverable.
type DecisionCreateDTO struct {
	Decision string `json:"decision" validate:"required,oneof=approved revisions_requested"`
}

func NewTrackResponse(t *model.ProjectTrack) TrackResponseDTO {
	steps := t.Steps
	if steps == nil {
		steps = model.Steps{}
	}
	return TrackResponseDTO{
		TrackID:        t.ID,
		ProjectID:      t.ProjectID,
		RoundNumber:    t.RoundNumber,
		Status:         t.Status,
		ClientDecision: review.DecisionState(t),
		Steps:          steps,
		Review:         review.Summarize(t),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
