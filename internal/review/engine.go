// Package review derives display and decision state of a project's revision
// rounds from their step lists. Every function is pure and nil-safe.
package review

import (
	"errors"
	"time"

	"cutroom/internal/model"
)

// Errors returned by the decision and round transitions.
var (
	ErrInvalidDecision       = errors.New("invalid client decision")
	ErrDecisionNotActionable = errors.New("track has no completed final deliverable awaiting a decision")
	ErrRoundInProgress       = errors.New("latest round has not been sent back for revisions")
)

// Summary bundles the derived state rendered for a track.
type Summary struct {
	Progress    int                  `json:"progress"`
	NeedsReview bool                 `json:"needs_review"`
	Decision    model.ClientDecision `json:"decision"`
	NewRound    bool                 `json:"new_round"`
}

// steps returns the track's decodable steps; malformed placeholders are left out.
func steps(track *model.ProjectTrack) model.Steps {
	if track == nil {
		return nil
	}
	for i, step := range track.Steps {
		if step.Malformed() {
			out := append(model.Steps{}, track.Steps[:i]...)
			for _, rest := range track.Steps[i+1:] {
				if !rest.Malformed() {
					out = append(out, rest)
				}
			}
			return out
		}
	}
	return track.Steps
}

// ComputeProgress returns the share of completed steps as an integer percentage,
// rounded half-up. A missing track or an empty step list is 0.
func ComputeProgress(track *model.ProjectTrack) int {
	s := steps(track)
	total := len(s)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, step := range s {
		if step.Status == model.StepCompleted {
			completed++
		}
	}
	// round(100*k/n) half-up in integer arithmetic
	return (200*completed + total) / (2 * total)
}

// ActivityAt is UpdatedAt when the track was touched after creation, else CreatedAt.
func ActivityAt(track *model.ProjectTrack) time.Time {
	if track == nil {
		return time.Time{}
	}
	if !track.UpdatedAt.Equal(track.CreatedAt) && !track.UpdatedAt.IsZero() {
		return track.UpdatedAt
	}
	return track.CreatedAt
}

// SelectLatestTrack returns the track with the most recent activity. Ties go to
// the earliest track in input order.
func SelectLatestTrack(tracks []*model.ProjectTrack) *model.ProjectTrack {
	var latest *model.ProjectTrack
	var latestAt time.Time
	for _, t := range tracks {
		if t == nil {
			continue
		}
		at := ActivityAt(t)
		if latest == nil || at.After(latestAt) {
			latest, latestAt = t, at
		}
	}
	return latest
}

// NeedsReview reports whether the client should be prompted: the decision is
// still pending and a final step has been completed.
func NeedsReview(track *model.ProjectTrack) bool {
	if DecisionState(track) != model.DecisionPending {
		return false
	}
	for _, step := range steps(track) {
		if step.Status == model.StepCompleted && step.IsFinal {
			return true
		}
	}
	return false
}

// DecisionState returns the client's decision on the track. Unknown or missing
// values read as pending.
func DecisionState(track *model.ProjectTrack) model.ClientDecision {
	if track == nil {
		return model.DecisionPending
	}
	switch track.ClientDecision {
	case model.DecisionApproved, model.DecisionRevisionsRequested:
		return track.ClientDecision
	default:
		return model.DecisionPending
	}
}

// HasNewRound reports a round that has steps but no work started yet.
func HasNewRound(track *model.ProjectTrack) bool {
	s := steps(track)
	if len(s) == 0 {
		return false
	}
	for _, step := range s {
		if step.Status != model.StepPending {
			return false
		}
	}
	return true
}

// CanDecide reports whether a client decision on the track is actionable.
func CanDecide(track *model.ProjectTrack) bool {
	return NeedsReview(track)
}

// Summarize computes every derived field of track at once.
func Summarize(track *model.ProjectTrack) Summary {
	return Summary{
		Progress:    ComputeProgress(track),
		NeedsReview: NeedsReview(track),
		Decision:    DecisionState(track),
		NewRound:    HasNewRound(track),
	}
}
