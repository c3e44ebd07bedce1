package review

import (
	"fmt"

	"cutroom/internal/model"
)

// ApplyDecision records a client decision on the track after checking that the
// decision is a final verdict and that the track is awaiting one.
func ApplyDecision(track *model.ProjectTrack, decision model.ClientDecision) error {
	switch decision {
	case model.DecisionApproved, model.DecisionRevisionsRequested:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}
	if !CanDecide(track) {
		return ErrDecisionNotActionable
	}
	track.ClientDecision = decision
	return nil
}

// NextRoundNumber is one past the highest round number in tracks, or 1.
func NextRoundNumber(tracks []*model.ProjectTrack) int {
	highest := 0
	for _, t := range tracks {
		if t != nil && t.RoundNumber > highest {
			highest = t.RoundNumber
		}
	}
	return highest + 1
}

// CanOpenRound reports whether a new round may start. Only the first round or a
// round after requested revisions may be opened.
func CanOpenRound(tracks []*model.ProjectTrack) error {
	latest := SelectLatestTrack(tracks)
	if latest == nil || DecisionState(latest) == model.DecisionRevisionsRequested {
		return nil
	}
	return ErrRoundInProgress
}

// CarryOverSteps copies the step names and final markers of a previous round
// into a fresh pending step list.
func CarryOverSteps(prev *model.ProjectTrack) model.Steps {
	s := steps(prev)
	next := make(model.Steps, 0, len(s))
	for _, step := range s {
		next = append(next, model.Step{
			Name:    step.Name,
			Status:  model.StepPending,
			IsFinal: step.IsFinal,
		})
	}
	return next
}
