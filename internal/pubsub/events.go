package pubsub

import (
	"encoding/json"
	"time"
)

const (
	EventReviewRequested = "review_requested"
	EventDecisionMade    = "decision_made"
	EventRoundOpened     = "round_opened"
)

// TrackEvent is the payload published on the track topic.
type TrackEvent struct {
	Type        string    `json:"type"`
	ProjectID   string    `json:"project_id"`
	TrackID     string    `json:"track_id"`
	RoundNumber int       `json:"round_number"`
	Decision    string    `json:"decision,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Encode returns the JSON payload and the routing attributes of the event.
func (e TrackEvent) Encode() ([]byte, map[string]string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, nil, err
	}
	return data, map[string]string{"event_type": e.Type, OrderingAttribute: e.ProjectID}, nil
}
