package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepCompleted StepStatus = "completed"
)

type ClientDecision string

const (
	DecisionPending            ClientDecision = "pending"
	DecisionApproved           ClientDecision = "approved"
	DecisionRevisionsRequested ClientDecision = "revisions_requested"
)

// ProjectTrack is one revision round of a project.
type ProjectTrack struct {
	ID             string         `db:"id" json:"id"`
	ProjectID      string         `db:"project_id" json:"project_id"`
	RoundNumber    int            `db:"round_number" json:"round_number"`
	Status         string         `db:"status" json:"status"` // free text, e.g. "active"
	ClientDecision ClientDecision `db:"client_decision" json:"client_decision"`
	Steps          Steps          `db:"steps" json:"steps"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// Step is a unit of work inside a track.
type Step struct {
	Name            string        `json:"name"`
	Status          StepStatus    `json:"status"`
	IsFinal         bool          `json:"is_final"`
	DeliverableLink *string       `json:"deliverable_link,omitempty"`
	Metadata        *StepMetadata `json:"metadata,omitempty"`

	// raw holds a stored element that did not decode as a step.
	raw json.RawMessage
}

// Malformed reports a placeholder for a stored element that is not a step.
// It keeps its position in the list and is written back unchanged.
func (s Step) Malformed() bool {
	return s.raw != nil
}

func (s Step) MarshalJSON() ([]byte, error) {
	if s.raw != nil {
		return s.raw, nil
	}
	type plain Step
	return json.Marshal(plain(s))
}

type StepMetadata struct {
	Text      string    `json:"text,omitempty"`
	Links     []string  `json:"links,omitempty"`
	Images    []string  `json:"images,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	StepIndex int       `json:"step_index"`
}

// Steps is the ordered step list stored as a JSONB array.
type Steps []Step

// Value implements the driver.Valuer interface for JSONB
func (s Steps) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for JSONB.
// Anything that is not a JSON array scans as an empty list. Array elements that
// are not steps become Malformed placeholders so indexes match the stored array.
func (s *Steps) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*s = nil
		return fmt.Errorf("cannot scan %T into Steps", value)
	}

	if len(bytes) == 0 {
		*s = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(bytes, &raw); err != nil {
		*s = nil
		return nil
	}
	steps := make(Steps, 0, len(raw))
	for _, r := range raw {
		var step Step
		if err := json.Unmarshal(r, &step); err != nil {
			step = Step{raw: append(json.RawMessage(nil), r...)}
		}
		steps = append(steps, step)
	}
	*s = steps
	return nil
}
