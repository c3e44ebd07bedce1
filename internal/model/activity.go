package model

import "time"

// ProjectActivity is a track event delivered back through the push subscription
// and persisted as the project's activity feed.
type ProjectActivity struct {
	ID        string    `db:"id"`
	ProjectID string    `db:"project_id"`
	TrackID   string    `db:"track_id"`
	EventType string    `db:"event_type"`
	MessageID string    `db:"message_id"`
	Payload   []byte    `db:"payload"` // raw JSON event
	CreatedAt time.Time `db:"created_at"`
}
