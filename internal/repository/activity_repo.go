package repository

import (
	"context"
	"fmt"

	"cutroom/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ActivityRepository interface {
	Create(ctx context.Context, a *model.ProjectActivity) error
}

type activityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

// Create inserts the activity; redelivered messages are ignored by message_id.
func (r *activityRepository) Create(ctx context.Context, a *model.ProjectActivity) error {
	query := `
        INSERT INTO project_activity (project_id, track_id, event_type, message_id, payload)
        VALUES ($1, $2, $3, $4, $5::jsonb)
        ON CONFLICT (message_id) DO NOTHING
    `
	_, err := r.pool.Exec(ctx, query, a.ProjectID, a.TrackID, a.EventType, a.MessageID, string(a.Payload))
	if err != nil {
		return fmt.Errorf("creating activity %s for project %s: %w", a.EventType, a.ProjectID, err)
	}
	return nil
}
