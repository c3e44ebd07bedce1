package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cutroom/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TrackRepository persists revision rounds. Writes are plain last-write-wins updates.
type TrackRepository interface {
	ListTracksByProject(ctx context.Context, projectID string) ([]*model.ProjectTrack, error)
	GetTrackByID(ctx context.Context, trackID string) (*model.ProjectTrack, error)
	CreateTrack(ctx context.Context, t *model.ProjectTrack) error
	// UpdateTrack writes status, client_decision and steps, refreshing updated_at.
	UpdateTrack(ctx context.Context, t *model.ProjectTrack) error
}

type trackRepo struct {
	pool *pgxpool.Pool
}

// NewTrackRepo creates a new TrackRepository.
func NewTrackRepo(pool *pgxpool.Pool) TrackRepository {
	return &trackRepo{pool: pool}
}

// Legacy rows may hold NULL status or client_decision.
const trackColumns = `id, project_id, round_number,
        COALESCE(status, '') AS status,
        COALESCE(client_decision, 'pending') AS client_decision,
        steps, created_at, updated_at`

func scanTrack(row pgx.Row) (*model.ProjectTrack, error) {
	var t model.ProjectTrack
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.RoundNumber,
		&t.Status,
		&t.ClientDecision,
		&t.Steps,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *trackRepo) ListTracksByProject(ctx context.Context, projectID string) ([]*model.ProjectTrack, error) {
	q := `SELECT ` + trackColumns + ` FROM project_tracks WHERE project_id = $1 ORDER BY round_number ASC`
	rows, err := r.pool.Query(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying tracks for project %s: %w", projectID, err)
	}
	defer rows.Close()

	tracks := []*model.ProjectTrack{}
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning track row: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("track row iteration: %w", err)
	}
	return tracks, nil
}

func (r *trackRepo) GetTrackByID(ctx context.Context, trackID string) (*model.ProjectTrack, error) {
	q := `SELECT ` + trackColumns + ` FROM project_tracks WHERE id = $1`
	t, err := scanTrack(r.pool.QueryRow(ctx, q, trackID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch track %s: %w", trackID, err)
	}
	return t, nil
}

func (r *trackRepo) CreateTrack(ctx context.Context, t *model.ProjectTrack) error {
	steps, err := marshalSteps(t.Steps)
	if err != nil {
		return err
	}
	const q = `
        INSERT INTO project_tracks (project_id, round_number, status, client_decision, steps)
        VALUES ($1, $2, $3, $4, $5::jsonb)
        RETURNING id, created_at, updated_at
    `
	if err := r.pool.QueryRow(ctx, q, t.ProjectID, t.RoundNumber, t.Status, t.ClientDecision, steps).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("creating round %d for project %s: %w", t.RoundNumber, t.ProjectID, err)
	}
	return nil
}

func (r *trackRepo) UpdateTrack(ctx context.Context, t *model.ProjectTrack) error {
	steps, err := marshalSteps(t.Steps)
	if err != nil {
		return err
	}
	const q = `
        UPDATE project_tracks
        SET status = $1, client_decision = $2, steps = $3::jsonb, updated_at = NOW()
        WHERE id = $4
        RETURNING updated_at
    `
	if err := r.pool.QueryRow(ctx, q, t.Status, t.ClientDecision, steps, t.ID).Scan(&t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("updating track %s: %w", t.ID, err)
	}
	return nil
}

func marshalSteps(steps model.Steps) (string, error) {
	if steps == nil {
		return "[]", nil
	}
	b, err := json.Marshal(steps)
	if err != nil {
		return "", fmt.Errorf("marshal steps: %w", err)
	}
	return string(b), nil
}
