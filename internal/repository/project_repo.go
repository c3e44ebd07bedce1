package repository

import (
	"context"
	"errors"
	"fmt"

	"cutroom/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProjectRepository defines read access to projects.
type ProjectRepository interface {
	GetProjectByID(ctx context.Context, projectID string) (*model.Project, error)
}

type projectRepo struct {
	pool *pgxpool.Pool
}

// NewProjectRepo creates a new ProjectRepository.
func NewProjectRepo(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepo{pool: pool}
}

// GetProjectByID returns ErrNotFound when no project has the given ID.
func (r *projectRepo) GetProjectByID(ctx context.Context, projectID string) (*model.Project, error) {
	const q = `
        SELECT id, user_id, title, COALESCE(description, ''), status, created_at, updated_at
        FROM projects
        WHERE id = $1
    `
	var p model.Project
	err := r.pool.QueryRow(ctx, q, projectID).Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch project %s: %w", projectID, err)
	}
	return &p, nil
}
