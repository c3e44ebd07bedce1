package repository

import (
	"context"
	"errors"
	"fmt"

	"cutroom/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MediaRepository persists uploaded files and the storage usage derived from them.
type MediaRepository interface {
	CreateMedia(ctx context.Context, m *model.Media) error
	GetMediaByID(ctx context.Context, mediaID string) (*model.Media, error)
	// UpdateMedia writes status, file_size and storage_path.
	UpdateMedia(ctx context.Context, m *model.Media) error
	DeleteMedia(ctx context.Context, mediaID string) error
	// SumProjectUsage returns the total file_size of the project's media in bytes.
	SumProjectUsage(ctx context.Context, projectID string) (int64, error)
}

type mediaRepo struct {
	pool *pgxpool.Pool
}

// NewMediaRepo creates a new MediaRepository.
func NewMediaRepo(pool *pgxpool.Pool) MediaRepository {
	return &mediaRepo{pool: pool}
}

func (r *mediaRepo) CreateMedia(ctx context.Context, m *model.Media) error {
	const q = `
        INSERT INTO media (project_id, user_id, file_name, content_type, file_size, storage_path, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at
    `
	err := r.pool.QueryRow(ctx, q, m.ProjectID, m.UserID, m.FileName, m.ContentType, m.FileSize, m.StoragePath, m.Status).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating media %s for project %s: %w", m.FileName, m.ProjectID, err)
	}
	return nil
}

func (r *mediaRepo) GetMediaByID(ctx context.Context, mediaID string) (*model.Media, error) {
	const q = `
        SELECT id, project_id, user_id, file_name, content_type, file_size, storage_path, status, created_at, updated_at
        FROM media
        WHERE id = $1
    `
	var m model.Media
	err := r.pool.QueryRow(ctx, q, mediaID).Scan(
		&m.ID,
		&m.ProjectID,
		&m.UserID,
		&m.FileName,
		&m.ContentType,
		&m.FileSize,
		&m.StoragePath,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch media %s: %w", mediaID, err)
	}
	return &m, nil
}

func (r *mediaRepo) UpdateMedia(ctx context.Context, m *model.Media) error {
	const q = `
        UPDATE media
        SET status = $1, file_size = $2, storage_path = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING updated_at
    `
	if err := r.pool.QueryRow(ctx, q, m.Status, m.FileSize, m.StoragePath, m.ID).Scan(&m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("updating media %s: %w", m.ID, err)
	}
	return nil
}

func (r *mediaRepo) DeleteMedia(ctx context.Context, mediaID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, mediaID); err != nil {
		return fmt.Errorf("deleting media %s: %w", mediaID, err)
	}
	return nil
}

func (r *mediaRepo) SumProjectUsage(ctx context.Context, projectID string) (int64, error) {
	// failed uploads never reached storage
	const q = `
        SELECT COALESCE(SUM(file_size), 0)::bigint
        FROM media
        WHERE project_id = $1
          AND status <> 'failed'
    `
	var total int64
	if err := r.pool.QueryRow(ctx, q, projectID).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing storage usage for project %s: %w", projectID, err)
	}
	return total, nil
}
