package repository

import (
	"context"
	"errors"
	"fmt"

	"cutroom/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriptionRepository defines methods for accessing subscription data.
type SubscriptionRepository interface {
	// GetSubscription returns the user's subscription regardless of status,
	// or nil when the user never subscribed.
	GetSubscription(ctx context.Context, userID string) (*model.Subscription, error)
}

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepo creates a new SubscriptionRepository.
func NewSubscriptionRepo(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) GetSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	const q = `
        SELECT user_id, plan_id, status, current_period_end, storage_gb, max_upload_size_mb, created_at, updated_at
        FROM subscriptions
        WHERE user_id = $1
        ORDER BY updated_at DESC
        LIMIT 1
    `
	var s model.Subscription
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&s.UserID,
		&s.PlanID,
		&s.Status,
		&s.CurrentPeriodEnd,
		&s.StorageGB,
		&s.MaxUploadSizeMB,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch subscription for user %s: %w", userID, err)
	}
	return &s, nil
}
