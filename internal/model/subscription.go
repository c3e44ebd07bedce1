package model

import "time"

const (
	PlanFree = "free"
	PlanLite = "lite"
	PlanPro  = "pro"
)

const SubscriptionStatusActive = "active"

// Subscription is a user's billing plan row. StorageGB and MaxUploadSizeMB
// override the plan defaults when set.
type Subscription struct {
	UserID           string    `db:"user_id" json:"user_id"`
	PlanID           string    `db:"plan_id" json:"plan_id"`
	Status           string    `db:"status" json:"status"`
	CurrentPeriodEnd time.Time `db:"current_period_end" json:"current_period_end"`
	StorageGB        *int64    `db:"storage_gb" json:"storage_gb,omitempty"`
	MaxUploadSizeMB  *int64    `db:"max_upload_size_mb" json:"max_upload_size_mb,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
