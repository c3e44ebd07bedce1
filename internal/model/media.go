package model

import "time"

const (
	MediaStatusUploading = "uploading"
	MediaStatusReady     = "ready"
	MediaStatusFailed    = "failed"
)

// Media is a file uploaded into a project.
type Media struct {
	ID          string    `db:"id" json:"id"`
	ProjectID   string    `db:"project_id" json:"project_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	FileSize    int64     `db:"file_size" json:"file_size"` // declared size until the upload completes
	StoragePath string    `db:"storage_path" json:"storage_path"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
