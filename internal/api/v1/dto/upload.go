package dto

import (
	"time"

	"cutroom/internal/quota"
)

// UploadFileDTO describes one file the client selected.
type UploadFileDTO struct {
	Name string `json:"name" validate:"required,max=255"`
	Size int64  `json:"size" validate:"gte=0"`
	Type string `json:"type" validate:"max=255"`
}

// UploadRequestDTO is the request body for initiating uploads into a project.
type UploadRequestDTO struct {
	Files []UploadFileDTO `json:"files" validate:"required,min=1,max=20,dive"`
}

// UploadURLResponseDTO is a created media row and where to PUT its bytes.
type UploadURLResponseDTO struct {
	MediaID   string `json:"media_id"`
	FileName  string `json:"file_name"`
	UploadURL string `json:"upload_url"`
}

// UploadResponseDTO is returned when the selection passed the quota gate.
type UploadResponseDTO struct {
	Uploads  []UploadURLResponseDTO `json:"uploads"`
	Warnings []string               `json:"warnings"`
}

// StorageStatusResponseDTO reports a project's storage usage against its plan.
type StorageStatusResponseDTO struct {
	PlanName           string       `json:"plan_name"`
	SubscriptionActive bool         `json:"subscription_active"`
	UsedBytes          int64        `json:"used_bytes"`
	MaxStorageBytes    int64        `json:"max_storage_bytes"`
	MaxUploadBytes     int64        `json:"max_upload_bytes"`
	Used               string       `json:"used"`
	MaxStorage         string       `json:"max_storage"`
	UsagePercent       float64      `json:"usage_percent"`
	Status             quota.Status `json:"status"`
}

// MediaResponseDTO is returned for media endpoints.
type MediaResponseDTO struct {
	MediaID     string    `json:"media_id"`
	ProjectID   string    `json:"project_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SignedURLResponseDTO carries a presigned download URL.
type SignedURLResponseDTO struct {
	URL string `json:"url"`
}
