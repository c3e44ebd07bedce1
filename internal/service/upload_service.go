package service

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"cutroom/internal/model"
	"cutroom/internal/quota"
	"cutroom/internal/repository"
	"cutroom/internal/storage"

	"github.com/rs/zerolog"
)

// StorageReport is a project's storage usage against the owner's plan.
type StorageReport struct {
	PlanName      string
	IsActive      bool
	UsedBytes     int64
	MaxStorage    int64
	MaxUploadSize int64
	UsagePercent  float64
	Status        quota.Status
}

// PendingUpload is a media row awaiting its bytes at UploadURL.
type PendingUpload struct {
	Media     *model.Media
	UploadURL string
}

// UploadPlan is the accepted result of InitiateUploads.
type UploadPlan struct {
	Uploads  []PendingUpload
	Warnings []string
}

// UploadService gates uploads on the owner's plan and manages media objects.
type UploadService interface {
	StorageStatus(ctx context.Context, projectID, userID string) (*StorageReport, error)
	InitiateUploads(ctx context.Context, projectID, userID string, files []quota.FileInfo) (*UploadPlan, error)
	CompleteUpload(ctx context.Context, mediaID, userID string) (*model.Media, error)
	DeleteMedia(ctx context.Context, mediaID, userID string) error
	GetMediaURL(ctx context.Context, mediaID, userID string) (string, error)
}

type uploadService struct {
	projects      repository.ProjectRepository
	media         repository.MediaRepository
	subscriptions repository.SubscriptionRepository
	store         storage.MediaStore
	limits        quota.Limits
	urlTTL        time.Duration
	now           func() time.Time
	logger        zerolog.Logger
}

// NewUploadService creates a new UploadService with a scoped logger.
func NewUploadService(
	projects repository.ProjectRepository,
	media repository.MediaRepository,
	subscriptions repository.SubscriptionRepository,
	store storage.MediaStore,
	limits quota.Limits,
	urlTTL time.Duration,
	logger zerolog.Logger,
) UploadService {
	return &uploadService{
		projects:      projects,
		media:         media,
		subscriptions: subscriptions,
		store:         store,
		limits:        limits,
		urlTTL:        urlTTL,
		now:           time.Now,
		logger:        logger.With().Str("service", "UploadService").Logger(),
	}
}

// gateFor builds the quota gate for the project owner and returns current usage.
func (s *uploadService) gateFor(ctx context.Context, project *model.Project) (*quota.Gate, int64, error) {
	sub, err := s.subscriptions.GetSubscription(ctx, project.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", project.UserID).Msg("Failed to fetch subscription")
		return nil, 0, err
	}
	used, err := s.media.SumProjectUsage(ctx, project.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("Failed to sum project usage")
		return nil, 0, err
	}
	return quota.New(sub, s.limits, s.now()), used, nil
}

func (s *uploadService) StorageStatus(ctx context.Context, projectID, userID string) (*StorageReport, error) {
	project, err := ownedProject(ctx, s.projects, projectID, userID)
	if err != nil {
		return nil, err
	}
	gate, used, err := s.gateFor(ctx, project)
	if err != nil {
		return nil, err
	}
	pct := gate.UsagePercent(used)
	return &StorageReport{
		PlanName:      gate.PlanName,
		IsActive:      gate.IsActive,
		UsedBytes:     used,
		MaxStorage:    gate.MaxStorage,
		MaxUploadSize: gate.MaxUploadSize,
		UsagePercent:  pct,
		Status:        gate.UploadStatus(pct),
	}, nil
}

// InitiateUploads validates the selection against the quota gate and, when
// admissible, creates media rows with presigned PUT URLs. A rejected selection
// returns *QuotaError and creates nothing.
func (s *uploadService) InitiateUploads(ctx context.Context, projectID, userID string, files []quota.FileInfo) (*UploadPlan, error) {
	project, err := ownedProject(ctx, s.projects, projectID, userID)
	if err != nil {
		return nil, err
	}
	gate, used, err := s.gateFor(ctx, project)
	if err != nil {
		return nil, err
	}
	res := gate.ValidateFiles(files, used)
	if !res.Valid {
		s.logger.Info().Str("project_id", projectID).Strs("errors", res.Errors).Msg("Upload rejected by quota gate")
		return nil, &QuotaError{Result: res}
	}

	plan := &UploadPlan{Warnings: res.Warnings}
	for _, f := range files {
		up, err := s.initiateOne(ctx, project, userID, f)
		if err != nil {
			for _, created := range plan.Uploads {
				s.rollback(ctx, created.Media.ID)
			}
			return nil, err
		}
		plan.Uploads = append(plan.Uploads, *up)
	}
	return plan, nil
}

func (s *uploadService) initiateOne(ctx context.Context, project *model.Project, userID string, f quota.FileInfo) (*PendingUpload, error) {
	m := &model.Media{
		ProjectID:   project.ID,
		UserID:      userID,
		FileName:    f.Name,
		ContentType: f.Type,
		FileSize:    f.Size,
		Status:      model.MediaStatusUploading,
	}
	if err := s.media.CreateMedia(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("file_name", f.Name).Msg("Failed to create media record for upload")
		return nil, err
	}

	m.StoragePath = storage.MediaKey(project.ID, m.ID, objectName(f.Name))
	url, err := s.store.PresignPut(ctx, m.StoragePath, f.Type, f.Size, s.urlTTL)
	if err != nil {
		s.rollback(ctx, m.ID)
		s.logger.Error().Err(err).Str("media_id", m.ID).Msg("Failed to generate presigned PUT URL")
		return nil, err
	}
	if err := s.media.UpdateMedia(ctx, m); err != nil {
		s.rollback(ctx, m.ID)
		s.logger.Error().Err(err).Str("media_id", m.ID).Msg("Failed to update media with storage path")
		return nil, err
	}
	return &PendingUpload{Media: m, UploadURL: url}, nil
}

// CompleteUpload checks the object landed in storage and records its real size.
// The real size is gated again against the per-file limit and the project's
// remaining storage; rejected objects are removed and the row marked failed.
func (s *uploadService) CompleteUpload(ctx context.Context, mediaID, userID string) (*model.Media, error) {
	m, err := s.media.GetMediaByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	project, err := ownedProject(ctx, s.projects, m.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if m.Status != model.MediaStatusUploading {
		return nil, ErrNotUploading
	}

	size, err := s.store.Head(ctx, m.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Str("storage_path", m.StoragePath).Msg("File not found in storage at expected path")
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.markFailed(ctx, m)
			return nil, ErrUploadMissing
		}
		return nil, err
	}

	gate, used, err := s.gateFor(ctx, project)
	if err != nil {
		return nil, err
	}
	// usage already counts this row at its declared size
	others := max(used-m.FileSize, 0)
	res := gate.ValidateFiles([]quota.FileInfo{{Name: m.FileName, Size: size, Type: m.ContentType}}, others)
	if !res.Valid {
		s.logger.Info().Str("media_id", m.ID).Int64("size", size).Strs("errors", res.Errors).Msg("Uploaded object rejected by quota gate")
		if err := s.store.DeletePrefix(ctx, storage.MediaPrefix(m.ProjectID, m.ID)); err != nil {
			s.logger.Error().Err(err).Str("media_id", m.ID).Msg("Failed to remove rejected object")
		}
		s.markFailed(ctx, m)
		return nil, &QuotaError{Result: res}
	}

	m.FileSize = size
	m.Status = model.MediaStatusReady
	if err := s.media.UpdateMedia(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("media_id", m.ID).Msg("Failed to mark media ready")
		return nil, err
	}
	return m, nil
}

// rollback removes a media row created for an upload that will not happen.
func (s *uploadService) rollback(ctx context.Context, mediaID string) {
	if err := s.media.DeleteMedia(ctx, mediaID); err != nil {
		s.logger.Error().Err(err).Str("media_id", mediaID).Msg("Failed to roll back media record")
	}
}

func (s *uploadService) markFailed(ctx context.Context, m *model.Media) {
	m.Status = model.MediaStatusFailed
	if err := s.media.UpdateMedia(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("media_id", m.ID).Msg("Failed to mark media as failed")
	}
}

func (s *uploadService) DeleteMedia(ctx context.Context, mediaID, userID string) error {
	m, err := s.media.GetMediaByID(ctx, mediaID)
	if err != nil {
		return err
	}
	if _, err := ownedProject(ctx, s.projects, m.ProjectID, userID); err != nil {
		return err
	}
	if err := s.store.DeletePrefix(ctx, storage.MediaPrefix(m.ProjectID, m.ID)); err != nil {
		// Not fatal, the row is still removed so usage drops.
		s.logger.Error().Err(err).Str("media_id", mediaID).Msg("Failed to delete media objects from storage")
	}
	if err := s.media.DeleteMedia(ctx, mediaID); err != nil {
		s.logger.Error().Err(err).Str("media_id", mediaID).Msg("Failed to delete media from database")
		return err
	}
	return nil
}

func (s *uploadService) GetMediaURL(ctx context.Context, mediaID, userID string) (string, error) {
	m, err := s.media.GetMediaByID(ctx, mediaID)
	if err != nil {
		return "", err
	}
	if _, err := ownedProject(ctx, s.projects, m.ProjectID, userID); err != nil {
		return "", err
	}
	if m.Status != model.MediaStatusReady {
		return "", ErrMediaNotReady
	}
	return s.store.PresignGet(ctx, m.StoragePath, s.urlTTL)
}

// objectName keeps only the extension of the client's file name.
func objectName(fileName string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(fileName, "\\", "/"))))
	if len(ext) > 10 || strings.ContainsAny(ext, " ?#%") {
		ext = ""
	}
	return "original" + ext
}
