package handler

import (
	"context"
	"net/http"

	"cutroom/internal/api/v1/dto"
	"cutroom/internal/middleware"
	"cutroom/internal/model"
	"cutroom/internal/quota"
	"cutroom/internal/service"

	"github.com/go-playground/validator/v10"
)

const (
	testUser    = "user-1"
	testProject = "0b6d8a0e-4c1f-4d7e-9c53-2f1a6f0f7a11"
	testTrack   = "5f0c1e2d-3b4a-4c5d-8e6f-7a8b9c0d1e2f"
	testMedia   = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

// fakeAuth stands in for AuthMiddleware with a fixed subject.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.UserContextKey, testUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func passthrough(next http.Handler) http.Handler { return next }

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type fakeReviewService struct {
	review   *service.ProjectReview
	track    *model.ProjectTrack
	err      error
	steps    model.Steps
	index    int
	update   service.StepUpdate
	decision model.ClientDecision
	userID   string
}

func (f *fakeReviewService) GetProjectReview(_ context.Context, _, userID string) (*service.ProjectReview, error) {
	f.userID = userID
	return f.review, f.err
}

func (f *fakeReviewService) OpenRound(_ context.Context, _, userID string, steps model.Steps) (*model.ProjectTrack, error) {
	f.userID, f.steps = userID, steps
	return f.track, f.err
}

func (f *fakeReviewService) UpdateStep(_ context.Context, _, userID string, index int, upd service.StepUpdate) (*model.ProjectTrack, error) {
	f.userID, f.index, f.update = userID, index, upd
	return f.track, f.err
}

func (f *fakeReviewService) SubmitDecision(_ context.Context, _, actorID string, decision model.ClientDecision) (*model.ProjectTrack, error) {
	f.userID, f.decision = actorID, decision
	return f.track, f.err
}

type fakeUploadService struct {
	report  *service.StorageReport
	plan    *service.UploadPlan
	media   *model.Media
	url     string
	err     error
	files   []quota.FileInfo
	deleted string
}

func (f *fakeUploadService) StorageStatus(context.Context, string, string) (*service.StorageReport, error) {
	return f.report, f.err
}

func (f *fakeUploadService) InitiateUploads(_ context.Context, _, _ string, files []quota.FileInfo) (*service.UploadPlan, error) {
	f.files = files
	return f.plan, f.err
}

func (f *fakeUploadService) CompleteUpload(context.Context, string, string) (*model.Media, error) {
	return f.media, f.err
}

func (f *fakeUploadService) DeleteMedia(_ context.Context, mediaID, _ string) error {
	f.deleted = mediaID
	return f.err
}

func (f *fakeUploadService) GetMediaURL(context.Context, string, string) (string, error) {
	return f.url, f.err
}

type fakeActivityService struct {
	got *dto.PubSubPushRequest
	err error
}

func (f *fakeActivityService) ProcessPush(_ context.Context, req *dto.PubSubPushRequest) error {
	f.got = req
	return f.err
}
