package handler

import (
	"net/http"

	"cutroom/internal/api/v1/dto"
	"cutroom/internal/model"
	"cutroom/internal/quota"
	"cutroom/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UploadHandler serves storage status and the media upload lifecycle.
type UploadHandler struct {
	uploadService service.UploadService
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService, validate *validator.Validate, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, validate: validate, logger: logger}
}

// RegisterRoutes registers the upload and media endpoints.
func (h *UploadHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /projects/{projectId}/storage", authMw(http.HandlerFunc(h.getStorageStatus)))
	mux.Handle("POST /projects/{projectId}/uploads", authMw(http.HandlerFunc(h.initiateUploads)))
	mux.Handle("POST /media/{mediaId}/complete", authMw(http.HandlerFunc(h.completeUpload)))
	mux.Handle("GET /media/{mediaId}/url", authMw(http.HandlerFunc(h.getMediaURL)))
	mux.Handle("DELETE /media/{mediaId}", authMw(http.HandlerFunc(h.deleteMedia)))
}

// getStorageStatus godoc
// @Summary Get storage status
// @Description Reports the project's storage usage against the owner's plan and whether uploads are allowed.
// @Tags uploads
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} dto.StorageStatusResponseDTO
// @Failure 404 {string} string "Project not found"
// @Router /projects/{projectId}/storage [get]
func (h *UploadHandler) getStorageStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectId", "Project not found")
	if !ok {
		return
	}
	report, err := h.uploadService.StorageStatus(r.Context(), projectID, userID)
	if err != nil {
		writeError(w, err, "Project not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.StorageStatusResponseDTO{
		PlanName:           report.PlanName,
		SubscriptionActive: report.IsActive,
		UsedBytes:          report.UsedBytes,
		MaxStorageBytes:    report.MaxStorage,
		MaxUploadBytes:     report.MaxUploadSize,
		Used:               quota.FormatBytes(report.UsedBytes),
		MaxStorage:         quota.FormatBytes(report.MaxStorage),
		UsagePercent:       report.UsagePercent,
		Status:             report.Status,
	}, h.logger)
}

// initiateUploads godoc
// @Summary Initiate uploads
// @Description Checks the selected files against the plan and returns a presigned PUT URL per file.
// @Tags uploads
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param files body dto.UploadRequestDTO true "Selected files"
// @Success 201 {object} dto.UploadResponseDTO
// @Failure 400 {string} string "Invalid request body"
// @Failure 404 {string} string "Project not found"
// @Failure 422 {object} quota.Result "Selection rejected by the upload gate"
// @Router /projects/{projectId}/uploads [post]
func (h *UploadHandler) initiateUploads(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectId", "Project not found")
	if !ok {
		return
	}
	var req dto.UploadRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	files := make([]quota.FileInfo, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, quota.FileInfo{Name: f.Name, Size: f.Size, Type: f.Type})
	}

	plan, err := h.uploadService.InitiateUploads(r.Context(), projectID, userID, files)
	if err != nil {
		writeError(w, err, "Project not found", h.logger)
		return
	}
	resp := dto.UploadResponseDTO{
		Uploads:  make([]dto.UploadURLResponseDTO, 0, len(plan.Uploads)),
		Warnings: plan.Warnings,
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	for _, u := range plan.Uploads {
		resp.Uploads = append(resp.Uploads, dto.UploadURLResponseDTO{
			MediaID:   u.Media.ID,
			FileName:  u.Media.FileName,
			UploadURL: u.UploadURL,
		})
	}
	writeJSON(w, http.StatusCreated, resp, h.logger)
}

// completeUpload godoc
// @Summary Complete an upload
// @Description Confirms the object landed in storage and marks the media ready.
// @Tags uploads
// @Produce json
// @Param mediaId path string true "Media ID"
// @Success 200 {object} dto.MediaResponseDTO
// @Failure 404 {string} string "Media not found"
// @Failure 409 {string} string "Media is not awaiting upload"
// @Failure 422 {object} quota.Result "Uploaded object exceeds the plan limit"
// @Router /media/{mediaId}/complete [post]
func (h *UploadHandler) completeUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	mediaID, ok := pathID(w, r, "mediaId", "Media not found")
	if !ok {
		return
	}
	m, err := h.uploadService.CompleteUpload(r.Context(), mediaID, userID)
	if err != nil {
		writeError(w, err, "Media not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, newMediaResponse(m), h.logger)
}

// getMediaURL godoc
// @Summary Get a download URL
// @Description Returns a presigned GET URL for a ready media object.
// @Tags uploads
// @Produce json
// @Param mediaId path string true "Media ID"
// @Success 200 {object} dto.SignedURLResponseDTO
// @Failure 404 {string} string "Media not found"
// @Failure 409 {string} string "Media upload has not completed"
// @Router /media/{mediaId}/url [get]
func (h *UploadHandler) getMediaURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	mediaID, ok := pathID(w, r, "mediaId", "Media not found")
	if !ok {
		return
	}
	url, err := h.uploadService.GetMediaURL(r.Context(), mediaID, userID)
	if err != nil {
		writeError(w, err, "Media not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.SignedURLResponseDTO{URL: url}, h.logger)
}

// deleteMedia godoc
// @Summary Delete media
// @Description Removes the media row and every stored object under it.
// @Tags uploads
// @Param mediaId path string true "Media ID"
// @Success 204 {string} string "No Content"
// @Failure 404 {string} string "Media not found"
// @Router /media/{mediaId} [delete]
func (h *UploadHandler) deleteMedia(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	mediaID, ok := pathID(w, r, "mediaId", "Media not found")
	if !ok {
		return
	}
	if err := h.uploadService.DeleteMedia(r.Context(), mediaID, userID); err != nil {
		writeError(w, err, "Media not found", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func newMediaResponse(m *model.Media) dto.MediaResponseDTO {
	return dto.MediaResponseDTO{
		MediaID:     m.ID,
		ProjectID:   m.ProjectID,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		FileSize:    m.FileSize,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
