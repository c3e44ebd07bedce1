package handler

import (
	"net/http"
	"strconv"

	"cutroom/internal/api/v1/dto"
	"cutroom/internal/model"
	"cutroom/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ReviewHandler serves revision rounds and client decisions.
type ReviewHandler struct {
	reviewService service.ReviewService
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService service.ReviewService, validate *validator.Validate, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, validate: validate, logger: logger}
}

// RegisterRoutes registers the review endpoints.
func (h *ReviewHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /projects/{projectId}/review", authMw(http.HandlerFunc(h.getProjectReview)))
	mux.Handle("POST /projects/{projectId}/tracks", authMw(http.HandlerFunc(h.openRound)))
	mux.Handle("PUT /tracks/{trackId}/steps/{index}", authMw(http.HandlerFunc(h.updateStep)))
	mux.Handle("POST /tracks/{trackId}/decision", authMw(http.HandlerFunc(h.submitDecision)))
}

// getProjectReview godoc
// @Summary Get a project's revision rounds
// @Description Lists all rounds of a project with the progress and review state of the latest one.
// @Tags review
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} dto.ProjectReviewResponseDTO
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Project not found"
// @Router /projects/{projectId}/review [get]
func (h *ReviewHandler) getProjectReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectId", "Project not found")
	if !ok {
		return
	}
	pr, err := h.reviewService.GetProjectReview(r.Context(), projectID, userID)
	if err != nil {
		writeError(w, err, "Project not found", h.logger)
		return
	}

	resp := dto.ProjectReviewResponseDTO{
		ProjectID: pr.Project.ID,
		Title:     pr.Project.Title,
		Review:    pr.Summary,
		Tracks:    make([]dto.TrackResponseDTO, 0, len(pr.Tracks)),
	}
	if pr.Latest != nil {
		resp.LatestTrackID = &pr.Latest.ID
	}
	for _, t := range pr.Tracks {
		resp.Tracks = append(resp.Tracks, dto.NewTrackResponse(t))
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

// openRound godoc
// @Summary Open a revision round
// @Description Starts the next round of a project. Allowed for the first round or after revisions were requested.
// @Tags review
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param track body dto.TrackCreateDTO false "Steps of the new round"
// @Success 201 {object} dto.TrackResponseDTO
// @Failure 404 {string} string "Project not found"
// @Failure 409 {string} string "Latest round is still in progress"
// @Router /projects/{projectId}/tracks [post]
func (h *ReviewHandler) openRound(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectId", "Project not found")
	if !ok {
		return
	}
	var req dto.TrackCreateDTO
	if r.ContentLength != 0 {
		if !decodeAndValidate(w, r, h.validate, &req) {
			return
		}
	}
	var steps model.Steps
	for _, s := range req.Steps {
		steps = append(steps, model.Step{Name: s.Name, Status: model.StepPending, IsFinal: s.IsFinal})
	}

	track, err := h.reviewService.OpenRound(r.Context(), projectID, userID, steps)
	if err != nil {
		writeError(w, err, "Project not found", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewTrackResponse(track), h.logger)
}

// updateStep godoc
// @Summary Update a step
// @Description Changes a step's status, deliverable link or note. Completing a final step asks the client for review.
// @Tags review
// @Accept json
// @Produce json
// @Param trackId path string true "Track ID"
// @Param index path int true "Step index"
// @Param step body dto.StepUpdateDTO true "Step changes"
// @Success 200 {object} dto.TrackResponseDTO
// @Failure 400 {string} string "Invalid step"
// @Failure 404 {string} string "Track not found"
// @Router /tracks/{trackId}/steps/{index} [put]
func (h *ReviewHandler) updateStep(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	trackID, ok := pathID(w, r, "trackId", "Track not found")
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "Invalid step index", http.StatusBadRequest)
		return
	}
	var req dto.StepUpdateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	upd := service.StepUpdate{DeliverableLink: req.DeliverableLink, Note: req.Note}
	if req.Status != nil {
		status := model.StepStatus(*req.Status)
		upd.Status = &status
	}

	track, err := h.reviewService.UpdateStep(r.Context(), trackID, userID, index, upd)
	if err != nil {
		writeError(w, err, "Track not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewTrackResponse(track), h.logger)
}

// submitDecision godoc
// @Summary Submit a client decision
// @Description Approves the round's final deliverable or requests revisions.
// @Tags review
// @Accept json
// @Produce json
// @Param trackId path string true "Track ID"
// @Param decision body dto.DecisionCreateDTO true "Decision"
// @Success 200 {object} dto.TrackResponseDTO
// @Failure 400 {string} string "Invalid decision"
// @Failure 404 {string} string "Track not found"
// @Failure 409 {string} string "Track is not awaiting a decision"
// @Router /tracks/{trackId}/decision [post]
func (h *ReviewHandler) submitDecision(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	trackID, ok := pathID(w, r, "trackId", "Track not found")
	if !ok {
		return
	}
	var req dto.DecisionCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	track, err := h.reviewService.SubmitDecision(r.Context(), trackID, userID, model.ClientDecision(req.Decision))
	if err != nil {
		writeError(w, err, "Track not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewTrackResponse(track), h.logger)
}
