package submissions

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masterclass-hub/backend/internal/models"
	"github.com/masterclass-hub/backend/pkg/queue"
	"github.com/masterclass-hub/backend/pkg/response"
)

// Handler handles the public submission form and the review endpoints.
type Handler struct {
	repo   *Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewHandler creates a submission handler. The queue may be nil when no
// Redis is configured; submissions are then accepted without notification.
func NewHandler(repo *Repository, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, queue: q, logger: logger}
}

// SubmissionRequest is the public session-proposal form body.
type SubmissionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Duration    string `json:"duration" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
}

// Create handles POST /submissions.
func (h *Handler) Create(c *gin.Context) {
	var req SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	s := &models.VideoSubmission{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Email:       req.Email,
	}
	if err := h.repo.Create(c.Request.Context(), s); err != nil {
		h.logger.Error("create submission failed", zap.Error(err))
		response.Internal(c, "failed to save submission")
		return
	}

	if h.queue != nil {
		payload := queue.SubmissionNotifyPayload{
			SubmissionID: s.ID,
			Title:        s.Title,
			Duration:     s.Duration,
			Email:        s.Email,
		}
		if err := h.queue.EnqueueSubmissionNotify(c.Request.Context(), payload); err != nil {
			// The proposal is already saved; a lost notification is not
			// worth failing the request over.
			h.logger.Error("enqueue submission notify failed", zap.Error(err),
				zap.Int64("submission_id", s.ID))
		}
	}

	response.Created(c, s)
}

// List handles GET /admin/submissions with optional ?status= filter.
func (h *Handler) List(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.ValidSubmissionStatus(status) {
		response.BadRequest(c, "invalid status")
		return
	}
	list, err := h.repo.List(c.Request.Context(), status)
	if err != nil {
		h.logger.Error("list submissions failed", zap.Error(err))
		response.Internal(c, "failed to list submissions")
		return
	}
	response.OK(c, list)
}

// Get handles GET /admin/submissions/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}
	s, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "submission not found")
			return
		}
		response.Internal(c, "failed to get submission")
		return
	}
	response.OK(c, s)
}

// UpdateStatus handles PATCH /admin/submissions/:id.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidSubmissionStatus(body.Status) {
		response.BadRequest(c, "invalid status")
		return
	}
	if err := h.repo.UpdateStatus(c.Request.Context(), id, body.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "submission not found")
			return
		}
		h.logger.Error("update submission failed", zap.Error(err), zap.Int64("submission_id", id))
		response.Internal(c, "failed to update submission")
		return
	}
	response.NoContent(c)
}

// Delete handles DELETE /admin/submissions/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "submission not found")
			return
		}
		response.Internal(c, "failed to delete submission")
		return
	}
	response.NoContent(c)
}
