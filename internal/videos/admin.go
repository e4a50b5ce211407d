package videos

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masterclass-hub/backend/internal/models"
	"github.com/masterclass-hub/backend/pkg/response"
)

// AdminHandler handles the staff video CRUD surface.
type AdminHandler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewAdminHandler creates the admin video handler.
func NewAdminHandler(repo *Repository, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{repo: repo, logger: logger}
}

// VideoRequest is the body for video create/update. Recording empty means the
// video is not yet discoverable.
type VideoRequest struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	UnixStart     int64  `json:"unixstart" binding:"required"`
	UnixEnd       int64  `json:"unixend" binding:"required"`
	Stream        string `json:"stream"`
	Slides        string `json:"slides"`
	Recording     string `json:"recording"`
	ChatLog       string `json:"chat_log"`
	Thumbnails    string `json:"thumbnails"`
	CalendarEvent string `json:"calendar_event"`
}

func (req *VideoRequest) toModel(id int64) *models.Video {
	v := &models.Video{
		ID:            id,
		Title:         req.Title,
		Description:   req.Description,
		UnixStart:     req.UnixStart,
		UnixEnd:       req.UnixEnd,
		Stream:        req.Stream,
		Slides:        req.Slides,
		ChatLog:       req.ChatLog,
		Thumbnails:    req.Thumbnails,
		CalendarEvent: req.CalendarEvent,
	}
	if req.Recording != "" {
		rec := req.Recording
		v.Recording = &rec
	}
	return v
}

// Create handles POST /admin/videos.
func (h *AdminHandler) Create(c *gin.Context) {
	var req VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	v := req.toModel(0)
	if err := h.repo.Create(c.Request.Context(), v); err != nil {
		h.logger.Error("create video failed", zap.Error(err))
		response.Internal(c, "failed to create video")
		return
	}
	response.Created(c, v)
}

// Update handles PUT /admin/videos/:id.
func (h *AdminHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid video id")
		return
	}
	var req VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	v := req.toModel(id)
	if err := h.repo.Update(c.Request.Context(), v); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "video not found")
			return
		}
		h.logger.Error("update video failed", zap.Error(err), zap.Int64("video_id", id))
		response.Internal(c, "failed to update video")
		return
	}
	response.OK(c, v)
}

// Delete handles DELETE /admin/videos/:id.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid video id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "video not found")
			return
		}
		h.logger.Error("delete video failed", zap.Error(err), zap.Int64("video_id", id))
		response.Internal(c, "failed to delete video")
		return
	}
	response.NoContent(c)
}

// Get handles GET /admin/videos/:id with relations attached.
func (h *AdminHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid video id")
		return
	}
	v, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "video not found")
			return
		}
		response.Internal(c, "failed to load video")
		return
	}
	page := []models.Video{*v}
	if err := h.repo.AttachRelations(c.Request.Context(), page); err != nil {
		response.Internal(c, "failed to load video")
		return
	}
	response.OK(c, page[0])
}

// SetTags handles PUT /admin/videos/:id/tags.
func (h *AdminHandler) SetTags(c *gin.Context) {
	h.setAssociations(c, h.repo.SetTags, "tag_ids")
}

// SetPresenters handles PUT /admin/videos/:id/presenters.
func (h *AdminHandler) SetPresenters(c *gin.Context) {
	h.setAssociations(c, h.repo.SetPresenters, "presenter_ids")
}

func (h *AdminHandler) setAssociations(c *gin.Context, set func(ctx context.Context, videoID int64, ids []int64) error, field string) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid video id")
		return
	}
	var body map[string][]int64
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := set(c.Request.Context(), id, body[field]); err != nil {
		h.logger.Error("set video associations failed", zap.Error(err), zap.Int64("video_id", id))
		response.Internal(c, "failed to update video associations")
		return
	}
	response.NoContent(c)
}
