package tags

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/masterclass-hub/backend/internal/models"
	"github.com/masterclass-hub/backend/pkg/response"
)

// Handler handles admin tag endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a tag handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// TagRequest is the body for tag create/update.
type TagRequest struct {
	Name       string `json:"name" binding:"required"`
	CategoryID int64  `json:"category_id" binding:"required"`
}

// List handles GET /admin/tags.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list tags")
		return
	}
	response.OK(c, list)
}

// Create handles POST /admin/tags.
func (h *Handler) Create(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	t := &models.Tag{Name: req.Name, CategoryID: req.CategoryID}
	if err := h.repo.Create(c.Request.Context(), t); err != nil {
		response.Internal(c, "failed to create tag")
		return
	}
	response.Created(c, t)
}

// Update handles PATCH /admin/tags/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid tag id")
		return
	}
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	t := &models.Tag{ID: id, Name: req.Name, CategoryID: req.CategoryID}
	if err := h.repo.Update(c.Request.Context(), t); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "tag not found")
			return
		}
		response.Internal(c, "failed to update tag")
		return
	}
	response.OK(c, t)
}

// Delete handles DELETE /admin/tags/:id. Video associations cascade.
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid tag id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "tag not found")
			return
		}
		response.Internal(c, "failed to delete tag")
		return
	}
	response.NoContent(c)
}

// ListCategories handles GET /admin/tag-categories.
func (h *Handler) ListCategories(c *gin.Context) {
	list, err := h.repo.Categories(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list tag categories")
		return
	}
	response.OK(c, list)
}

// CreateCategory handles POST /admin/tag-categories.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cat := &models.TagCategory{Name: req.Name}
	if err := h.repo.CreateCategory(c.Request.Context(), cat); err != nil {
		response.Internal(c, "failed to create tag category")
		return
	}
	response.Created(c, cat)
}
