package presenters

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/masterclass-hub/backend/internal/models"
	"github.com/masterclass-hub/backend/pkg/response"
)

// VideoRelationLoader attaches tag/presenter relations to a list of videos.
// It is satisfied by *videos.Repository; declaring it here avoids an import
// cycle between the presenters and videos packages.
type VideoRelationLoader interface {
	AttachRelations(ctx context.Context, videos []models.Video) error
}

// Handler handles presenter admin and integration endpoints.
type Handler struct {
	repo      *Repository
	videoRepo VideoRelationLoader
}

// NewHandler creates a presenter handler.
func NewHandler(repo *Repository, videoRepo VideoRelationLoader) *Handler {
	return &Handler{repo: repo, videoRepo: videoRepo}
}

// PresenterRequest is the body for presenter create/update.
type PresenterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	HRCID    *int64 `json:"hrc_id"`
	Headshot string `json:"headshot"`
}

// List handles GET /admin/presenters. Query ?q= filters by name substring
// (admin form autocomplete).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Internal(c, "failed to list presenters")
		return
	}
	response.OK(c, list)
}

// Create handles POST /admin/presenters.
func (h *Handler) Create(c *gin.Context) {
	var req PresenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := &models.Presenter{Name: req.Name, Email: req.Email, HRCID: req.HRCID, Headshot: req.Headshot}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		response.Internal(c, "failed to create presenter")
		return
	}
	response.Created(c, p)
}

// Update handles PATCH /admin/presenters/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid presenter id")
		return
	}
	var req PresenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := &models.Presenter{ID: id, Name: req.Name, Email: req.Email, HRCID: req.HRCID, Headshot: req.Headshot}
	if err := h.repo.Update(c.Request.Context(), p); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "presenter not found")
			return
		}
		response.Internal(c, "failed to update presenter")
		return
	}
	response.OK(c, p)
}

// Delete handles DELETE /admin/presenters/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid presenter id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "presenter not found")
			return
		}
		response.Internal(c, "failed to delete presenter")
		return
	}
	response.NoContent(c)
}

// APIList handles GET /api/v1/presenters (integration token required).
func (h *Handler) APIList(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), "")
	if err != nil {
		response.Internal(c, "failed to list presenters")
		return
	}
	response.OK(c, list)
}

// APIGet handles GET /api/v1/presenters/:hrcId. The integration surface is
// keyed by directory id, not internal id.
func (h *Handler) APIGet(c *gin.Context) {
	hrcID, err := strconv.ParseInt(c.Param("hrcId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid hrc id")
		return
	}
	p, err := h.repo.GetByHRCID(c.Request.Context(), hrcID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "presenter not found")
			return
		}
		response.Internal(c, "failed to get presenter")
		return
	}
	response.OK(c, p)
}

// APITalksByHRCID handles GET /api/v1/presenters/:hrcId/talks.
func (h *Handler) APITalksByHRCID(c *gin.Context) {
	hrcID, err := strconv.ParseInt(c.Param("hrcId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid hrc id")
		return
	}
	p, err := h.repo.GetByHRCID(c.Request.Context(), hrcID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "presenter not found")
			return
		}
		response.Internal(c, "failed to get presenter")
		return
	}
	h.respondTalks(c, p)
}

// APITalksByEmail handles GET /api/v1/presenters/email/:email/talks.
func (h *Handler) APITalksByEmail(c *gin.Context) {
	p, err := h.repo.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "presenter not found")
			return
		}
		response.Internal(c, "failed to get presenter")
		return
	}
	h.respondTalks(c, p)
}

func (h *Handler) respondTalks(c *gin.Context, p *models.Presenter) {
	talks, err := h.repo.Talks(c.Request.Context(), p.ID)
	if err != nil {
		response.Internal(c, "failed to list talks")
		return
	}
	if err := h.videoRepo.AttachRelations(c.Request.Context(), talks); err != nil {
		response.Internal(c, "failed to load talk relations")
		return
	}
	response.OK(c, gin.H{"presenter": p, "talks": talks})
}
