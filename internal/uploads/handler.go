package uploads

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masterclass-hub/backend/pkg/response"
	"github.com/masterclass-hub/backend/pkg/storage"
)

// Handler manages media assets (video thumbnails, presenter headshots) in S3.
// Large clients upload directly against a pre-signed URL; the admin UI also
// gets a server-side path for small files, and delete for cleanup.
type Handler struct {
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates an uploads handler.
func NewHandler(s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{s3: s3, logger: logger}
}

// UploadURLRequest asks for a pre-signed PUT URL for one object.
type UploadURLRequest struct {
	// OwnerID is the video or presenter id the asset belongs to.
	OwnerID  string `json:"owner_id" binding:"required"`
	Filename string `json:"filename" binding:"required"`
}

// ThumbnailUploadURL handles POST /admin/uploads/thumbnail.
func (h *Handler) ThumbnailUploadURL(c *gin.Context) {
	h.presign(c, storage.FolderThumbnails)
}

// HeadshotUploadURL handles POST /admin/uploads/headshot.
func (h *Handler) HeadshotUploadURL(c *gin.Context) {
	h.presign(c, storage.FolderHeadshots)
}

// UploadThumbnail handles POST /admin/uploads/thumbnail/file: server-side
// multipart upload, for admin-form clients that cannot PUT to a presigned URL.
func (h *Handler) UploadThumbnail(c *gin.Context) {
	h.upload(c, storage.FolderThumbnails)
}

// UploadHeadshot handles POST /admin/uploads/headshot/file.
func (h *Handler) UploadHeadshot(c *gin.Context) {
	h.upload(c, storage.FolderHeadshots)
}

// DeleteThumbnail handles DELETE /admin/uploads/thumbnail?owner_id=&filename=.
func (h *Handler) DeleteThumbnail(c *gin.Context) {
	h.remove(c, storage.FolderThumbnails)
}

// DeleteHeadshot handles DELETE /admin/uploads/headshot?owner_id=&filename=.
func (h *Handler) DeleteHeadshot(c *gin.Context) {
	h.remove(c, storage.FolderHeadshots)
}

func (h *Handler) bucketFor(folder string) string {
	if folder == storage.FolderHeadshots {
		return h.s3.HeadshotsBucket()
	}
	return h.s3.ThumbnailsBucket()
}

func (h *Handler) presign(c *gin.Context, folder string) {
	if h.s3 == nil {
		response.Internal(c, "object storage not configured")
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !storage.ValidateImageFilename(req.Filename) {
		response.BadRequest(c, "unsupported image type")
		return
	}

	bucket := h.bucketFor(folder)
	key := storage.ObjectKey(folder, req.OwnerID, req.Filename)
	contentType := storage.ContentTypeForFilename(req.Filename)
	url, err := h.s3.GeneratePresignedUploadURL(c.Request.Context(), bucket, key, contentType, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to create upload url")
		return
	}

	response.OK(c, gin.H{
		"upload_url":   url,
		"public_url":   h.s3.PublicObjectURL(bucket, key),
		"content_type": contentType,
		"max_bytes":    storage.MaxImageFileSize,
	})
}

func (h *Handler) upload(c *gin.Context, folder string) {
	ownerID := c.PostForm("owner_id")
	if ownerID == "" {
		response.BadRequest(c, "missing owner_id")
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file (form field: file)")
		return
	}
	if file.Size > storage.MaxImageFileSize {
		response.BadRequest(c, "file size exceeds 5MB limit")
		return
	}
	if !storage.ValidateImageFilename(file.Filename) {
		response.BadRequest(c, "unsupported image type")
		return
	}
	if h.s3 == nil {
		response.Internal(c, "object storage not configured")
		return
	}

	rc, err := file.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		response.Internal(c, "failed to read file")
		return
	}
	defer rc.Close()

	bucket := h.bucketFor(folder)
	key := storage.ObjectKey(folder, ownerID, file.Filename)
	url, err := h.s3.Upload(c.Request.Context(), bucket, key, storage.ContentTypeForFilename(file.Filename), rc)
	if err != nil {
		h.logger.Error("upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to upload file")
		return
	}

	response.OK(c, gin.H{
		"public_url": url,
		"key":        key,
		"file_size":  file.Size,
	})
}

func (h *Handler) remove(c *gin.Context, folder string) {
	ownerID := c.Query("owner_id")
	filename := c.Query("filename")
	if ownerID == "" || filename == "" {
		response.BadRequest(c, "owner_id and filename are required")
		return
	}
	if h.s3 == nil {
		response.Internal(c, "object storage not configured")
		return
	}

	key := storage.ObjectKey(folder, ownerID, filename)
	if err := h.s3.DeleteObject(c.Request.Context(), h.bucketFor(folder), key); err != nil {
		h.logger.Error("delete object failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to delete file")
		return
	}
	response.NoContent(c)
}
