package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterclass-hub/backend/pkg/storage"
)

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/uploads/thumbnail/file", h.UploadThumbnail)
	r.DELETE("/uploads/thumbnail", h.DeleteThumbnail)
	return r
}

func multipartBody(t *testing.T, ownerID, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("owner_id", ownerID))
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	r := newRouter(NewHandler(nil, nil))
	body, contentType := multipartBody(t, "42", "cover.exe", []byte("not an image"))

	req := httptest.NewRequest(http.MethodPost, "/uploads/thumbnail/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRequiresOwnerAndFile(t *testing.T) {
	r := newRouter(NewHandler(nil, nil))

	body, contentType := multipartBody(t, "", "cover.png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/uploads/thumbnail/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/uploads/thumbnail/file", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadWithoutStorageConfigured(t *testing.T) {
	r := newRouter(NewHandler(nil, nil))
	body, contentType := multipartBody(t, "42", "cover.png", []byte("png"))

	req := httptest.NewRequest(http.MethodPost, "/uploads/thumbnail/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDeleteRequiresOwnerAndFilename(t *testing.T) {
	r := newRouter(NewHandler(nil, nil))

	req := httptest.NewRequest(http.MethodDelete, "/uploads/thumbnail?owner_id=42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestObjectKeyStripsPathTraversal(t *testing.T) {
	assert.Equal(t, "thumbnails/42/cover.png", storage.ObjectKey(storage.FolderThumbnails, "42", "cover.png"))
	assert.Equal(t, "headshots/7/evil.png", storage.ObjectKey(storage.FolderHeadshots, "7", "../../evil.png"))
}
