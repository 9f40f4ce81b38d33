package handler

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mbela/lookbook/internal/storage"
)

// UploadsHandler serves stored images under /uploads, streaming from whatever
// object storage backend is configured.
type UploadsHandler struct {
	storage storage.ObjectStorage
}

// NewUploadsHandler creates a new uploads handler.
func NewUploadsHandler(objectStorage storage.ObjectStorage) *UploadsHandler {
	return &UploadsHandler{storage: objectStorage}
}

// Serve handles GET /uploads/*filepath.
func (h *UploadsHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("filepath"), "/")
	if key == "" || strings.Contains(key, "..") {
		c.Status(http.StatusNotFound)
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), key)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
