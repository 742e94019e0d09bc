package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akmalqodirov005/e-commerse/internal/storage"
)

const maxUploadSize = 10 << 20

// Uploader stores admin files and returns a URL the shop API can reference.
type Uploader interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (storage.Object, error)
}

var uploadFolders = map[string]bool{"products": true, "categories": true, "locations": true, "avatars": true}

// Upload handles POST /api/admin/uploads (multipart field "file", optional "folder").
func Upload(up Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if up == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": storage.ErrNotConfigured.Error()})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+(1<<20))
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fh.Size > maxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		folder := c.PostForm("folder")
		if !uploadFolders[folder] {
			folder = "uploads"
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		obj, err := up.Upload(c.Request.Context(), folder, fh.Filename, f, fh.Size, ct)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, obj)
	}
}
