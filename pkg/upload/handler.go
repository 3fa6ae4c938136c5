package upload

import (
	"context"
	"io"
	"net/http"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gin-gonic/gin"
)

// maxUploadSize bounds a single uploaded file at 10 MB.
const maxUploadSize = 10 * 1024 * 1024

func NewHandler(uploadService uploadService) Handler {
	return Handler{uploadService}
}

type Handler struct {
	uploadService uploadService
}

type uploadService interface {
	Upload(ctx context.Context, filename string, contentType string, size int64, file io.Reader) (string, error)
}

type UploadResponse struct {
	URL string `json:"url"`
}

// Upload accepts a multipart form with a single "file" part and returns the
// URL the stored file is served under.
func (h Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("error reading file: %v", err))
		return
	}

	if fileHeader.Size > maxUploadSize {
		_ = c.Error(errdef.NewBadRequest("file exceeds the maximum size of %d bytes", maxUploadSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.uploadService.Upload(c.Request.Context(), fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{URL: url})
}
