package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const uploadField = "file"

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// process accepts one recording and answers with the stored meeting record.
func (h *handler) process(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("upload exceeds %d MB", h.maxUploadBytes>>20),
			})
			return
		}
		badRequest(c, fmt.Sprintf("multipart field %q is required", uploadField))
		return
	}
	if c.Request.MultipartForm != nil && len(c.Request.MultipartForm.File[uploadField]) > 1 {
		badRequest(c, "exactly one file per request")
		return
	}

	file, err := header.Open()
	if err != nil {
		badRequest(c, fmt.Sprintf("read upload: %v", err))
		return
	}
	defer file.Close()

	// A client disconnect must not abort work already underway.
	ctx := context.WithoutCancel(c.Request.Context())

	run, err := h.pipeline.Process(ctx, header.Filename, file)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, run.Record)
	if err := run.Respond(ctx); err != nil {
		h.logger.Warn(ctx, "Run %s: %v", run.ID, err)
	}
}
