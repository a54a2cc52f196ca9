package httpapi

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/meeting-digest/internal/report"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func (h *handler) getMeeting(c *gin.Context) {
	rec, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// getReport renders the meeting to a temporary DOCX and streams it back.
func (h *handler) getReport(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.store.Get(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	f, err := os.CreateTemp(h.tempDir, "report-*.docx")
	if err != nil {
		h.writeError(c, fmt.Errorf("report failed: %w", err))
		return
	}
	path := f.Name()
	f.Close()
	defer func() {
		if err := os.Remove(path); err != nil {
			h.logger.Warn(ctx, "Failed to cleanup report %s: %v", path, err)
		}
	}()

	if err := report.WriteDocx(rec, path); err != nil {
		h.writeError(c, fmt.Errorf("report failed: %w", err))
		return
	}

	c.Header("Content-Type", docxContentType)
	c.FileAttachment(path, "meeting-"+rec.ID+".docx")
}
