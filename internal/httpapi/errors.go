package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// statusFor maps the error taxonomy to a response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, meeting.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, meeting.ErrTranscription):
		return http.StatusUnprocessableEntity
	case errors.Is(err, meeting.ErrSummaryParse):
		return http.StatusBadGateway
	case errors.Is(err, meeting.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "Request failed: %v", err)
	} else {
		h.logger.Warn(c.Request.Context(), "Request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
