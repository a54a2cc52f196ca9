package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-digest/internal/store"
)

type handler struct {
	pipeline       pipeline.Pipeline
	store          store.Store
	logger         logger.Logger
	maxUploadBytes int64
	tempDir        string
}

// New builds the HTTP intake. The returned engine is an http.Handler.
func New(cfg *config.Config, p pipeline.Pipeline, st store.Store, log logger.Logger) *gin.Engine {
	h := &handler{
		pipeline:       p,
		store:          st,
		logger:         log,
		maxUploadBytes: cfg.Server.MaxUploadMB << 20,
		tempDir:        cfg.Paths.Temp,
	}

	r := gin.New()
	r.Use(requestID(), accessLog(log), recovery(log))
	h.routes(r)
	return r
}

func (h *handler) routes(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.POST("/process", h.process)
	r.POST("/process/", h.process)
	r.GET("/meetings/:id", h.getMeeting)
	r.GET("/meetings/:id/report", h.getReport)
}
