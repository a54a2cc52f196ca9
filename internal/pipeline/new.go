package pipeline

import (
	"sync"

	"github.com/nguyentantai21042004/meeting-digest/internal/audiostore"
	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/store"
	"github.com/nguyentantai21042004/meeting-digest/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-digest/internal/transcriber"
)

type implPipeline struct {
	audio       audiostore.Store
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	store       store.Store
	logger      logger.Logger
	sem         *semaphore
	observer    Observer
	running     sync.WaitGroup
}

type Option func(*implPipeline)

// WithObserver registers fn to be told about every state transition.
func WithObserver(fn Observer) Option {
	return func(p *implPipeline) {
		p.observer = fn
	}
}

// New creates a Pipeline. All collaborators are shared across requests and
// must be safe for concurrent use.
func New(
	cfg *config.Config,
	audio audiostore.Store,
	tr transcriber.Transcriber,
	sum summarizer.Summarizer,
	st store.Store,
	log logger.Logger,
	opts ...Option,
) Pipeline {
	p := &implPipeline{
		audio:       audio,
		transcriber: tr,
		summarizer:  sum,
		store:       st,
		logger:      log,
		sem:         newSemaphore(cfg.Performance.MaxConcurrent),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
