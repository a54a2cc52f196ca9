package summarizer

import (
	"time"

	"github.com/nguyentantai21042004/meeting-digest/internal/generator"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
)

type implSummarizer struct {
	generator   generator.Generator
	logger      logger.Logger
	timeout     time.Duration
	maxAttempts int
}

// New creates a Summarizer on top of gen. Each call is bounded by timeout and
// retried on malformed output up to maxAttempts calls in total.
func New(gen generator.Generator, log logger.Logger, timeout time.Duration, maxAttempts int) Summarizer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &implSummarizer{
		generator:   gen,
		logger:      log,
		timeout:     timeout,
		maxAttempts: maxAttempts,
	}
}
