package pipeline

import (
	"context"
	"io"
)

// Pipeline runs one uploaded recording through save, transcribe, summarize,
// persist and cleanup.
type Pipeline interface {
	// Process always returns the Run, also on failure, so callers can inspect
	// where it stopped. The error is a *StageError.
	Process(ctx context.Context, filename string, audio io.Reader) (*Run, error)
	// Wait blocks until every started run has finished or ctx is done.
	Wait(ctx context.Context) error
}

// Observer is called on every state transition of every run.
type Observer func(run *Run, from, to State)
