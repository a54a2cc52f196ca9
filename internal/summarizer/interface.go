package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// Summarizer turns a transcript into a structured summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (meeting.StructuredSummary, error)
}
