package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// Transcriber converts an audio file into an ordered transcript.
type Transcriber interface {
	// Transcribe returns the space-joined transcript and the segments it was built from.
	Transcribe(ctx context.Context, audioPath string) (string, []meeting.Segment, error)
	// Close releases the loaded model.
	Close() error
}

// SegmentSource yields segments in chronological order, one pass only.
// Next returns io.EOF once the audio is exhausted.
type SegmentSource interface {
	Next() (meeting.Segment, error)
}
