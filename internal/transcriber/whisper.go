package transcriber

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// bindingsTranscriber runs whisper.cpp in-process through its Go bindings.
type bindingsTranscriber struct {
	base
	model whisper.Model

	// inferenceMu covers Process and the segment drain; results are read
	// back from the model's single whisper_context.
	inferenceMu sync.Mutex
}

func newBindingsTranscriber(b base, model whisper.Model) *bindingsTranscriber {
	return &bindingsTranscriber{base: b, model: model}
}

func (t *bindingsTranscriber) Transcribe(ctx context.Context, audioPath string) (string, []meeting.Segment, error) {
	startTime := time.Now()

	samples, err := t.decodePCM(ctx, audioPath)
	if err != nil {
		return "", nil, meeting.Wrap(meeting.ErrTranscription, err)
	}

	// One context per call carries this request's params.
	wctx, err := t.model.NewContext()
	if err != nil {
		return "", nil, meeting.Wrap(meeting.ErrTranscription, fmt.Errorf("create whisper context: %w", err))
	}
	t.configure(ctx, wctx)

	t.logger.Info(ctx, "Starting transcription with %d threads: %s", t.cfg.Threads, audioPath)

	// Segments live in the model's shared whisper_context, so they must be
	// drained before another call may run Process.
	t.inferenceMu.Lock()
	defer t.inferenceMu.Unlock()

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", nil, meeting.Wrap(meeting.ErrTranscription, fmt.Errorf("whisper process: %w", err))
	}

	text, segments, err := Collect(&contextSource{ctx: wctx})
	if err != nil {
		return "", nil, meeting.Wrap(meeting.ErrTranscription, err)
	}

	t.logger.Info(ctx, "Transcription completed: %d segments in %s", len(segments), time.Since(startTime))
	return text, segments, nil
}

func (t *bindingsTranscriber) configure(ctx context.Context, wctx whisper.Context) {
	if err := wctx.SetLanguage(t.cfg.Language); err != nil {
		// English-only models reject "auto"; they still transcribe fine.
		t.logger.Debug(ctx, "Set language %q: %v", t.cfg.Language, err)
	}
	wctx.SetTranslate(false)
	if t.cfg.Threads > 0 {
		wctx.SetThreads(uint(t.cfg.Threads))
	}
	if t.cfg.Prompt != "" {
		wctx.SetInitialPrompt(t.cfg.Prompt)
	}
}

func (t *bindingsTranscriber) Close() error {
	return t.model.Close()
}

// contextSource pulls segments lazily from a processed whisper context.
type contextSource struct {
	ctx whisper.Context
}

func (s *contextSource) Next() (meeting.Segment, error) {
	seg, err := s.ctx.NextSegment()
	if err != nil {
		return meeting.Segment{}, err
	}
	return meeting.Segment{
		Index: seg.Num,
		Start: seg.Start,
		End:   seg.End,
		Text:  seg.Text,
	}, nil
}
