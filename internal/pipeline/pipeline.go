package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// Process orchestrates one recording through the entire pipeline.
func (p *implPipeline) Process(ctx context.Context, filename string, audio io.Reader) (*Run, error) {
	startTime := time.Now()
	p.running.Add(1)
	defer p.running.Done()

	id := logger.RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = logger.WithRequestID(ctx, id)
	}
	run := newRun(id, filename, p.observer, p.logger)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting meeting processing: %s", filename)
	p.logger.Info(ctx, "========================================")

	if p.sem.inFlight() > 0 {
		p.logger.Debug(ctx, "Waiting for a processing slot (%d in flight)", p.sem.inFlight())
	}
	if err := p.sem.acquire(ctx); err != nil {
		return run, run.fail(ctx, StateSaved, err)
	}
	defer p.sem.release()

	// Step 1: Save the upload
	audioPath, err := p.audio.Save(ctx, filename, audio)
	if err != nil {
		return run, run.fail(ctx, StateSaved, err)
	}
	p.mustAdvance(ctx, run, StateSaved)
	p.logger.Info(ctx, "Audio file saved to: %s", audioPath)

	// Step 2: Transcribe
	p.logger.Info(ctx, "Transcribing audio... This may take a while.")
	transcript, segments, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		p.cleanup(ctx, audioPath)
		return run, run.fail(ctx, StateTranscribed, err)
	}
	run.Segments = segments
	p.mustAdvance(ctx, run, StateTranscribed)
	p.logger.Info(ctx, "Transcription complete: %d segments, %d chars", len(segments), len(transcript))

	// Step 3: Summarize
	p.logger.Info(ctx, "Summarizing transcript... This is the slowest step.")
	summary, err := p.summarizer.Summarize(ctx, transcript)
	if err != nil {
		p.cleanup(ctx, audioPath)
		return run, run.fail(ctx, StateSummarized, err)
	}
	summary = summary.Normalize()
	p.mustAdvance(ctx, run, StateSummarized)

	// Step 4: Persist
	rec := meeting.Record{
		Filename:   filename,
		Transcript: transcript,
		Summary:    summary.Summary,
		Decisions:  summary.KeyDecisions,
		Actions:    summary.ActionItems,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	recID, err := p.store.Insert(ctx, rec)
	if err != nil {
		p.cleanup(ctx, audioPath)
		return run, run.fail(ctx, StatePersisted, err)
	}
	rec.ID = recID
	run.Record = rec
	p.mustAdvance(ctx, run, StatePersisted)
	p.logger.Info(ctx, "Results saved to database: %s", recID)

	// Step 5: Clean up
	p.cleanup(ctx, audioPath)
	p.mustAdvance(ctx, run, StateCleanedUp)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Meeting id: %s", recID)
	p.logger.Info(ctx, "Decisions: %d, action items: %d", len(rec.Decisions), len(rec.Actions))
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return run, nil
}

func (p *implPipeline) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cleanup removes the temporary upload. Failures are logged only.
func (p *implPipeline) cleanup(ctx context.Context, audioPath string) {
	if err := p.audio.Delete(ctx, audioPath); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", audioPath, err)
		return
	}
	p.logger.Info(ctx, "Temporary file %s removed", audioPath)
}

// mustAdvance only fails on a programming error in the step order above.
func (p *implPipeline) mustAdvance(ctx context.Context, run *Run, to State) {
	if err := run.advance(ctx, to); err != nil {
		panic(err)
	}
}
