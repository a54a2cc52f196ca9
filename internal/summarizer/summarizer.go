package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

const summaryPrompt = `You are an expert meeting assistant AI. Your task is to analyze the following meeting transcript and produce a JSON object with three keys: "summary", "key_decisions", and "action_items".

- "summary": A concise paragraph summarizing the meeting's main topics and outcomes.
- "key_decisions": A list of the most important decisions made.
- "action_items": A list where each item is an object with "task", "owner", and "deadline". Default to "Unassigned" or "Not specified" if not mentioned.

Based ONLY on the provided transcript. Return ONLY the JSON object.

Transcript:
"""
%s
"""

JSON Output:
`

// BuildPrompt embeds the transcript verbatim into the instruction prompt.
func BuildPrompt(transcript string) string {
	return fmt.Sprintf(summaryPrompt, transcript)
}

// Summarize asks the model for a structured summary. Malformed output is
// retried; an unreachable model is not.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (meeting.StructuredSummary, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(transcript)
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		startTime := time.Now()
		s.logger.Info(ctx, "[%d/%d] Summarizing transcript (%d chars)", attempt, s.maxAttempts, len(transcript))

		raw, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			return meeting.StructuredSummary{}, meeting.Wrap(meeting.ErrUpstreamUnavailable, fmt.Errorf("call model: %w", err))
		}

		summary, err := Parse(raw)
		if err == nil {
			s.logger.Info(ctx, "Summary ready in %s: %d decisions, %d action items",
				time.Since(startTime), len(summary.KeyDecisions), len(summary.ActionItems))
			return summary, nil
		}

		lastErr = err
		s.logger.Warn(ctx, "Model output rejected on attempt %d: %v", attempt, err)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return meeting.StructuredSummary{}, meeting.Wrap(meeting.ErrUpstreamUnavailable, ctxErr)
		}
	}

	if !errors.Is(lastErr, meeting.ErrSummaryParse) {
		lastErr = meeting.Wrap(meeting.ErrSummaryParse, lastErr)
	}
	return meeting.StructuredSummary{}, fmt.Errorf("after %d attempts: %w", s.maxAttempts, lastErr)
}
