package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// cliTranscriber shells out to the whisper.cpp command line tool.
type cliTranscriber struct {
	base
	tempDir string
}

func (t *cliTranscriber) Transcribe(ctx context.Context, audioPath string) (string, []meeting.Segment, error) {
	startTime := time.Now()

	if err := os.MkdirAll(t.tempDir, 0755); err != nil {
		return "", nil, meeting.Wrap(meeting.ErrIO, fmt.Errorf("create temp dir: %w", err))
	}

	// Isolated working dir per call so concurrent jobs never share files.
	workDir, err := os.MkdirTemp(t.tempDir, "whisper-*")
	if err != nil {
		return "", nil, meeting.Wrap(meeting.ErrIO, fmt.Errorf("create work dir: %w", err))
	}
	defer os.RemoveAll(workDir)

	const outputName = "audio"
	wavPath := filepath.Join(workDir, outputName+".wav")
	if err := t.convertToWAV(ctx, audioPath, wavPath); err != nil {
		return "", nil, meeting.Wrap(meeting.ErrTranscription, err)
	}

	modelPath, err := filepath.Abs(t.cfg.ModelPath)
	if err != nil {
		return "", nil, meeting.Wrap(meeting.ErrIO, fmt.Errorf("resolve model path: %w", err))
	}

	// A binary given as a path must not be resolved against workDir.
	binary := t.cfg.BinaryPath
	if strings.ContainsRune(binary, filepath.Separator) {
		if binary, err = filepath.Abs(binary); err != nil {
			return "", nil, meeting.Wrap(meeting.ErrIO, fmt.Errorf("resolve whisper binary: %w", err))
		}
	}

	t.logger.Info(ctx, "Starting whisper-cli with %d threads: %s", t.cfg.Threads, audioPath)

	// -oj: JSON output with per-segment offsets in milliseconds
	// -bs: beam size
	// Paths below are relative to workDir.
	args := []string{
		"-m", modelPath,
		"-f", filepath.Base(wavPath),
		"-oj",
		"-l", t.cfg.Language,
		"-t", strconv.Itoa(t.cfg.Threads),
		"-bs", strconv.Itoa(t.cfg.BeamSize),
		"--output-file", outputName,
	}
	if t.cfg.Prompt != "" {
		args = append(args, "--prompt", t.cfg.Prompt)
	}

	if _, err := t.executor.ExecuteInDir(ctx, workDir, binary, args...); err != nil {
		return "", nil, meeting.Wrap(meeting.ErrTranscription, fmt.Errorf("whisper transcribe: %w", err))
	}

	data, err := os.ReadFile(filepath.Join(workDir, outputName+".json"))
	if err != nil {
		return "", nil, meeting.Wrap(meeting.ErrTranscription, fmt.Errorf("read whisper output: %w", err))
	}

	segments, err := parseWhisperJSON(data)
	if err != nil {
		return "", nil, meeting.Wrap(meeting.ErrTranscription, err)
	}

	text, collected, err := Collect(&sliceSource{segments: segments})
	if err != nil {
		return "", nil, meeting.Wrap(meeting.ErrTranscription, err)
	}

	t.logger.Info(ctx, "Transcription completed: %d segments in %s", len(collected), time.Since(startTime))
	return text, collected, nil
}

func (t *cliTranscriber) Close() error {
	return nil
}

type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseWhisperJSON(data []byte) ([]meeting.Segment, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	segments := make([]meeting.Segment, 0, len(out.Transcription))
	for i, entry := range out.Transcription {
		segments = append(segments, meeting.Segment{
			Index: i,
			Start: time.Duration(entry.Offsets.From) * time.Millisecond,
			End:   time.Duration(entry.Offsets.To) * time.Millisecond,
			Text:  entry.Text,
		})
	}
	return segments, nil
}
