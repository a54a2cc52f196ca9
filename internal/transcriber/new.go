package transcriber

import (
	"context"
	"fmt"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/pkg/executor"
)

// base holds what both engines share.
type base struct {
	cfg      config.WhisperConfig
	ffmpeg   string
	executor executor.Executor
	logger   logger.Logger
}

// New creates the Transcriber selected by cfg.Whisper.Engine. The bindings
// engine loads the model here, once per process.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	b := base{
		cfg:      cfg.Whisper,
		ffmpeg:   cfg.FFmpeg.Binary,
		executor: exec,
		logger:   log,
	}

	switch cfg.Whisper.Engine {
	case config.EngineCLI:
		return &cliTranscriber{base: b, tempDir: cfg.Paths.Temp}, nil
	case config.EngineBindings, "":
		// The bindings build greedy sampling params, where beam size is ignored.
		if cfg.Whisper.BeamSize > 1 {
			log.Warn(context.Background(), "whisper.beam_size=%d only applies to the cli engine", cfg.Whisper.BeamSize)
		}
		model, err := whisper.New(cfg.Whisper.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("load whisper model: %w", err)
		}
		return newBindingsTranscriber(b, model), nil
	default:
		return nil, fmt.Errorf("unknown whisper engine %q", cfg.Whisper.Engine)
	}
}
