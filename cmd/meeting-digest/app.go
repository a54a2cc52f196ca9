package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/nguyentantai21042004/meeting-digest/internal/audiostore"
	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	"github.com/nguyentantai21042004/meeting-digest/internal/generator"
	"github.com/nguyentantai21042004/meeting-digest/internal/generator/anthropic"
	"github.com/nguyentantai21042004/meeting-digest/internal/generator/gemini"
	"github.com/nguyentantai21042004/meeting-digest/internal/generator/openai"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-digest/internal/store"
	"github.com/nguyentantai21042004/meeting-digest/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-digest/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-digest/pkg/executor"
)

// app holds the process-wide singletons, built once at startup.
type app struct {
	cfg         *config.Config
	log         logger.Logger
	transcriber transcriber.Transcriber
	store       store.Store
	pipeline    pipeline.Pipeline
}

func newApp(ctx context.Context, configPath string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithWriter(logOut, cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Digest")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	log.Info(ctx, "Loading whisper model (%s engine): %s", cfg.Whisper.Engine, cfg.Whisper.ModelPath)
	tr, err := transcriber.New(cfg, executor.New(), log)
	if err != nil {
		return nil, fmt.Errorf("init transcriber: %w", err)
	}

	st, err := newStore(ctx, cfg)
	if err != nil {
		tr.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	log.Info(ctx, "Result store: %s", cfg.Store.Driver)

	gen := newGenerator(cfg, log)
	log.Info(ctx, "Summarizer: %s model %s", cfg.LLM.Provider, cfg.LLM.Model)
	sum := summarizer.New(gen, log, cfg.LLM.Timeout, cfg.LLM.MaxAttempts)

	p := pipeline.New(cfg, audiostore.New(cfg.Paths.Temp, log), tr, sum, st, log)

	return &app{cfg: cfg, log: log, transcriber: tr, store: st, pipeline: p}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.store.Close(ctx); err != nil {
		a.log.Warn(ctx, "Failed to close store: %v", err)
	}
	if err := a.transcriber.Close(); err != nil {
		a.log.Warn(ctx, "Failed to close transcriber: %v", err)
	}
}

func newGenerator(cfg *config.Config, log logger.Logger) generator.Generator {
	opts := []generator.Option{
		generator.WithApiKeys(cfg.LLM.APIKeys...),
		generator.WithModel(cfg.LLM.Model),
		generator.WithJSONMode(),
	}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, generator.WithBaseURL(cfg.LLM.BaseURL))
	}

	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		return gemini.NewGenerator(log, opts...)
	case config.ProviderAnthropic:
		return anthropic.NewGenerator(opts...)
	default:
		return openai.NewGenerator(opts...)
	}
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return store.ConnectPostgres(ctx, cfg.Store.URI, cfg.Store.Collection)
	case config.DriverMemory:
		return store.NewMemory(), nil
	default:
		return store.ConnectMongo(ctx, cfg.Store.URI, cfg.Store.Database, cfg.Store.Collection)
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Paths.Temp, cfg.Paths.Output}
	if cfg.Watcher.Enabled {
		dirs = append(dirs, cfg.Paths.Inbox, cfg.Paths.Archived)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
