package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/meeting-digest/internal/httpapi"
	"github.com/nguyentantai21042004/meeting-digest/internal/watcher"
)

const shutdownTimeout = 30 * time.Second

type serveCmd struct{}

func (serveCmd) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cli.Config, os.Stdout)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:         a.cfg.Server.Address,
		Handler:      httpapi.New(a.cfg, a.pipeline, a.store, a.log),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errChan := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	watchDone := make(chan struct{})
	if a.cfg.Watcher.Enabled {
		handler := watcher.NewPipelineHandler(a.pipeline, a.cfg.Paths.Output, a.cfg.Paths.Archived, a.log)
		w, err := watcher.New(a.cfg.Paths.Inbox, handler, a.log, a.cfg.Performance.MaxConcurrent)
		if err != nil {
			srv.Close()
			a.close(context.Background())
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Stop()

		go func() {
			defer close(watchDone)
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("watcher: %w", err)
			}
		}()
	} else {
		close(watchDone)
	}

	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "Meeting Digest is ready!")
	a.log.Info(ctx, "Listening on %s", a.cfg.Server.Address)
	if a.cfg.Watcher.Enabled {
		a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Inbox)
		a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
	}
	a.log.Info(ctx, "Press Ctrl+C to stop")
	a.log.Info(ctx, "========================================")

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info(context.Background(), "Shutdown signal received")
	case runErr = <-errChan:
		a.log.Error(context.Background(), "%v", runErr)
	}

	a.log.Info(context.Background(), "Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Warn(shutdownCtx, "HTTP shutdown: %v", err)
	}
	<-watchDone

	// Uploads keep running after their client is gone, so the model and the
	// store stay open until those runs finish.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), a.cfg.Server.WriteTimeout)
	defer drainCancel()
	a.log.Info(drainCtx, "Waiting for in-flight meetings to finish...")
	if err := a.pipeline.Wait(drainCtx); err != nil {
		a.log.Warn(drainCtx, "In-flight meetings did not finish: %v; leaving model and store open", err)
		return runErr
	}
	a.close(context.Background())

	a.log.Info(context.Background(), "Meeting Digest stopped")
	return runErr
}
