package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
	"github.com/nguyentantai21042004/meeting-digest/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-digest/internal/report"
)

// NewPipelineHandler runs each dropped recording through p, writes
// <file>.json, <file>.docx and a timestamped <file>.srt to outputDir, where
// <file> keeps its audio extension so standup.mp3 and standup.wav do not
// collide, and moves the recording to archivedDir. A failed recording stays
// in the inbox.
func NewPipelineHandler(p pipeline.Pipeline, outputDir, archivedDir string, log logger.Logger) EventHandler {
	return func(ctx context.Context, filePath string) error {
		ctx = logger.WithRequestID(ctx, uuid.NewString())

		f, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("open recording: %w", err)
		}
		name := filepath.Base(filePath)
		run, err := p.Process(ctx, name, f)
		f.Close()
		if err != nil {
			return err
		}

		base := name
		data, err := json.MarshalIndent(run.Record, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		jsonPath := filepath.Join(outputDir, base+".json")
		if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		docxPath := filepath.Join(outputDir, base+".docx")
		if err := report.WriteDocx(run.Record, docxPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		srtPath := filepath.Join(outputDir, base+".srt")
		if err := writeSRTFile(srtPath, run.Segments); err != nil {
			return fmt.Errorf("write transcript: %w", err)
		}
		log.Info(ctx, "Results written to %s: %s.json, %s.docx, %s.srt", outputDir, base, base, base)

		if err := run.Respond(ctx); err != nil {
			return err
		}

		if err := moveToArchived(filePath, archivedDir); err != nil {
			log.Warn(ctx, "Failed to archive %s: %v", filePath, err)
			return nil
		}
		log.Info(ctx, "Archived recording: %s", name)
		return nil
	}
}

func writeSRTFile(path string, segments []meeting.Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteSRT(f, segments); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// moveToArchived renames src into dir, falling back to copy and delete when
// dir is on another filesystem.
func moveToArchived(src, dir string) error {
	dst := filepath.Join(dir, filepath.Base(src))
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write archive copy: %w", err)
	}
	return os.Remove(src)
}
