package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/meeting-digest/internal/report"
)

type processCmd struct {
	File   string `arg:"" type:"existingfile" help:"Audio recording to process"`
	Report string `help:"Also write a DOCX report to this path" type:"path"`
}

func (c *processCmd) Run() error {
	ctx := context.Background()

	// stdout carries the JSON result only
	a, err := newApp(ctx, cli.Config, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	run, err := a.pipeline.Process(ctx, filepath.Base(c.File), f)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run.Record); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if c.Report != "" {
		if err := report.WriteDocx(run.Record, c.Report); err != nil {
			return err
		}
		a.log.Info(ctx, "Report written: %s", c.Report)
	}
	return run.Respond(ctx)
}
