package watcher

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-digest/internal/audiostore"
	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
	"github.com/nguyentantai21042004/meeting-digest/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-digest/internal/store"
)

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/inbox/standup.mp3", true},
		{"/inbox/Weekly.WAV", true},
		{"/inbox/call.m4a", true},
		{"/inbox/voice.ogg", true},
		{"/inbox/board.flac", true},
		{"/inbox/screen.webm", true},
		{"/inbox/notes.txt", false},
		{"/inbox/video.mp4", false},
		{"/inbox/mp3", false},
	}
	for _, tt := range tests {
		if got := isAudioFile(tt.path); got != tt.want {
			t.Errorf("isAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

type stubTranscriber struct{ err error }

func (s stubTranscriber) Transcribe(ctx context.Context, path string) (string, []meeting.Segment, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return "Alice will send the agenda.", []meeting.Segment{{Text: "Alice will send the agenda."}}, nil
}

func (stubTranscriber) Close() error { return nil }

type stubSummarizer struct{}

func (stubSummarizer) Summarize(ctx context.Context, transcript string) (meeting.StructuredSummary, error) {
	return meeting.StructuredSummary{
		Summary:     "Agenda follow-up.",
		ActionItems: []meeting.ActionItem{meeting.NewActionItem("Send agenda", "Alice", "Monday")},
	}, nil
}

type dirs struct {
	temp, inbox, output, archived string
}

func newDirs(t *testing.T) dirs {
	t.Helper()
	root := t.TempDir()
	d := dirs{
		temp:     filepath.Join(root, "temp"),
		inbox:    filepath.Join(root, "inbox"),
		output:   filepath.Join(root, "output"),
		archived: filepath.Join(root, "archived"),
	}
	for _, p := range []string{d.temp, d.inbox, d.output, d.archived} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func newTestPipeline(d dirs, tr stubTranscriber) pipeline.Pipeline {
	cfg := &config.Config{Performance: config.PerformanceConfig{MaxConcurrent: 1}}
	return pipeline.New(cfg, audiostore.New(d.temp, logger.Nop()), tr, stubSummarizer{}, store.NewMemory(), logger.Nop())
}

func TestPipelineHandler(t *testing.T) {
	d := newDirs(t)
	src := filepath.Join(d.inbox, "planning.mp3")
	if err := os.WriteFile(src, []byte("ID3 audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	handler := NewPipelineHandler(newTestPipeline(d, stubTranscriber{}), d.output, d.archived, logger.Nop())
	if err := handler(context.Background(), src); err != nil {
		t.Fatalf("handler() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(d.output, "planning.mp3.json"))
	if err != nil {
		t.Fatalf("json result missing: %v", err)
	}
	var rec meeting.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if rec.ID == "" || rec.Filename != "planning.mp3" || len(rec.Actions) != 1 {
		t.Errorf("record = %+v", rec)
	}
	if _, err := os.Stat(filepath.Join(d.output, "planning.mp3.docx")); err != nil {
		t.Errorf("docx report missing: %v", err)
	}
	srt, err := os.ReadFile(filepath.Join(d.output, "planning.mp3.srt"))
	if err != nil || !strings.Contains(string(srt), "Alice will send the agenda.") {
		t.Errorf("srt transcript = %q, err = %v", srt, err)
	}
	if _, err := os.Stat(filepath.Join(d.archived, "planning.mp3")); err != nil {
		t.Errorf("recording not archived: %v", err)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("recording still in inbox: %v", err)
	}
}

func TestPipelineHandlerSameBaseName(t *testing.T) {
	d := newDirs(t)
	handler := NewPipelineHandler(newTestPipeline(d, stubTranscriber{}), d.output, d.archived, logger.Nop())

	ids := map[string]string{}
	for _, name := range []string{"standup.mp3", "standup.wav"} {
		src := filepath.Join(d.inbox, name)
		if err := os.WriteFile(src, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := handler(context.Background(), src); err != nil {
			t.Fatalf("handler(%s) error = %v", name, err)
		}
	}

	for _, name := range []string{"standup.mp3", "standup.wav"} {
		data, err := os.ReadFile(filepath.Join(d.output, name+".json"))
		if err != nil {
			t.Fatalf("result for %s missing: %v", name, err)
		}
		var rec meeting.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			t.Fatal(err)
		}
		if rec.Filename != name {
			t.Errorf("%s.json holds %s", name, rec.Filename)
		}
		ids[name] = rec.ID
		for _, ext := range []string{".docx", ".srt"} {
			if _, err := os.Stat(filepath.Join(d.output, name+ext)); err != nil {
				t.Errorf("%s%s missing: %v", name, ext, err)
			}
		}
	}
	if ids["standup.mp3"] == ids["standup.wav"] {
		t.Error("both recordings share one result")
	}
}

func TestPipelineHandlerFailureKeepsRecording(t *testing.T) {
	d := newDirs(t)
	src := filepath.Join(d.inbox, "corrupt.wav")
	if err := os.WriteFile(src, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	tr := stubTranscriber{err: meeting.Wrap(meeting.ErrTranscription, errors.New("invalid data"))}
	handler := NewPipelineHandler(newTestPipeline(d, tr), d.output, d.archived, logger.Nop())
	if err := handler(context.Background(), src); !errors.Is(err, meeting.ErrTranscription) {
		t.Fatalf("handler() error = %v, want ErrTranscription", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("failed recording should stay in inbox: %v", err)
	}
	entries, _ := os.ReadDir(d.output)
	if len(entries) != 0 {
		t.Errorf("output has %d files, want 0", len(entries))
	}
}

func TestWatcherDispatchesAudioFiles(t *testing.T) {
	inbox := t.TempDir()
	seen := make(chan string, 4)
	handler := func(ctx context.Context, path string) error {
		seen <- filepath.Base(path)
		return nil
	}

	w, err := New(inbox, handler, logger.Nop(), 1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()
	w.(*implWatcher).settle = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	for _, name := range []string{"notes.txt", "call.ogg"} {
		if err := os.WriteFile(filepath.Join(inbox, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-seen:
		if got != "call.ogg" {
			t.Errorf("handler got %s, want call.ogg", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() = %v, want context.Canceled", err)
	}
	select {
	case extra := <-seen:
		t.Errorf("unexpected handler call for %s", extra)
	default:
	}
}
