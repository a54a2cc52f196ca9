package audiostore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

func TestSaveAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "temp_audio")
	s := New(dir, logger.Nop())

	path, err := s.Save(ctx, "standup.mp3", strings.NewReader("ID3 data"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("Save() path %s not in %s", path, dir)
	}
	if !strings.HasSuffix(path, "_standup.mp3") {
		t.Errorf("Save() path %s should keep the original name", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ID3 data" {
		t.Errorf("content = %q", data)
	}

	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Delete()")
	}

	// Second delete is a no-op.
	if err := s.Delete(ctx, path); err != nil {
		t.Errorf("Delete() on removed file error = %v", err)
	}
}

func TestSaveSameNameConcurrently(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir(), logger.Nop())

	const n = 8
	paths := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.Save(ctx, "meeting.wav", strings.NewReader(strings.Repeat("x", i+1)))
			if err != nil {
				t.Errorf("Save() error = %v", err)
				return
			}
			paths[i] = p
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i, p := range paths {
		if seen[p] {
			t.Fatalf("duplicate path %s", p)
		}
		seen[p] = true

		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) != i+1 {
			t.Errorf("file %d has %d bytes, want %d", i, len(data), i+1)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestSaveReadFailure(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, logger.Nop())

	_, err := s.Save(context.Background(), "a.m4a", failingReader{})
	if !errors.Is(err, meeting.ErrIO) {
		t.Fatalf("Save() error = %v, want ErrIO", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("partial file left behind: %v", entries)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"standup.mp3", "standup.mp3"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\a\call 1.wav`, "call_1.wav"},
		{"", "upload"},
		{".hidden.m4a", "hidden.m4a"},
		{"réunion.mp3", "r_union.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := sanitizeName(tt.in); got != tt.want {
				t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
