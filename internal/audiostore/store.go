package audiostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// Save writes the stream to <dir>/<uuid>_<name>. The uuid prefix keeps two
// uploads with the same original name apart.
func (s *implStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", meeting.Wrap(meeting.ErrIO, fmt.Errorf("create temp dir: %w", err))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", meeting.Wrap(meeting.ErrIO, fmt.Errorf("generate file id: %w", err))
	}

	path := filepath.Join(s.dir, id.String()+"_"+sanitizeName(name))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", meeting.Wrap(meeting.ErrIO, fmt.Errorf("create temp file: %w", err))
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", meeting.Wrap(meeting.ErrIO, fmt.Errorf("write temp file: %w", err))
	}

	s.logger.Info(ctx, "Audio saved: %s (%d bytes)", path, n)
	return path, nil
}

// Delete removes the file at path. A file that is already gone counts as deleted.
func (s *implStore) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug(ctx, "Temp file already removed: %s", path)
			return nil
		}
		return meeting.Wrap(meeting.ErrIO, fmt.Errorf("remove temp file: %w", err))
	}

	s.logger.Debug(ctx, "Cleaned up temp file: %s", path)
	return nil
}

// sanitizeName keeps only the base name and replaces characters that are
// awkward on disk or inside ffmpeg arguments.
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "upload"
	}
	return out
}
