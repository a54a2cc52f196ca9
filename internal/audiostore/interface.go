package audiostore

import (
	"context"
	"io"
)

// Store keeps uploaded audio on local disk while the pipeline works on it.
type Store interface {
	// Save writes r to a new file derived from name and returns its path.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Delete removes a saved file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
}
