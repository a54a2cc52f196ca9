package store

import (
	"context"

	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// Store persists meeting records. Implementations are safe for concurrent use.
type Store interface {
	// Insert appends rec and returns its newly assigned id.
	Insert(ctx context.Context, rec meeting.Record) (string, error)
	// Get returns the record stored under id, or meeting.ErrNotFound.
	Get(ctx context.Context, id string) (meeting.Record, error)
	Close(ctx context.Context) error
}
