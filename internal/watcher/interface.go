package watcher

import "context"

// Watcher monitors the inbox directory for dropped recordings.
type Watcher interface {
	// Start blocks until ctx is cancelled, then waits for in-flight handlers.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one newly created audio file.
type EventHandler func(ctx context.Context, filePath string) error
