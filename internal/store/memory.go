package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]meeting.Record
}

// NewMemory creates a process-local Store. Records are lost on exit.
func NewMemory() Store {
	return &memoryStore{records: make(map[string]meeting.Record)}
}

func (s *memoryStore) Insert(ctx context.Context, rec meeting.Record) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", meeting.Wrap(meeting.ErrPersistence, fmt.Errorf("generate id: %w", err))
	}

	rec = clone(rec)
	rec.ID = id.String()

	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()

	return rec.ID, nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (meeting.Record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return meeting.Record{}, meeting.Wrap(meeting.ErrNotFound, fmt.Errorf("meeting %s", id))
	}
	return clone(rec), nil
}

func (s *memoryStore) Close(ctx context.Context) error {
	return nil
}

func clone(rec meeting.Record) meeting.Record {
	rec.Decisions = append([]string{}, rec.Decisions...)
	rec.Actions = append([]meeting.ActionItem{}, rec.Actions...)
	return rec
}
