package store

import (
	"context"
	"sync"

	"schedule-assistant/modules/availability/dto"
)

// BusyStore holds the single latest busy snapshot. Put replaces the snapshot
// wholesale; Get returns nil when no snapshot has been stored.
type BusyStore interface {
	Put(ctx context.Context, response *dto.BusyResponse) error
	Get(ctx context.Context) (*dto.BusyResponse, error)
	Clear(ctx context.Context) error
}

type memoryStore struct {
	mu     sync.RWMutex
	latest *dto.BusyResponse
}

// NewMemoryStore creates an in-process snapshot store guarded by a mutex.
func NewMemoryStore() BusyStore {
	return &memoryStore{}
}

func (s *memoryStore) Put(_ context.Context, response *dto.BusyResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := *response
	snapshot.Intervals = make([]dto.BusyInterval, len(response.Intervals))
	copy(snapshot.Intervals, response.Intervals)
	s.latest = &snapshot
	return nil
}

func (s *memoryStore) Get(_ context.Context) (*dto.BusyResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, nil
	}
	snapshot := *s.latest
	snapshot.Intervals = make([]dto.BusyInterval, len(s.latest.Intervals))
	copy(snapshot.Intervals, s.latest.Intervals)
	return &snapshot, nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = nil
	return nil
}
