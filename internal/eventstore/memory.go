package eventstore

import (
	"context"
	"fmt"
	"sync"
)

type memoryStore struct {
	mu         sync.RWMutex
	logs       map[string][]Record
	appendErr  error
	appendOnce bool
}

// NewMemory creates a concurrency-safe in-memory event store. It backs the
// development configuration and unit tests.
func NewMemory() Store {
	return &memoryStore{logs: make(map[string][]Record)}
}

func (s *memoryStore) Append(_ context.Context, accountID string, rec Record) error {
	if accountID == "" {
		return ErrInvalidAccountID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appendErr != nil {
		err := s.appendErr
		if s.appendOnce {
			s.appendErr = nil
		}
		return fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}

	// Copy the payload so callers cannot mutate persisted history.
	data := make([]byte, len(rec.Data))
	copy(data, rec.Data)
	s.logs[accountID] = append(s.logs[accountID], Record{Kind: rec.Kind, Data: data})
	return nil
}

func (s *memoryStore) ReadAll(_ context.Context, accountID string) ([]Record, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[accountID]
	out := make([]Record, len(log))
	copy(out, log)
	return out, nil
}
