package runlog

import (
	"context"
	"sync"
)

// MemoryStore is a ring of the latest runs held in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	runs     []Run // newest last
	capacity int
}

// NewMemoryStore keeps up to capacity runs; a non-positive capacity uses
// the default.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemoryStore{capacity: capacity}
}

func (s *MemoryStore) Record(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, normalize(run))
	if over := len(s.runs) - s.capacity; over > 0 {
		s.runs = append(s.runs[:0:0], s.runs[over:]...)
	}
	return nil
}

// Latest returns up to n runs, newest first. n <= 0 returns all of them.
func (s *MemoryStore) Latest(_ context.Context, n int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.runs) {
		n = len(s.runs)
	}
	out := make([]Run, 0, n)
	for i := len(s.runs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}
