package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps score series in process memory. Each entity key owns its
// own mutex so runs for different entities never block one another.
type MemoryStore struct {
	mu     sync.Mutex
	series map[string][]Record
	locks  map[string]*sync.Mutex
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		series: make(map[string][]Record),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) entityLock(entity string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[entity]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[entity] = lock
	}
	return lock
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, entity string, rec Record) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := s.entityLock(entity)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	current := s.series[entity]
	s.mu.Unlock()

	prior := make([]Record, len(current))
	copy(prior, current)

	updated := appendTrimmed(current, rec)

	s.mu.Lock()
	s.series[entity] = updated
	s.mu.Unlock()

	return prior, nil
}

// Series implements Store.
func (s *MemoryStore) Series(ctx context.Context, entity string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := s.entityLock(entity)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	current := s.series[entity]
	s.mu.Unlock()

	out := make([]Record, len(current))
	copy(out, current)
	return out, nil
}

// appendTrimmed appends a record, keeps the series ordered by timestamp and
// evicts the oldest entries once the retention cap is exceeded.
func appendTrimmed(series []Record, rec Record) []Record {
	updated := make([]Record, 0, len(series)+1)
	updated = append(updated, series...)
	updated = append(updated, rec)

	sort.SliceStable(updated, func(i, j int) bool {
		return updated[i].Timestamp.Before(updated[j].Timestamp)
	})

	if excess := len(updated) - RetentionCap; excess > 0 {
		updated = updated[excess:]
	}
	return updated
}
