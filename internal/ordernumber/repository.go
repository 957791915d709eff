package ordernumber

import (
	"sync"
	"time"
)

// Repository hands out per-day order sequences. Implementations must make
// NextSequence atomic: every call returns a distinct value for a given day,
// even under concurrent callers.
type Repository interface {
	NextSequence(day time.Time) (int, error)
}

// InMemoryRepository for tests.
type InMemoryRepository struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{counters: map[string]int{}}
}

func (r *InMemoryRepository) NextSequence(day time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := day.Format("2006-01-02")
	r.counters[key]++
	return r.counters[key], nil
}
