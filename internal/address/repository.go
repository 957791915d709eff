package address

import (
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("address not found")

type Repository interface {
	ListByUser(userID string) ([]SavedAddress, error)
	Add(addr SavedAddress) (SavedAddress, error)
	Update(addr SavedAddress) (SavedAddress, error)
	Delete(userID string, addressID int) error
}

// InMemoryRepository for tests.
type InMemoryRepository struct {
	mu     sync.Mutex
	data   map[string][]SavedAddress // keyed by userID
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: map[string][]SavedAddress{}}
}

func (r *InMemoryRepository) ListByUser(userID string) ([]SavedAddress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SavedAddress, len(r.data[userID]))
	copy(out, r.data[userID])
	return out, nil
}

func (r *InMemoryRepository) Add(addr SavedAddress) (SavedAddress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	addr.ID = r.nextID
	addr.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	addr.UpdatedAt = addr.CreatedAt
	if addr.IsDefault {
		r.clearDefault(addr.UserID)
	}
	r.data[addr.UserID] = append(r.data[addr.UserID], addr)
	return addr, nil
}

func (r *InMemoryRepository) Update(addr SavedAddress) (SavedAddress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addrs := r.data[addr.UserID]
	for i, a := range addrs {
		if a.ID == addr.ID {
			if addr.IsDefault && !a.IsDefault {
				r.clearDefault(addr.UserID)
			}
			addr.CreatedAt = a.CreatedAt
			addr.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			r.data[addr.UserID][i] = addr
			return addr, nil
		}
	}
	return SavedAddress{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(userID string, addressID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	addrs := r.data[userID]
	for i, a := range addrs {
		if a.ID == addressID {
			r.data[userID] = append(addrs[:i], addrs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) clearDefault(userID string) {
	for i := range r.data[userID] {
		r.data[userID][i].IsDefault = false
	}
}
