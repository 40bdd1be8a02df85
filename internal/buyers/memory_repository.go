package buyers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository implements Repository with a mutex-guarded map. Used for
// tests and for running the API without a database.
type InMemoryRepository struct {
	mu     sync.RWMutex
	buyers map[string]*Buyer
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{buyers: make(map[string]*Buyer)}
}

func (r *InMemoryRepository) List(ctx context.Context, ownerID string, filter ListFilter) ([]Buyer, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrMissingOwner
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []Buyer{}
	for _, b := range r.buyers {
		if b.OwnerID != ownerID || !matchesFilter(b, filter) {
			continue
		}
		matched = append(matched, *b)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []Buyer{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *InMemoryRepository) Create(ctx context.Context, ownerID string, in *BuyerInput) (*Buyer, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrMissingOwner
	}
	b := buyerFromInput(uuid.New().String(), ownerID, in)
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	r.mu.Lock()
	r.buyers[b.ID] = b
	r.mu.Unlock()

	clone := *b
	return &clone, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id, ownerID string) (*Buyer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.buyers[id]
	if !ok || b.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id, ownerID string, in *BuyerInput) (*Buyer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.buyers[id]
	if !ok || existing.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	b := buyerFromInput(id, ownerID, in)
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	if b.UpdatedAt.Before(existing.UpdatedAt) {
		b.UpdatedAt = existing.UpdatedAt
	}
	r.buyers[id] = b
	clone := *b
	return &clone, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buyers[id]
	if !ok || b.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.buyers, id)
	return nil
}

func (r *InMemoryRepository) Stats(ctx context.Context, ownerID string) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := &Stats{OwnerID: ownerID}
	for _, b := range r.buyers {
		if b.OwnerID != ownerID {
			continue
		}
		s.Total++
		if b.Status == StatusNew {
			s.New++
		}
		if b.Status == "closed" {
			s.Converted++
		}
		if b.Timeline == "immediate" {
			s.Urgent++
		}
	}
	s.ConversionRate = conversionRate(s.Converted, s.Total)
	return s, nil
}

func matchesFilter(b *Buyer, filter ListFilter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(b.FullName), needle) &&
			!strings.Contains(strings.ToLower(b.Email), needle) &&
			!strings.Contains(b.Phone, filter.Search) {
			return false
		}
	}
	if filter.City != "" && b.City != filter.City {
		return false
	}
	if filter.PropertyType != "" && b.PropertyType != filter.PropertyType {
		return false
	}
	if filter.Status != "" && b.Status != filter.Status {
		return false
	}
	if filter.Timeline != "" && b.Timeline != filter.Timeline {
		return false
	}
	return true
}
