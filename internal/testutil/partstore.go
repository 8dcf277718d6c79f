// Package testutil provides in-memory doubles for the ports interfaces.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/isabella232/azure-intelligent-edge-patterns/internal/domain"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/ports"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/repository"
)

// PartStore is an in-memory ports.PartStore and ports.DemoPartStore with the same
// uniqueness rules as the parts table.
type PartStore struct {
	mu     sync.Mutex
	nextID int64
	parts  map[int64]domain.Part

	// FailOn makes UpsertDemo return Err for the named part.
	FailOn string
	Err    error
	// DemoCalls records UpsertDemo names in call order.
	DemoCalls []string
}

func NewPartStore() *PartStore {
	return &PartStore{parts: map[int64]domain.Part{}}
}

// Add inserts p as-is, assigning an id when zero.
func (s *PartStore) Add(p domain.Part) domain.Part {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		s.nextID++
		p.ID = s.nextID
	} else if p.ID > s.nextID {
		s.nextID = p.ID
	}
	s.parts[p.ID] = p
	return p
}

// Count returns the number of stored parts with the given name and demo flag.
func (s *PartStore) Count(name string, isDemo bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.parts {
		if p.Name == name && p.IsDemo == isDemo {
			n++
		}
	}
	return n
}

// Len returns the total number of stored parts.
func (s *PartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.parts)
}

// Health always succeeds.
func (s *PartStore) Health(context.Context) error { return nil }

func (s *PartStore) List(_ context.Context, filter ports.PartFilter) ([]domain.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Part
	for _, p := range s.parts {
		if filter.IsDemo != nil && p.IsDemo != *filter.IsDemo {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].IsDemo && !out[j].IsDemo
	})
	return out, nil
}

func (s *PartStore) Get(_ context.Context, id int64) (*domain.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *PartStore) nameTaken(name string, except int64) bool {
	for _, p := range s.parts {
		if !p.IsDemo && p.Name == name && p.ID != except {
			return true
		}
	}
	return false
}

func (s *PartStore) Create(_ context.Context, name, description string) (*domain.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(name, 0) {
		return nil, repository.ErrDuplicateName
	}
	now := time.Now()
	s.nextID++
	p := domain.Part{ID: s.nextID, Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
	s.parts[p.ID] = p
	return &p, nil
}

func (s *PartStore) Update(_ context.Context, id int64, name, description string) (*domain.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.IsDemo {
		return nil, repository.ErrDemoPart
	}
	if s.nameTaken(name, id) {
		return nil, repository.ErrDuplicateName
	}
	p.Name, p.Description, p.UpdatedAt = name, description, time.Now()
	s.parts[id] = p
	return &p, nil
}

func (s *PartStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.IsDemo {
		return repository.ErrDemoPart
	}
	delete(s.parts, id)
	return nil
}

func (s *PartStore) UpsertDemo(_ context.Context, name, description string) (*domain.Part, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DemoCalls = append(s.DemoCalls, name)
	if s.FailOn == name {
		return nil, false, s.Err
	}
	now := time.Now()
	for id, p := range s.parts {
		if p.IsDemo && p.Name == name {
			p.Description, p.UpdatedAt = description, now
			s.parts[id] = p
			return &p, false, nil
		}
	}
	s.nextID++
	p := domain.Part{ID: s.nextID, Name: name, Description: description, IsDemo: true, CreatedAt: now, UpdatedAt: now}
	s.parts[p.ID] = p
	return &p, true, nil
}
