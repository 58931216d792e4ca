package definition

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fieldgate/internal/fields/models"
	id "fieldgate/pkg/domain"
	"fieldgate/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested definition does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// InMemory stores field definitions in memory for tests/dev.
type InMemory struct {
	mu   sync.RWMutex
	defs map[id.FieldID]*models.FieldDefinition
}

// NewInMemory constructs an empty in-memory definition store.
func NewInMemory() *InMemory {
	return &InMemory{defs: make(map[id.FieldID]*models.FieldDefinition)}
}

func (s *InMemory) Create(_ context.Context, def *models.FieldDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.defs[def.ID]; exists {
		return fmt.Errorf("field definition %s: %w", def.ID, sentinel.ErrConflict)
	}
	copied := *def
	s.defs[def.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, fieldID id.FieldID) (*models.FieldDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if def, ok := s.defs[fieldID]; ok {
		copied := *def
		return &copied, nil
	}
	return nil, fmt.Errorf("field definition not found: %w", sentinel.ErrNotFound)
}

// List returns matching definitions ordered by Ordering ascending, ties broken
// by creation time ascending.
func (s *InMemory) List(_ context.Context, filter models.ListFilter) ([]*models.FieldDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.FieldDefinition, 0, len(s.defs))
	for _, def := range s.defs {
		if filter.Matches(def) {
			copied := *def
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Ordering != out[j].Ordering {
			return out[i].Ordering < out[j].Ordering
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Update(_ context.Context, def *models.FieldDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.defs[def.ID]; !ok {
		return fmt.Errorf("field definition not found: %w", sentinel.ErrNotFound)
	}
	copied := *def
	s.defs[def.ID] = &copied
	return nil
}

func (s *InMemory) Delete(_ context.Context, fieldID id.FieldID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.defs[fieldID]; !ok {
		return fmt.Errorf("field definition not found: %w", sentinel.ErrNotFound)
	}
	delete(s.defs, fieldID)
	return nil
}
