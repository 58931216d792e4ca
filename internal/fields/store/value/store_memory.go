package value

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fieldgate/internal/fields/models"
	id "fieldgate/pkg/domain"
	"fieldgate/pkg/platform/sentinel"
)

type key struct {
	fieldID id.FieldID
	itemID  id.ItemID
}

// InMemory stores field values in memory for tests/dev. One value per
// (field, item) pair; writes upsert.
type InMemory struct {
	mu     sync.RWMutex
	values map[key]*models.FieldValue
}

// NewInMemory constructs an empty in-memory value store.
func NewInMemory() *InMemory {
	return &InMemory{values: make(map[key]*models.FieldValue)}
}

// Upsert inserts the value or overwrites the existing row for the same
// (field, item) pair, preserving the original CreatedAt on overwrite.
func (s *InMemory) Upsert(_ context.Context, value *models.FieldValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{fieldID: value.FieldID, itemID: value.ItemID}
	copied := *value
	if existing, ok := s.values[k]; ok {
		copied.CreatedAt = existing.CreatedAt
	}
	s.values[k] = &copied
	return nil
}

func (s *InMemory) Find(_ context.Context, fieldID id.FieldID, itemID id.ItemID) (*models.FieldValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value, ok := s.values[key{fieldID: fieldID, itemID: itemID}]; ok {
		copied := *value
		return &copied, nil
	}
	return nil, fmt.Errorf("field value not found: %w", sentinel.ErrNotFound)
}

func (s *InMemory) ListByItem(_ context.Context, itemID id.ItemID) ([]*models.FieldValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.FieldValue
	for k, value := range s.values {
		if k.itemID == itemID {
			copied := *value
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FieldID.String() < out[j].FieldID.String()
	})
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, fieldID id.FieldID, itemID id.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{fieldID: fieldID, itemID: itemID}
	if _, ok := s.values[k]; !ok {
		return fmt.Errorf("field value not found: %w", sentinel.ErrNotFound)
	}
	delete(s.values, k)
	return nil
}

// DeleteByItem removes every value for the item. Deleting an item with no
// values is not an error; the count tells callers what happened.
func (s *InMemory) DeleteByItem(_ context.Context, itemID id.ItemID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for k := range s.values {
		if k.itemID == itemID {
			delete(s.values, k)
			deleted++
		}
	}
	return deleted, nil
}

// ItemIDsByValue returns the distinct items whose stored value for the field
// exactly equals the expected text.
func (s *InMemory) ItemIDsByValue(_ context.Context, fieldID id.FieldID, expected string) ([]id.ItemID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []id.ItemID
	for k, value := range s.values {
		if k.fieldID == fieldID && value.Value == expected {
			out = append(out, k.itemID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}
