package settings

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fieldgate/pkg/platform/sentinel"
)

type memoryKey struct {
	namespace string
	key       string
}

// MemoryStore holds settings in memory for tests/dev.
type MemoryStore struct {
	mu       sync.RWMutex
	settings map[memoryKey]*Setting
}

// NewMemoryStore constructs an empty in-memory settings store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: make(map[memoryKey]*Setting)}
}

func (s *MemoryStore) Get(_ context.Context, namespace, key string) (*Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if setting, ok := s.settings[memoryKey{namespace: namespace, key: key}]; ok {
		copied := *setting
		return &copied, nil
	}
	return nil, fmt.Errorf("setting %s/%s not found: %w", namespace, key, sentinel.ErrNotFound)
}

func (s *MemoryStore) Put(_ context.Context, setting *Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *setting
	s.settings[memoryKey{namespace: setting.Namespace, key: setting.Key}] = &copied
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := memoryKey{namespace: namespace, key: key}
	if _, ok := s.settings[k]; !ok {
		return fmt.Errorf("setting %s/%s not found: %w", namespace, key, sentinel.ErrNotFound)
	}
	delete(s.settings, k)
	return nil
}

func (s *MemoryStore) List(_ context.Context, namespace string) ([]*Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Setting
	for k, setting := range s.settings {
		if k.namespace == namespace {
			copied := *setting
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
