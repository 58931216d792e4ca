// Package credential persists each user's parsed credentials so verification
// runs can read them without touching the wallet.
package credential

import (
	"context"
	"sync"

	"fieldgate/internal/verification/models"
	id "fieldgate/pkg/domain"
)

// InMemory is a mutex-guarded credential store for tests and development.
type InMemory struct {
	mu          sync.RWMutex
	credentials map[id.UserID][]models.Credential
}

// NewInMemory constructs an empty in-memory credential store.
func NewInMemory() *InMemory {
	return &InMemory{credentials: make(map[id.UserID][]models.Credential)}
}

// CredentialsForUser returns the user's credentials in stored order. A user
// with no synced credentials gets an empty set, not an error.
func (s *InMemory) CredentialsForUser(_ context.Context, userID id.UserID) ([]models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds := s.credentials[userID]
	out := make([]models.Credential, len(creds))
	copy(out, creds)
	return out, nil
}

// ReplaceForUser overwrites the user's credential set.
func (s *InMemory) ReplaceForUser(_ context.Context, userID id.UserID, creds []models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]models.Credential, len(creds))
	copy(copied, creds)
	s.credentials[userID] = copied
	return nil
}
