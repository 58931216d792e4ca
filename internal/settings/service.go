// Package settings provides namespaced key-to-JSON-document configuration
// storage for the admin surface. The verification matcher reads its static
// configuration through this service.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	dErrors "fieldgate/pkg/domain-errors"
	"fieldgate/pkg/platform/audit"
	"fieldgate/pkg/platform/sentinel"
	"fieldgate/pkg/requestcontext"
)

// Store is the persistence contract for settings documents.
type Store interface {
	Get(ctx context.Context, namespace, key string) (*Setting, error)
	Put(ctx context.Context, setting *Setting) error
	Delete(ctx context.Context, namespace, key string) error
	List(ctx context.Context, namespace string) ([]*Setting, error)
}

// Service validates and persists admin configuration documents.
type Service struct {
	store     Store
	logger    *slog.Logger
	publisher audit.Publisher
}

// NewService constructs the settings service. Logger and publisher may be nil
// in tests.
func NewService(store Store, logger *slog.Logger, publisher audit.Publisher) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, publisher: publisher}
}

// Get returns one configuration document.
func (s *Service) Get(ctx context.Context, namespace, key string) (*Setting, error) {
	setting, err := s.store.Get(ctx, namespace, key)
	if err != nil {
		return nil, wrapSettingErr(err)
	}
	return setting, nil
}

// GetDocument returns the raw JSON body of one document; this satisfies the
// verification config loader's Source contract.
func (s *Service) GetDocument(ctx context.Context, namespace, key string) ([]byte, error) {
	setting, err := s.Get(ctx, namespace, key)
	if err != nil {
		return nil, err
	}
	return setting.Document, nil
}

// Put validates and stores a configuration document (upsert).
func (s *Service) Put(ctx context.Context, namespace, key string, document []byte) (*Setting, error) {
	if namespace == "" || key == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "namespace and key are required")
	}
	if !json.Valid(document) {
		return nil, dErrors.New(dErrors.CodeValidation, "document must be valid JSON")
	}

	setting := &Setting{
		Namespace: namespace,
		Key:       key,
		Document:  document,
		UpdatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Put(ctx, setting); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store setting")
	}

	audit.Emit(ctx, s.publisher, s.logger, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    requestcontext.UserID(ctx),
		Subject:   namespace + "/" + key,
		Action:    audit.EventSettingUpdated,
		RequestID: requestcontext.RequestID(ctx),
	})
	return setting, nil
}

// Delete removes one configuration document.
func (s *Service) Delete(ctx context.Context, namespace, key string) error {
	if err := s.store.Delete(ctx, namespace, key); err != nil {
		return wrapSettingErr(err)
	}
	audit.Emit(ctx, s.publisher, s.logger, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    requestcontext.UserID(ctx),
		Subject:   namespace + "/" + key,
		Action:    audit.EventSettingDeleted,
		RequestID: requestcontext.RequestID(ctx),
	})
	return nil
}

// List returns every document in a namespace, ordered by key.
func (s *Service) List(ctx context.Context, namespace string) ([]*Setting, error) {
	out, err := s.store.List(ctx, namespace)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list settings")
	}
	return out, nil
}

func wrapSettingErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "setting not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "settings store failure")
}
