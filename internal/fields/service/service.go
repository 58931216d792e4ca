// Package service implements the custom fields engine: schema lifecycle,
// type-validated value writes, joined item views, and value search.
package service

import (
	"context"
	"log/slog"

	"fieldgate/internal/fields/metrics"
	"fieldgate/internal/fields/models"
	id "fieldgate/pkg/domain"
	"fieldgate/pkg/platform/audit"
)

// DefinitionStore is the persistence contract for field schemas.
type DefinitionStore interface {
	Create(ctx context.Context, def *models.FieldDefinition) error
	FindByID(ctx context.Context, fieldID id.FieldID) (*models.FieldDefinition, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.FieldDefinition, error)
	Update(ctx context.Context, def *models.FieldDefinition) error
	Delete(ctx context.Context, fieldID id.FieldID) error
}

// ValueStore is the persistence contract for per-item field values.
type ValueStore interface {
	Upsert(ctx context.Context, value *models.FieldValue) error
	Find(ctx context.Context, fieldID id.FieldID, itemID id.ItemID) (*models.FieldValue, error)
	ListByItem(ctx context.Context, itemID id.ItemID) ([]*models.FieldValue, error)
	Delete(ctx context.Context, fieldID id.FieldID, itemID id.ItemID) error
	DeleteByItem(ctx context.Context, itemID id.ItemID) (int, error)
	ItemIDsByValue(ctx context.Context, fieldID id.FieldID, expected string) ([]id.ItemID, error)
}

// Service orchestrates the custom fields engine.
type Service struct {
	definitions DefinitionStore
	values      ValueStore
	logger      *slog.Logger
	metrics     *metrics.Metrics
	publisher   audit.Publisher
}

type serviceConfig struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher audit.Publisher
}

// Option customizes optional service collaborators.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(cfg *serviceConfig) { cfg.publisher = publisher }
}

// New constructs the engine over the given stores.
func New(definitions DefinitionStore, values ValueStore, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		definitions: definitions,
		values:      values,
		logger:      cfg.logger,
		metrics:     cfg.metrics,
		publisher:   cfg.publisher,
	}
}
