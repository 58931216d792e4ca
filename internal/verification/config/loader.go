// Package config loads the matcher's static configuration from the admin
// settings source.
package config

import (
	"context"
	"encoding/json"

	"fieldgate/internal/verification/models"
	dErrors "fieldgate/pkg/domain-errors"
)

// Settings keys, all under the verification namespace.
const (
	Namespace        = "verification"
	KeyAttributeDocs = "attribute-docs"
	KeyDocFieldMaps  = "doc-field-maps"
	KeyFieldValues   = "field-values"
	KeyNamePositions = "name-positions"
)

// Source supplies raw JSON configuration documents by key. The admin
// settings service satisfies this.
type Source interface {
	GetDocument(ctx context.Context, namespace, key string) ([]byte, error)
}

// Loader reads and decodes the matcher configuration. Configuration is loaded
// per run and treated as immutable for its duration.
type Loader struct {
	source Source
}

func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Load assembles a full matcher configuration. A missing or malformed
// required document is fatal for the whole verification run. The synonym and
// name-position tables are optional refinements: absent documents leave them
// empty, but a present document that fails to decode is still fatal.
func (l *Loader) Load(ctx context.Context) (models.Config, error) {
	var cfg models.Config

	if err := l.loadInto(ctx, KeyAttributeDocs, &cfg.AttributeDocs, true); err != nil {
		return models.Config{}, err
	}
	if err := l.loadInto(ctx, KeyDocFieldMaps, &cfg.DocFieldMaps, true); err != nil {
		return models.Config{}, err
	}
	if err := l.loadInto(ctx, KeyFieldValues, &cfg.FieldValues, false); err != nil {
		return models.Config{}, err
	}
	if err := l.loadInto(ctx, KeyNamePositions, &cfg.NameFieldsPosition, false); err != nil {
		return models.Config{}, err
	}
	return cfg, nil
}

func (l *Loader) loadInto(ctx context.Context, key string, target any, required bool) error {
	raw, err := l.source.GetDocument(ctx, Namespace, key)
	if err != nil {
		if !required && dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeConfig, "failed to read verification config "+key)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return dErrors.Wrap(err, dErrors.CodeConfig, "malformed verification config "+key)
	}
	return nil
}
