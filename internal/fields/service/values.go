package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fieldgate/internal/fields/models"
	"fieldgate/internal/fields/validate"
	id "fieldgate/pkg/domain"
	dErrors "fieldgate/pkg/domain-errors"
	"fieldgate/pkg/platform/audit"
	"fieldgate/pkg/platform/sentinel"
	"fieldgate/pkg/requestcontext"
)

// UpsertValues validates and persists a batch of (field, value) pairs for one
// item. Every pair is validated against its definition before any write, so a
// violation anywhere in the batch aborts the whole call with no partial
// commit. The first violating field is named in the error.
func (s *Service) UpsertValues(ctx context.Context, itemID id.ItemID, inputs []models.ValueInput) error {
	if itemID.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "item id is required")
	}

	start := time.Now()
	now := requestcontext.Now(ctx)

	// Validation pass: load every definition and check every value first.
	pending := make([]*models.FieldValue, 0, len(inputs))
	for _, input := range inputs {
		def, err := s.definitions.FindByID(ctx, input.FieldID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Newf(dErrors.CodeNotFound, "field %s does not exist", input.FieldID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load field definition")
		}
		if err := validate.Value(def, input.Value); err != nil {
			if s.metrics != nil {
				s.metrics.IncrementValidationFailures(string(def.Type))
			}
			return err
		}
		pending = append(pending, &models.FieldValue{
			FieldID:   input.FieldID,
			ItemID:    itemID,
			Value:     input.Value,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	// Write pass: sequential upserts; each write is idempotent per pair.
	for _, value := range pending {
		if err := s.values.Upsert(ctx, value); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store field value")
		}
	}

	if s.metrics != nil {
		s.metrics.AddValuesUpserted(len(pending))
		s.metrics.ObserveUpsertDuration(start)
	}
	audit.Emit(ctx, s.publisher, s.logger, audit.Event{
		Timestamp: now,
		UserID:    requestcontext.UserID(ctx),
		Subject:   itemID.String(),
		Action:    audit.EventValuesUpserted,
		Detail:    fmt.Sprintf("%d values", len(pending)),
		RequestID: requestcontext.RequestID(ctx),
	})
	return nil
}

// GetValuesForItem returns the item's stored values joined with their
// definitions, ordered by definition Ordering. Values whose definition has
// been deleted are omitted.
func (s *Service) GetValuesForItem(ctx context.Context, itemID id.ItemID) ([]models.ItemFieldView, error) {
	values, err := s.values.ListByItem(ctx, itemID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list field values")
	}
	byField := make(map[id.FieldID]*models.FieldValue, len(values))
	for _, value := range values {
		byField[value.FieldID] = value
	}

	defs, err := s.definitions.List(ctx, models.ListFilter{})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list field definitions")
	}

	views := make([]models.ItemFieldView, 0, len(values))
	for _, def := range defs {
		if value, ok := byField[def.ID]; ok {
			v := value.Value
			views = append(views, models.ItemFieldView{Definition: def, Value: &v})
		}
	}
	return views, nil
}

// GetItemWithFields assembles the canonical "entity + custom fields" view:
// every definition for the context, left-joined with the item's values.
// Definitions the item has no value for appear with a nil value.
func (s *Service) GetItemWithFields(ctx context.Context, itemID id.ItemID, fieldContext models.FieldContext) ([]models.ItemFieldView, error) {
	if !fieldContext.Valid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown field context %q", fieldContext)
	}
	defs, err := s.definitions.List(ctx, models.ListFilter{Context: fieldContext})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list field definitions")
	}
	values, err := s.values.ListByItem(ctx, itemID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list field values")
	}
	byField := make(map[id.FieldID]*models.FieldValue, len(values))
	for _, value := range values {
		byField[value.FieldID] = value
	}

	views := make([]models.ItemFieldView, 0, len(defs))
	for _, def := range defs {
		view := models.ItemFieldView{Definition: def}
		if value, ok := byField[def.ID]; ok {
			v := value.Value
			view.Value = &v
		}
		views = append(views, view)
	}
	return views, nil
}

// DeleteValue removes one stored value.
func (s *Service) DeleteValue(ctx context.Context, fieldID id.FieldID, itemID id.ItemID) error {
	if err := s.values.Delete(ctx, fieldID, itemID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "field value not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete field value")
	}
	audit.Emit(ctx, s.publisher, s.logger, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    requestcontext.UserID(ctx),
		Subject:   itemID.String(),
		Action:    audit.EventValueDeleted,
		Detail:    fieldID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return nil
}

// DeleteAllValuesForItem removes every value for the item. Idempotent: an
// item with no values succeeds with nothing to do.
func (s *Service) DeleteAllValuesForItem(ctx context.Context, itemID id.ItemID) error {
	deleted, err := s.values.DeleteByItem(ctx, itemID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete item field values")
	}
	if deleted > 0 {
		audit.Emit(ctx, s.publisher, s.logger, audit.Event{
			Timestamp: requestcontext.Now(ctx),
			UserID:    requestcontext.UserID(ctx),
			Subject:   itemID.String(),
			Action:    audit.EventItemValuesPurged,
			Detail:    fmt.Sprintf("%d values", deleted),
			RequestID: requestcontext.RequestID(ctx),
		})
	}
	return nil
}

// SearchByFields resolves field names within the context and intersects the
// item sets whose stored value exactly equals each expected value (logical
// AND). Unresolvable field names are skipped and do not narrow the result.
func (s *Service) SearchByFields(ctx context.Context, fieldContext models.FieldContext, filters map[string]string) ([]id.ItemID, error) {
	if !fieldContext.Valid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown field context %q", fieldContext)
	}
	defs, err := s.definitions.List(ctx, models.ListFilter{Context: fieldContext})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list field definitions")
	}
	byName := make(map[string]id.FieldID, len(defs))
	for _, def := range defs {
		byName[def.Name] = def.ID
	}

	var result map[id.ItemID]struct{}
	for name, expected := range filters {
		fieldID, ok := byName[name]
		if !ok {
			// Unknown names must not narrow the result.
			continue
		}
		items, err := s.values.ItemIDsByValue(ctx, fieldID, expected)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search field values")
		}
		matched := make(map[id.ItemID]struct{}, len(items))
		for _, item := range items {
			matched[item] = struct{}{}
		}
		if result == nil {
			result = matched
			continue
		}
		for item := range result {
			if _, ok := matched[item]; !ok {
				delete(result, item)
			}
		}
		if len(result) == 0 {
			return []id.ItemID{}, nil
		}
	}
	if result == nil {
		return []id.ItemID{}, nil
	}

	out := make([]id.ItemID, 0, len(result))
	for item := range result {
		out = append(out, item)
	}
	sortItemIDs(out)
	return out, nil
}

func sortItemIDs(items []id.ItemID) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].String() < items[j].String()
	})
}
