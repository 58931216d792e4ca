package service

import (
	"context"
	"errors"

	"fieldgate/internal/fields/models"
	id "fieldgate/pkg/domain"
	dErrors "fieldgate/pkg/domain-errors"
	"fieldgate/pkg/platform/audit"
	"fieldgate/pkg/platform/sentinel"
	"fieldgate/pkg/requestcontext"
)

// CreateFieldRequest carries everything needed to define a new field.
type CreateFieldRequest struct {
	Name            string
	Label           string
	Type            models.FieldType
	Context         models.FieldContext
	ContextType     string
	FieldParams     models.FieldParams
	FieldAttributes []byte
	SourceDetails   []byte
	DependsOn       []byte
	Ordering        int
	IsRequired      bool
	IsHidden        bool
}

// CreateField persists a new field definition. Duplicate names are not
// rejected here; only the generated ID is unique.
func (s *Service) CreateField(ctx context.Context, req CreateFieldRequest) (*models.FieldDefinition, error) {
	def, err := models.NewFieldDefinition(id.NewFieldID(), req.Name, req.Label, req.Type, req.Context, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	def.ContextType = req.ContextType
	def.FieldParams = req.FieldParams
	def.FieldAttributes = req.FieldAttributes
	def.SourceDetails = req.SourceDetails
	def.DependsOn = req.DependsOn
	def.Ordering = req.Ordering
	def.IsRequired = req.IsRequired
	def.IsHidden = req.IsHidden

	if err := s.definitions.Create(ctx, def); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create field definition")
	}

	if s.metrics != nil {
		s.metrics.IncrementFieldsCreated()
	}
	audit.Emit(ctx, s.publisher, s.logger, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    requestcontext.UserID(ctx),
		Subject:   def.ID.String(),
		Action:    audit.EventFieldCreated,
		Detail:    def.Name,
		RequestID: requestcontext.RequestID(ctx),
	})
	return def, nil
}

// ListFields returns definitions matching the filter, ordered by Ordering
// ascending then creation time ascending.
func (s *Service) ListFields(ctx context.Context, filter models.ListFilter) ([]*models.FieldDefinition, error) {
	defs, err := s.definitions.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list field definitions")
	}
	return defs, nil
}

// GetField loads one definition by ID.
func (s *Service) GetField(ctx context.Context, fieldID id.FieldID) (*models.FieldDefinition, error) {
	def, err := s.definitions.FindByID(ctx, fieldID)
	if err != nil {
		return nil, wrapDefinitionErr(err)
	}
	return def, nil
}

// UpdateField applies a partial update to a definition.
func (s *Service) UpdateField(ctx context.Context, fieldID id.FieldID, patch models.FieldPatch) (*models.FieldDefinition, error) {
	def, err := s.definitions.FindByID(ctx, fieldID)
	if err != nil {
		return nil, wrapDefinitionErr(err)
	}

	patch.Apply(def)
	if def.Name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "field name cannot be empty")
	}
	def.UpdatedAt = requestcontext.Now(ctx)

	if err := s.definitions.Update(ctx, def); err != nil {
		return nil, wrapDefinitionErr(err)
	}

	audit.Emit(ctx, s.publisher, s.logger, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    requestcontext.UserID(ctx),
		Subject:   def.ID.String(),
		Action:    audit.EventFieldUpdated,
		Detail:    def.Name,
		RequestID: requestcontext.RequestID(ctx),
	})
	return def, nil
}

// DeleteField removes a definition. Stored values for the field are NOT
// cascaded; they become invisible through the joined views and are purged
// with their item.
func (s *Service) DeleteField(ctx context.Context, fieldID id.FieldID) error {
	if err := s.definitions.Delete(ctx, fieldID); err != nil {
		return wrapDefinitionErr(err)
	}
	audit.Emit(ctx, s.publisher, s.logger, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    requestcontext.UserID(ctx),
		Subject:   fieldID.String(),
		Action:    audit.EventFieldDeleted,
		RequestID: requestcontext.RequestID(ctx),
	})
	return nil
}

func wrapDefinitionErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "field definition not found")
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "field definition already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "field definition store failure")
}
