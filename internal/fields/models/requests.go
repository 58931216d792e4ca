package models

import (
	"encoding/json"

	id "fieldgate/pkg/domain"
)

// ListFilter narrows ListFields results. Nil members are ignored.
type ListFilter struct {
	Context     FieldContext
	ContextType string
	Type        FieldType
	IsRequired  *bool
	IsHidden    *bool
}

// Matches reports whether a definition passes every set filter member.
func (f ListFilter) Matches(def *FieldDefinition) bool {
	if f.Context != "" && def.Context != f.Context {
		return false
	}
	if f.ContextType != "" && def.ContextType != f.ContextType {
		return false
	}
	if f.Type != "" && def.Type != f.Type {
		return false
	}
	if f.IsRequired != nil && def.IsRequired != *f.IsRequired {
		return false
	}
	if f.IsHidden != nil && def.IsHidden != *f.IsHidden {
		return false
	}
	return true
}

// FieldPatch is a partial update to a definition. Nil members are untouched.
// The field's Context and Type are immutable after creation; changing the type
// would silently invalidate stored values.
type FieldPatch struct {
	Name            *string          `json:"name,omitempty"`
	Label           *string          `json:"label,omitempty"`
	ContextType     *string          `json:"context_type,omitempty"`
	FieldParams     *FieldParams     `json:"field_params,omitempty"`
	FieldAttributes *json.RawMessage `json:"field_attributes,omitempty"`
	SourceDetails   *json.RawMessage `json:"source_details,omitempty"`
	DependsOn       *json.RawMessage `json:"depends_on,omitempty"`
	Ordering        *int             `json:"ordering,omitempty"`
	IsRequired      *bool            `json:"is_required,omitempty"`
	IsHidden        *bool            `json:"is_hidden,omitempty"`
}

// Apply mutates def in place with every set patch member.
func (p FieldPatch) Apply(def *FieldDefinition) {
	if p.Name != nil {
		def.Name = *p.Name
	}
	if p.Label != nil {
		def.Label = *p.Label
	}
	if p.ContextType != nil {
		def.ContextType = *p.ContextType
	}
	if p.FieldParams != nil {
		def.FieldParams = *p.FieldParams
	}
	if p.FieldAttributes != nil {
		def.FieldAttributes = *p.FieldAttributes
	}
	if p.SourceDetails != nil {
		def.SourceDetails = *p.SourceDetails
	}
	if p.DependsOn != nil {
		def.DependsOn = *p.DependsOn
	}
	if p.Ordering != nil {
		def.Ordering = *p.Ordering
	}
	if p.IsRequired != nil {
		def.IsRequired = *p.IsRequired
	}
	if p.IsHidden != nil {
		def.IsHidden = *p.IsHidden
	}
}

// ValueInput is one (field, value) pair in an upsert batch.
type ValueInput struct {
	FieldID id.FieldID `json:"field_id"`
	Value   string     `json:"value"`
}
