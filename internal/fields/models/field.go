package models

import (
	"encoding/json"
	"time"

	id "fieldgate/pkg/domain"
	dErrors "fieldgate/pkg/domain-errors"
)

// FieldType enumerates the supported value kinds of a custom field. The type
// determines the validation rule applied to every value of the field.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeTextarea    FieldType = "textarea"
	TypeNumeric     FieldType = "numeric"
	TypeDate        FieldType = "date"
	TypeDatetime    FieldType = "datetime"
	TypeDropdown    FieldType = "dropdown"
	TypeMultiSelect FieldType = "multi_select"
	TypeCheckbox    FieldType = "checkbox"
	TypeRadio       FieldType = "radio"
	TypeEmail       FieldType = "email"
	TypePhone       FieldType = "phone"
	TypeURL         FieldType = "url"
	TypeFile        FieldType = "file"
	TypeJSON        FieldType = "json"
	TypeCurrency    FieldType = "currency"
	TypePercent     FieldType = "percent"
	TypeRating      FieldType = "rating"
)

// fieldTypes is the closed set of valid field types.
var fieldTypes = map[FieldType]struct{}{
	TypeText: {}, TypeTextarea: {}, TypeNumeric: {}, TypeDate: {},
	TypeDatetime: {}, TypeDropdown: {}, TypeMultiSelect: {}, TypeCheckbox: {},
	TypeRadio: {}, TypeEmail: {}, TypePhone: {}, TypeURL: {}, TypeFile: {},
	TypeJSON: {}, TypeCurrency: {}, TypePercent: {}, TypeRating: {},
}

func (t FieldType) Valid() bool {
	_, ok := fieldTypes[t]
	return ok
}

// FieldContext is the entity category a field applies to.
type FieldContext string

const (
	ContextUsers         FieldContext = "USERS"
	ContextCohorts       FieldContext = "COHORTS"
	ContextOrganizations FieldContext = "ORGANIZATIONS"
)

func (c FieldContext) Valid() bool {
	switch c {
	case ContextUsers, ContextCohorts, ContextOrganizations:
		return true
	}
	return false
}

// FieldParams carries type-specific configuration. Only Options participates
// in validation; everything else is UI hints passed through to clients.
type FieldParams struct {
	Options []string `json:"options,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

// FieldDefinition is the schema for one administrator-defined dynamic
// attribute.
//
// Invariants:
//   - ID is unique
//   - Type is one of the closed FieldType set and determines the validation
//     rule for every value of this field
//   - Ordering need not be unique; listing tie-breaks on CreatedAt
//
// Deleting a definition does not cascade to stored values; orphaned values are
// invisible through the joined views and purged with their item.
type FieldDefinition struct {
	ID              id.FieldID      `json:"id"`
	Name            string          `json:"name"`
	Label           string          `json:"label"`
	Type            FieldType       `json:"type"`
	Context         FieldContext    `json:"context"`
	ContextType     string          `json:"context_type,omitempty"`
	FieldParams     FieldParams     `json:"field_params"`
	FieldAttributes json.RawMessage `json:"field_attributes,omitempty"`
	SourceDetails   json.RawMessage `json:"source_details,omitempty"`
	DependsOn       json.RawMessage `json:"depends_on,omitempty"`
	Ordering        int             `json:"ordering"`
	IsRequired      bool            `json:"is_required"`
	IsHidden        bool            `json:"is_hidden"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewFieldDefinition validates construction-time invariants. Duplicate names
// are allowed; uniqueness is only enforced on the ID by storage.
func NewFieldDefinition(fieldID id.FieldID, name, label string, fieldType FieldType, context FieldContext, now time.Time) (*FieldDefinition, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "field name cannot be empty")
	}
	if !fieldType.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown field type %q", fieldType)
	}
	if !context.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown field context %q", context)
	}
	if label == "" {
		label = name
	}
	return &FieldDefinition{
		ID:        fieldID,
		Name:      name,
		Label:     label,
		Type:      fieldType,
		Context:   context,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// FieldValue is the single current value of one field on one item. Values are
// stored uniformly as text; interpretation follows the definition's Type.
type FieldValue struct {
	FieldID   id.FieldID `json:"field_id"`
	ItemID    id.ItemID  `json:"item_id"`
	Value     string     `json:"value"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ItemFieldView is one row of the canonical "entity + custom fields" view: a
// definition joined with the item's stored value, nil when the item has none.
type ItemFieldView struct {
	Definition *FieldDefinition `json:"definition"`
	Value      *string          `json:"value"`
}
