// Package domain defines typed identifiers shared across modules.
//
// Each ID is a distinct uuid-backed type so the compiler rejects cross-type
// assignment (a FieldID can never be passed where an ItemID is expected).
// Parse functions enforce the trust-boundary invariant: IDs must be valid,
// non-empty, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "fieldgate/pkg/domain-errors"
)

type (
	// FieldID identifies a custom field definition.
	FieldID uuid.UUID
	// ItemID identifies any entity instance (user, cohort, organization)
	// that can carry custom field values.
	ItemID uuid.UUID
	// UserID identifies an authenticated platform user.
	UserID uuid.UUID
)

func (id FieldID) String() string { return uuid.UUID(id).String() }
func (id ItemID) String() string  { return uuid.UUID(id).String() }
func (id UserID) String() string  { return uuid.UUID(id).String() }

// IsZero reports whether the ID is the nil UUID.
func (id FieldID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id ItemID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }

// NewFieldID generates a fresh field identifier.
func NewFieldID() FieldID { return FieldID(uuid.New()) }

// NewItemID generates a fresh item identifier.
func NewItemID() ItemID { return ItemID(uuid.New()) }

func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", kind)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", kind)
	}
	return parsed, nil
}

// ParseFieldID validates and converts a raw string into a FieldID.
func ParseFieldID(raw string) (FieldID, error) {
	parsed, err := parseUUID(raw, "field id")
	if err != nil {
		return FieldID{}, err
	}
	return FieldID(parsed), nil
}

// ParseItemID validates and converts a raw string into an ItemID.
func ParseItemID(raw string) (ItemID, error) {
	parsed, err := parseUUID(raw, "item id")
	if err != nil {
		return ItemID{}, err
	}
	return ItemID(parsed), nil
}

// ParseUserID validates and converts a raw string into a UserID.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user id")
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}
