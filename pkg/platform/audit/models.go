package audit

import (
	"time"

	id "fieldgate/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance,
	// e.g. profile verification outcomes used in benefit eligibility.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring,
	// e.g. admin configuration changes.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity useful for debugging.
	// These can be sampled or aggregated with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	UserID    id.UserID     `json:"user_id,omitempty"`
	Subject   string        `json:"subject"`
	Action    AuditEvent    `json:"action"`
	Detail    string        `json:"detail,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	// ClientIP and Device describe where the request came from. Emit fills
	// them from the request context when the emitter leaves them empty.
	ClientIP string `json:"client_ip,omitempty"`
	Device   string `json:"device,omitempty"`
	// ActorID tracks who performed the action when different from UserID,
	// e.g. an administrator editing another user's custom fields. Emit
	// derives it from the authenticated user in the request context.
	ActorID string `json:"actor_id,omitempty"`
}

type AuditEvent string

const (
	// Field lifecycle events
	EventFieldCreated AuditEvent = "field_created"
	EventFieldUpdated AuditEvent = "field_updated"
	EventFieldDeleted AuditEvent = "field_deleted"

	// Field value events
	EventValuesUpserted   AuditEvent = "field_values_upserted"
	EventValueDeleted     AuditEvent = "field_value_deleted"
	EventItemValuesPurged AuditEvent = "item_values_purged"

	// Verification events
	EventProfileVerified   AuditEvent = "profile_verified"
	EventCredentialsSynced AuditEvent = "credentials_synced"

	// Admin settings events
	EventSettingUpdated AuditEvent = "setting_updated"
	EventSettingDeleted AuditEvent = "setting_deleted"
)

// eventCategories maps each audit event to its category.
// Compliance: long retention required. Security: feeds monitoring.
// Operations: routine activity, can be sampled.
var eventCategories = map[AuditEvent]EventCategory{
	EventProfileVerified:   CategoryCompliance,
	EventCredentialsSynced: CategoryCompliance,

	EventSettingUpdated: CategorySecurity,
	EventSettingDeleted: CategorySecurity,
	EventFieldDeleted:   CategorySecurity,

	EventFieldCreated:     CategoryOperations,
	EventFieldUpdated:     CategoryOperations,
	EventValuesUpserted:   CategoryOperations,
	EventValueDeleted:     CategoryOperations,
	EventItemValuesPurged: CategoryOperations,
}

// CategoryFor returns the category for an event, defaulting to operations for
// events that have not been classified yet.
func CategoryFor(event AuditEvent) EventCategory {
	if category, ok := eventCategories[event]; ok {
		return category
	}
	return CategoryOperations
}
