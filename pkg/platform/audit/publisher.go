package audit

import (
	"context"
	"log/slog"
	"sync"

	"fieldgate/pkg/requestcontext"
)

// Publisher delivers audit events to a sink. Implementations must be safe for
// concurrent use; delivery failures are the publisher's concern and must never
// fail the business operation that emitted the event.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// MemoryPublisher buffers events in memory for tests and development.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryPublisher constructs an empty in-memory publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Emit publishes an event and logs (rather than propagates) failures, so
// services can record audit facts without wiring error handling at every call
// site. A nil publisher is a no-op, which keeps audit optional in tests.
//
// Emit enriches the event from the request context: the client IP and device
// description captured by the transport middleware, and the acting user when
// it differs from the event's subject user. Explicitly set fields win.
func Emit(ctx context.Context, publisher Publisher, logger *slog.Logger, event Event) {
	if publisher == nil {
		return
	}
	event.Category = CategoryFor(event.Action)
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Device == "" {
		event.Device = requestcontext.DeviceName(ctx)
	}
	if actor := requestcontext.UserID(ctx); event.ActorID == "" && !actor.IsZero() && actor != event.UserID {
		event.ActorID = actor.String()
	}
	if err := publisher.Publish(ctx, event); err != nil && logger != nil {
		logger.ErrorContext(ctx, "failed to publish audit event",
			"action", string(event.Action),
			"subject", event.Subject,
			"error", err,
		)
	}
}
