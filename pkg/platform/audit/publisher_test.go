package audit

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "fieldgate/pkg/domain"
	"fieldgate/pkg/requestcontext"
)

type EmitSuite struct {
	suite.Suite
	publisher *MemoryPublisher
	logger    *slog.Logger
	ctx       context.Context
}

func (s *EmitSuite) SetupTest() {
	s.publisher = NewMemoryPublisher()
	s.logger = slog.New(slog.DiscardHandler)
	s.ctx = context.Background()
}

func TestEmitSuite(t *testing.T) {
	suite.Run(t, new(EmitSuite))
}

func (s *EmitSuite) lastEvent() Event {
	events := s.publisher.Events()
	s.Require().NotEmpty(events)
	return events[len(events)-1]
}

func (s *EmitSuite) TestEmit() {
	s.Run("nil publisher is a no-op", func() {
		Emit(s.ctx, nil, s.logger, Event{Action: EventFieldCreated})
		s.Empty(s.publisher.Events())
	})

	s.Run("assigns the category for the action", func() {
		Emit(s.ctx, s.publisher, s.logger, Event{Action: EventSettingUpdated})
		s.Equal(CategorySecurity, s.lastEvent().Category)
	})

	s.Run("carries client metadata from the context", func() {
		ctx := requestcontext.WithClientMetadata(s.ctx, "198.51.100.4", "Mozilla/5.0", "Chrome 126 on Windows 11")
		Emit(ctx, s.publisher, s.logger, Event{Action: EventFieldCreated})

		event := s.lastEvent()
		s.Equal("198.51.100.4", event.ClientIP)
		s.Equal("Chrome 126 on Windows 11", event.Device)
	})

	s.Run("explicit client metadata wins over the context", func() {
		ctx := requestcontext.WithClientMetadata(s.ctx, "198.51.100.4", "Mozilla/5.0", "Chrome 126 on Windows 11")
		Emit(ctx, s.publisher, s.logger, Event{
			Action:   EventFieldCreated,
			ClientIP: "192.0.2.1",
			Device:   "batch import",
		})

		event := s.lastEvent()
		s.Equal("192.0.2.1", event.ClientIP)
		s.Equal("batch import", event.Device)
	})

	s.Run("records the actor when acting on another user", func() {
		admin := id.UserID(uuid.New())
		subject := id.UserID(uuid.New())
		ctx := requestcontext.WithUserID(s.ctx, admin)
		Emit(ctx, s.publisher, s.logger, Event{Action: EventCredentialsSynced, UserID: subject})

		s.Equal(admin.String(), s.lastEvent().ActorID)
	})

	s.Run("omits the actor when acting on oneself", func() {
		userID := id.UserID(uuid.New())
		ctx := requestcontext.WithUserID(s.ctx, userID)
		Emit(ctx, s.publisher, s.logger, Event{Action: EventProfileVerified, UserID: userID})

		s.Empty(s.lastEvent().ActorID)
	})

	s.Run("omits the actor without an authenticated user", func() {
		Emit(s.ctx, s.publisher, s.logger, Event{Action: EventSettingDeleted, UserID: id.UserID(uuid.New())})

		s.Empty(s.lastEvent().ActorID)
	})
}
