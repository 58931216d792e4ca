package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "fieldgate/pkg/domain-errors"
	"fieldgate/pkg/platform/audit"
	"fieldgate/pkg/requestcontext"
)

type SettingsServiceSuite struct {
	suite.Suite
	service   *Service
	publisher *audit.MemoryPublisher
	ctx       context.Context
}

func (s *SettingsServiceSuite) SetupTest() {
	s.publisher = audit.NewMemoryPublisher()
	s.service = NewService(NewMemoryStore(), nil, s.publisher)
	s.ctx = context.Background()
}

func TestSettingsServiceSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceSuite))
}

func (s *SettingsServiceSuite) TestPutAndGet() {
	s.Run("stores and returns a document", func() {
		_, err := s.service.Put(s.ctx, "verification", "attribute-docs", []byte(`{"dob":["aadhaar"]}`))
		s.Require().NoError(err)

		setting, err := s.service.Get(s.ctx, "verification", "attribute-docs")
		s.Require().NoError(err)
		s.JSONEq(`{"dob":["aadhaar"]}`, string(setting.Document))
	})

	s.Run("put overwrites", func() {
		_, err := s.service.Put(s.ctx, "verification", "attribute-docs", []byte(`{"dob":[]}`))
		s.Require().NoError(err)

		raw, err := s.service.GetDocument(s.ctx, "verification", "attribute-docs")
		s.Require().NoError(err)
		s.JSONEq(`{"dob":[]}`, string(raw))
	})

	s.Run("rejects invalid JSON", func() {
		_, err := s.service.Put(s.ctx, "verification", "bad", []byte(`{"broken":`))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects missing namespace or key", func() {
		_, err := s.service.Put(s.ctx, "", "key", []byte(`{}`))
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		_, err = s.service.Put(s.ctx, "ns", "", []byte(`{}`))
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown document is not found", func() {
		_, err := s.service.Get(s.ctx, "verification", "missing")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *SettingsServiceSuite) TestDeleteAndList() {
	s.Run("delete removes the document", func() {
		_, err := s.service.Put(s.ctx, "ns", "doomed", []byte(`{}`))
		s.Require().NoError(err)
		s.Require().NoError(s.service.Delete(s.ctx, "ns", "doomed"))

		_, err = s.service.Get(s.ctx, "ns", "doomed")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("delete of an unknown document is not found", func() {
		err := s.service.Delete(s.ctx, "ns", "never-existed")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("list returns a namespace ordered by key", func() {
		_, err := s.service.Put(s.ctx, "listing", "b-key", []byte(`{}`))
		s.Require().NoError(err)
		_, err = s.service.Put(s.ctx, "listing", "a-key", []byte(`{}`))
		s.Require().NoError(err)
		_, err = s.service.Put(s.ctx, "other", "c-key", []byte(`{}`))
		s.Require().NoError(err)

		out, err := s.service.List(s.ctx, "listing")
		s.Require().NoError(err)
		s.Require().Len(out, 2)
		s.Equal("a-key", out[0].Key)
		s.Equal("b-key", out[1].Key)
	})
}

func (s *SettingsServiceSuite) TestAuditTrail() {
	ctx := requestcontext.WithClientMetadata(s.ctx, "203.0.113.7", "Mozilla/5.0", "Firefox 128 on Linux")

	_, err := s.service.Put(ctx, "ns", "key", []byte(`{}`))
	s.Require().NoError(err)
	s.Require().NoError(s.service.Delete(ctx, "ns", "key"))

	events := s.publisher.Events()
	s.Require().Len(events, 2)
	s.Equal(audit.EventSettingUpdated, events[0].Action)
	s.Equal(audit.EventSettingDeleted, events[1].Action)
	s.Equal(audit.CategorySecurity, events[0].Category)
	s.Equal("ns/key", events[0].Subject)
	s.Equal("203.0.113.7", events[0].ClientIP)
	s.Equal("Firefox 128 on Linux", events[0].Device)
}
