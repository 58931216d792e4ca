package credential

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"fieldgate/internal/verification/models"
	id "fieldgate/pkg/domain"
)

type CredentialStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *CredentialStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestCredentialStoreSuite(t *testing.T) {
	suite.Run(t, new(CredentialStoreSuite))
}

func (s *CredentialStoreSuite) TestReplaceAndRead() {
	userID := id.UserID(uuid.New())

	s.Run("unknown user has an empty set", func() {
		creds, err := s.store.CredentialsForUser(s.ctx, userID)
		s.Require().NoError(err)
		s.Empty(creds)
	})

	s.Run("replace stores in order", func() {
		set := []models.Credential{
			{VCType: "digilocker", DocType: "aadhaar", DocFormat: "xml"},
			{VCType: "w3c", DocType: "tenthMarksheet", DocFormat: "json-ld"},
		}
		s.Require().NoError(s.store.ReplaceForUser(s.ctx, userID, set))

		creds, err := s.store.CredentialsForUser(s.ctx, userID)
		s.Require().NoError(err)
		s.Require().Len(creds, 2)
		s.Equal("aadhaar", creds[0].DocType)
		s.Equal("tenthMarksheet", creds[1].DocType)
	})

	s.Run("replace overwrites the previous set", func() {
		s.Require().NoError(s.store.ReplaceForUser(s.ctx, userID, nil))

		creds, err := s.store.CredentialsForUser(s.ctx, userID)
		s.Require().NoError(err)
		s.Empty(creds)
	})

	s.Run("users do not share sets", func() {
		other := id.UserID(uuid.New())
		s.Require().NoError(s.store.ReplaceForUser(s.ctx, other, []models.Credential{
			{VCType: "w3c", DocType: "casteCertificate"},
		}))

		creds, err := s.store.CredentialsForUser(s.ctx, userID)
		s.Require().NoError(err)
		s.Empty(creds)
	})
}
