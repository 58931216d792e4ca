//go:build integration

package definition_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fieldgate/internal/fields/models"
	"fieldgate/internal/fields/store/definition"
	id "fieldgate/pkg/domain"
	"fieldgate/pkg/platform/sentinel"
	"fieldgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *definition.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = definition.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "field_definitions"))
}

func newTestDefinition(name string, ordering int) *models.FieldDefinition {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.FieldDefinition{
		ID:        id.NewFieldID(),
		Name:      name,
		Label:     name,
		Type:      models.TypeText,
		Context:   models.ContextUsers,
		Ordering:  ordering,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()

	def := newTestDefinition("income_band", 1)
	def.FieldParams.Options = []string{"low", "mid", "high"}
	def.FieldAttributes = []byte(`{"icon":"coins"}`)
	s.Require().NoError(s.store.Create(ctx, def))

	found, err := s.store.FindByID(ctx, def.ID)
	s.Require().NoError(err)
	s.Equal(def.Name, found.Name)
	s.Equal(def.FieldParams.Options, found.FieldParams.Options)
	s.JSONEq(`{"icon":"coins"}`, string(found.FieldAttributes))
	s.Nil(found.SourceDetails)
}

func (s *PostgresStoreSuite) TestDuplicateID() {
	ctx := context.Background()

	def := newTestDefinition("dup", 1)
	s.Require().NoError(s.store.Create(ctx, def))
	s.ErrorIs(s.store.Create(ctx, def), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestListOrderingAndFilters() {
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	firstOlder := newTestDefinition("first_older", 1)
	firstOlder.CreatedAt = base
	firstNewer := newTestDefinition("first_newer", 1)
	firstNewer.CreatedAt = base.Add(time.Minute)
	second := newTestDefinition("second", 2)
	cohort := newTestDefinition("cohort_size", 0)
	cohort.Context = models.ContextCohorts

	for _, def := range []*models.FieldDefinition{second, firstNewer, firstOlder, cohort} {
		s.Require().NoError(s.store.Create(ctx, def))
	}

	defs, err := s.store.List(ctx, models.ListFilter{Context: models.ContextUsers})
	s.Require().NoError(err)
	s.Require().Len(defs, 3)
	s.Equal("first_older", defs[0].Name)
	s.Equal("first_newer", defs[1].Name)
	s.Equal("second", defs[2].Name)

	defs, err = s.store.List(ctx, models.ListFilter{Context: models.ContextCohorts})
	s.Require().NoError(err)
	s.Require().Len(defs, 1)
	s.Equal("cohort_size", defs[0].Name)
}

func (s *PostgresStoreSuite) TestUpdateAndDelete() {
	ctx := context.Background()

	def := newTestDefinition("mutable", 1)
	s.Require().NoError(s.store.Create(ctx, def))

	def.Label = "Mutable Field"
	def.IsHidden = true
	s.Require().NoError(s.store.Update(ctx, def))

	found, err := s.store.FindByID(ctx, def.ID)
	s.Require().NoError(err)
	s.Equal("Mutable Field", found.Label)
	s.True(found.IsHidden)

	s.Require().NoError(s.store.Delete(ctx, def.ID))
	_, err = s.store.FindByID(ctx, def.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(ctx, def.ID), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateMissing() {
	s.ErrorIs(s.store.Update(context.Background(), newTestDefinition("ghost", 1)), sentinel.ErrNotFound)
}
