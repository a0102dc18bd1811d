//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"assetgov/internal/deployment/store"
	"assetgov/pkg/domain"
	"assetgov/pkg/platform/sentinel"
	txcontext "assetgov/pkg/platform/tx"
	"assetgov/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB, domain.NamedAddress("coordinator"))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "deployment_keys"))
}

func (s *PostgresStoreSuite) TestInsertOnce() {
	ctx := context.Background()
	s.Require().NoError(s.store.Insert(ctx, record("alpha")))
	s.ErrorIs(s.store.Insert(ctx, record("alpha")), sentinel.ErrAlreadyUsed)

	got, err := s.store.Get(ctx, "alpha")
	s.Require().NoError(err)
	s.Equal("alpha", got.Key)
	s.Equal(record("alpha").Suite, got.Suite)
}

func (s *PostgresStoreSuite) TestMissingKey() {
	_, err := s.store.Get(context.Background(), "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestRolledBackInsertLeavesNothing() {
	ctx := context.Background()
	sqlTx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Insert(txcontext.WithTx(ctx, sqlTx), record("alpha")))
	s.Require().NoError(sqlTx.Rollback())

	_, err = s.store.Get(ctx, "alpha")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
