//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"assetgov/internal/versions/store"
	"assetgov/pkg/domain"
	"assetgov/pkg/platform/sentinel"
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
	s.store = store.NewPostgres(s.postgres.DB, domain.NamedAddress("registry/reference"))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "version_bundles"))
}

func bundle(tag string) domain.Bundle {
	return domain.Bundle{
		Asset:               domain.NamedAddress(tag + "/asset"),
		TopicList:           domain.NamedAddress(tag + "/topics"),
		IssuerList:          domain.NamedAddress(tag + "/issuers"),
		EligibilityStorage:  domain.NamedAddress(tag + "/storage"),
		EligibilityRegistry: domain.NamedAddress(tag + "/registry"),
		Compliance:          domain.NamedAddress(tag + "/compliance"),
	}
}

func (s *PostgresStoreSuite) TestInsertAndGet() {
	ctx := context.Background()
	v := domain.Version{Major: 1, Minor: 2, Patch: 3}
	s.Require().NoError(s.store.Insert(ctx, v, bundle("a")))
	s.ErrorIs(s.store.Insert(ctx, v, bundle("b")), sentinel.ErrAlreadyUsed)

	got, err := s.store.Get(ctx, v)
	s.Require().NoError(err)
	s.Equal(bundle("a"), got)

	_, err = s.store.Get(ctx, domain.Version{Major: 9})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListIsOrdered() {
	ctx := context.Background()
	for _, v := range []domain.Version{{Major: 2}, {Major: 1, Minor: 10}, {Major: 1, Minor: 2}} {
		s.Require().NoError(s.store.Insert(ctx, v, bundle(v.String())))
	}

	other := store.NewPostgres(s.postgres.DB, domain.NamedAddress("registry/auxiliary"))
	s.Require().NoError(other.Insert(ctx, domain.Version{Major: 7}, bundle("aux")))

	entries, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(domain.Version{Major: 1, Minor: 2}, entries[0].Version)
	s.Equal(domain.Version{Major: 1, Minor: 10}, entries[1].Version)
	s.Equal(domain.Version{Major: 2}, entries[2].Version)
}
