//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	audit "assetgov/pkg/platform/audit"
	"assetgov/pkg/platform/audit/store/postgres"
	"assetgov/pkg/testutil/containers"
)

type OutboxSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestOutboxSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OutboxSuite))
}

func (s *OutboxSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *OutboxSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "outbox"))
}

func event(action audit.AuditEvent, subject string) audit.Event {
	return audit.Event{
		Timestamp: time.Now().UTC(),
		Actor:     "0xadmin",
		Subject:   subject,
		Action:    string(action),
		Key:       "alpha",
	}
}

func (s *OutboxSuite) TestAppendAndRelayOrder() {
	ctx := context.Background()
	s.Require().NoError(s.store.Append(ctx, event(audit.EventSuiteDeployed, "asset")))
	s.Require().NoError(s.store.Append(ctx, event(audit.EventOwnershipProposed, "asset")))

	entries, err := s.store.FetchUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(string(audit.EventSuiteDeployed), entries[0].EventType)
	s.Equal("asset", entries[0].AggregateID)

	s.Require().NoError(s.store.MarkPublished(ctx, []uuid.UUID{entries[0].ID}))
	entries, err = s.store.FetchUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(string(audit.EventOwnershipProposed), entries[0].EventType)
}

func (s *OutboxSuite) TestListRecentDecodesPayload() {
	ctx := context.Background()
	s.Require().NoError(s.store.Append(ctx, event(audit.EventSuiteDeployed, "asset")))

	events, err := s.store.ListRecent(ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("asset", events[0].Subject)
	s.Equal("alpha", events[0].Key)
	s.Equal(audit.EventSuiteDeployed.Category(), events[0].Category)
}
