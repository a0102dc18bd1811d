//go:build integration

package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"assetgov/internal/platform/config"
	"assetgov/internal/platform/kafka"
	audit "assetgov/pkg/platform/audit"
	"assetgov/pkg/platform/audit/store/postgres"
	"assetgov/pkg/platform/audit/worker"
	"assetgov/pkg/testutil/containers"
)

const topic = "assetgov.audit.test"

// Justification: the relay is only useful if outbox rows reach the broker in
// insertion order and are marked so they are not sent twice.
type RelaySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redpanda *containers.RedpandaContainer
	producer *kafka.Producer
}

func TestRelaySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.redpanda = mgr.GetRedpanda(s.T())

	producer, err := kafka.NewProducer(config.KafkaConfig{Brokers: s.redpanda.Brokers, ClientID: "assetgov-test"})
	s.Require().NoError(err)
	s.producer = producer
	s.Require().NoError(producer.EnsureTopic(context.Background(), topic, 1, 1))
}

func (s *RelaySuite) TearDownSuite() {
	s.producer.Close()
}

func (s *RelaySuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "outbox"))
}

func (s *RelaySuite) TestEnsureTopicIsIdempotent() {
	s.NoError(s.producer.EnsureTopic(context.Background(), topic, 1, 1))
	s.NoError(s.producer.Health(context.Background()))
}

func (s *RelaySuite) TestOutboxReachesBroker() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	outbox := postgres.New(s.postgres.DB)
	for _, action := range []audit.AuditEvent{audit.EventSuiteDeployed, audit.EventModuleBound} {
		s.Require().NoError(outbox.Append(ctx, audit.Event{
			Timestamp: time.Now(),
			Subject:   "0xasset",
			Action:    string(action),
		}))
	}

	w := worker.NewWorker(outbox, s.producer, topic)
	n, err := w.ProcessBatch(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = w.ProcessBatch(ctx)
	s.Require().NoError(err)
	s.Zero(n)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var keys []string
	for len(keys) < 2 {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err())
		fetches.EachRecord(func(r *kgo.Record) {
			keys = append(keys, string(r.Key))
		})
	}
	s.Equal([]string{"0xasset", "0xasset"}, keys)
}
