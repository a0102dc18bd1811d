// Package worker relays audit events from the Postgres outbox to Kafka.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"assetgov/pkg/platform/audit/store/postgres"
	"assetgov/pkg/platform/circuit"
)

// Outbox is the relay's view of the outbox table.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]postgres.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Producer publishes one record and waits for the broker acknowledgement.
type Producer interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

// Worker polls the outbox and publishes entries in order. While the breaker is
// open it sends one entry per tick as a probe.
type Worker struct {
	outbox    Outbox
	producer  Producer
	topic     string
	batchSize int
	interval  time.Duration
	breaker   *circuit.Breaker
	logger    *slog.Logger
}

type Option func(*Worker)

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(w *Worker) {
		w.breaker = b
	}
}

func NewWorker(outbox Outbox, producer Producer, topic string, opts ...Option) *Worker {
	w := &Worker{
		outbox:    outbox,
		producer:  producer,
		topic:     topic,
		batchSize: 100,
		interval:  time.Second,
		breaker:   circuit.New("audit-outbox"),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run relays until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
				w.logger.WarnContext(ctx, "audit relay batch failed", "error", err)
			}
		}
	}
}

// ProcessBatch publishes one batch and returns how many entries were relayed.
// Entries published before a failure are still marked.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	limit := w.batchSize
	if w.breaker.IsOpen() {
		limit = 1
	}
	entries, err := w.outbox.FetchUnpublished(ctx, limit)
	if err != nil {
		return 0, err
	}

	published := make([]uuid.UUID, 0, len(entries))
	var publishErr error
	for _, e := range entries {
		if err := w.producer.Produce(ctx, w.topic, []byte(e.AggregateID), e.Payload); err != nil {
			if _, change := w.breaker.RecordFailure(); change.Opened {
				w.logger.WarnContext(ctx, "audit relay circuit opened", "topic", w.topic)
			}
			publishErr = err
			break
		}
		if _, change := w.breaker.RecordSuccess(); change.Closed {
			w.logger.InfoContext(ctx, "audit relay circuit closed", "topic", w.topic)
		}
		published = append(published, e.ID)
	}

	if err := w.outbox.MarkPublished(ctx, published); err != nil {
		return 0, err
	}
	return len(published), publishErr
}
