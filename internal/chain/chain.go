// Package chain is the execution substrate: a single address space holding
// deployed components and implementation code, mutated by one operation at a
// time. Each operation runs against a journal; if it fails or panics every
// in-memory change it made is undone before the next operation is admitted.
package chain

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"assetgov/internal/platform/metrics"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/tx"
)

var (
	ErrAddressInUse = dErrors.New(dErrors.CodeConflict, "address already occupied")
	ErrNoCode       = dErrors.New(dErrors.CodeNotFound, "no component deployed at address")
	ErrWrongKind    = dErrors.New(dErrors.CodeInvalidInput, "address holds a different kind of component")
)

// Chain serializes state-changing operations and holds the address space.
type Chain struct {
	mu      sync.RWMutex
	objects map[domain.Address]any
	db      *sql.DB
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Chain)

// WithLogger sets the logger used for reverted operations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Chain) {
		c.metrics = m
	}
}

// WithDB makes every operation run inside a SQL transaction so durable stores
// commit or roll back together with in-memory state.
func WithDB(db *sql.DB) Option {
	return func(c *Chain) {
		c.db = db
	}
}

// New creates an empty substrate.
func New(opts ...Option) *Chain {
	c := &Chain{objects: make(map[domain.Address]any)}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Execute runs fn as one all-or-nothing operation. Operations never overlap.
// A context already cancelled on entry is rejected; once started an operation
// runs to completion or reverts.
func (c *Chain) Execute(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if cerr := ctx.Err(); cerr != nil {
		return dErrors.Wrap(cerr, dErrors.CodeTimeout, "operation not started")
	}

	waitStart := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.ObserveLockWait(time.Since(waitStart))

	journal := tx.NewJournal()
	opCtx := tx.WithJournal(ctx, journal)

	var sqlTx *sql.Tx
	if c.db != nil {
		sqlTx, err = c.db.BeginTx(ctx, nil)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to begin transaction")
		}
		opCtx = tx.WithTx(opCtx, sqlTx)
	}

	defer func() {
		if r := recover(); r != nil {
			err = dErrors.New(dErrors.CodeInternal, fmt.Sprintf("operation panicked: %v", r))
		}
		if err == nil && sqlTx != nil {
			if cerr := sqlTx.Commit(); cerr != nil {
				err = dErrors.Wrap(cerr, dErrors.CodeInternal, "failed to commit transaction")
				sqlTx = nil
			}
		}
		if err != nil {
			steps := journal.Len()
			journal.Revert()
			if sqlTx != nil {
				_ = sqlTx.Rollback()
			}
			c.logger.DebugContext(ctx, "operation reverted",
				"reverted_steps", steps,
				"error", err,
			)
			c.metrics.ObserveRevert(steps)
			return
		}
		c.metrics.ObserveCommit(len(c.objects))
	}()

	return fn(opCtx)
}

// View runs fn under a read lock. fn must not mutate state.
func (c *Chain) View(ctx context.Context, fn func(ctx context.Context) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fn(ctx)
}

// Deploy places obj at addr. The placement is journaled, so a reverted
// operation frees the address for a later retry.
func (c *Chain) Deploy(ctx context.Context, addr domain.Address, obj any) error {
	if addr.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot deploy at the zero address")
	}
	if _, taken := c.objects[addr]; taken {
		return fmt.Errorf("deploy at %s: %w", addr, ErrAddressInUse)
	}
	tx.Put(ctx, c.objects, addr, obj)
	return nil
}

// Exists reports whether anything is deployed at addr.
func (c *Chain) Exists(addr domain.Address) bool {
	_, ok := c.objects[addr]
	return ok
}

// Lookup returns whatever is deployed at addr.
func (c *Chain) Lookup(addr domain.Address) (any, bool) {
	obj, ok := c.objects[addr]
	return obj, ok
}

// Addresses lists occupied addresses in byte order.
func (c *Chain) Addresses() []domain.Address {
	out := make([]domain.Address, 0, len(c.objects))
	for a := range c.objects {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return string(out[i][:]) < string(out[j][:]) })
	return out
}

// Resolve returns the object at addr as T.
func Resolve[T any](c *Chain, addr domain.Address) (T, error) {
	var zero T
	obj, ok := c.objects[addr]
	if !ok {
		return zero, fmt.Errorf("resolve %s: %w", addr, ErrNoCode)
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("resolve %s: %w", addr, ErrWrongKind)
	}
	return typed, nil
}
