package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"assetgov/pkg/domain"
	"assetgov/pkg/platform/sentinel"
	txcontext "assetgov/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists records in the deployment_keys table. Components are
// stored as a text array in suite slot order. Writes join the operation's
// SQL transaction when one is in context.
type PostgresStore struct {
	db          *sql.DB
	coordinator domain.Address
}

// NewPostgres constructs a store scoped to one coordinator address.
func NewPostgres(db *sql.DB, coordinator domain.Address) *PostgresStore {
	return &PostgresStore{db: db, coordinator: coordinator}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Insert(ctx context.Context, rec Record) error {
	components := make([]string, 0, len(domain.ComponentKinds))
	for _, addr := range rec.Suite.Components() {
		components = append(components, addr.Hex())
	}
	query := `
		INSERT INTO deployment_keys (coordinator, key, components, deployed_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		s.coordinator.Hex(), rec.Key, pq.Array(components), rec.DeployedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("key %q: %w", rec.Key, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert deployment key: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (Record, error) {
	query := `
		SELECT components, deployed_at
		FROM deployment_keys
		WHERE coordinator = $1 AND key = $2
	`
	var (
		components []string
		deployedAt time.Time
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, s.coordinator.Hex(), key).
		Scan(pq.Array(&components), &deployedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("key %q: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get deployment key: %w", err)
	}
	suite, err := suiteFromComponents(components)
	if err != nil {
		return Record{}, err
	}
	return Record{Key: key, Suite: suite, DeployedAt: deployedAt}, nil
}

func suiteFromComponents(components []string) (domain.Suite, error) {
	if len(components) != len(domain.ComponentKinds) {
		return domain.Suite{}, fmt.Errorf("stored suite has %d components", len(components))
	}
	var suite domain.Suite
	for i, kind := range domain.ComponentKinds {
		addr, err := domain.ParseAddress(components[i])
		if err != nil {
			return domain.Suite{}, fmt.Errorf("stored address %q: %w", components[i], err)
		}
		suite.SetComponent(kind, addr)
	}
	return suite, nil
}
