package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"assetgov/pkg/domain"
	"assetgov/pkg/platform/sentinel"
	txcontext "assetgov/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists the bundles of one registry in the version_bundles
// table. Writes join the operation's SQL transaction when one is in context.
type PostgresStore struct {
	db       *sql.DB
	registry domain.Address
}

// NewPostgres constructs a store scoped to one registry address.
func NewPostgres(db *sql.DB, registry domain.Address) *PostgresStore {
	return &PostgresStore{db: db, registry: registry}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Insert(ctx context.Context, v domain.Version, b domain.Bundle) error {
	query := `
		INSERT INTO version_bundles (
			registry, major, minor, patch,
			asset, topic_list, issuer_list, eligibility_storage, eligibility_registry, compliance
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		s.registry.Hex(), int16(v.Major), int16(v.Minor), int16(v.Patch),
		b.Asset.Hex(), b.TopicList.Hex(), b.IssuerList.Hex(),
		b.EligibilityStorage.Hex(), b.EligibilityRegistry.Hex(), b.Compliance.Hex(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("version %s: %w", v, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert version bundle: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, v domain.Version) (domain.Bundle, error) {
	query := `
		SELECT asset, topic_list, issuer_list, eligibility_storage, eligibility_registry, compliance
		FROM version_bundles
		WHERE registry = $1 AND major = $2 AND minor = $3 AND patch = $4
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, s.registry.Hex(), int16(v.Major), int16(v.Minor), int16(v.Patch))
	b, err := scanBundle(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Bundle{}, fmt.Errorf("version %s: %w", v, sentinel.ErrNotFound)
	}
	if err != nil {
		return domain.Bundle{}, fmt.Errorf("get version bundle: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	query := `
		SELECT major, minor, patch,
			   asset, topic_list, issuer_list, eligibility_storage, eligibility_registry, compliance
		FROM version_bundles
		WHERE registry = $1
		ORDER BY major, minor, patch
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, s.registry.Hex())
	if err != nil {
		return nil, fmt.Errorf("list version bundles: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var major, minor, patch int16
		b, err := scanBundle(func(dest ...any) error {
			return rows.Scan(append([]any{&major, &minor, &patch}, dest...)...)
		})
		if err != nil {
			return nil, fmt.Errorf("scan version bundle: %w", err)
		}
		out = append(out, Entry{
			Version: domain.Version{Major: uint8(major), Minor: uint8(minor), Patch: uint8(patch)},
			Bundle:  b,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate version bundles: %w", err)
	}
	return out, nil
}

func scanBundle(scan func(dest ...any) error) (domain.Bundle, error) {
	var raw [6]string
	if err := scan(&raw[0], &raw[1], &raw[2], &raw[3], &raw[4], &raw[5]); err != nil {
		return domain.Bundle{}, err
	}
	var slots [6]domain.Address
	for i, r := range raw {
		a, err := domain.ParseAddress(r)
		if err != nil {
			return domain.Bundle{}, fmt.Errorf("stored address %q: %w", r, err)
		}
		slots[i] = a
	}
	return domain.Bundle{
		Asset:               slots[0],
		TopicList:           slots[1],
		IssuerList:          slots[2],
		EligibilityStorage:  slots[3],
		EligibilityRegistry: slots[4],
		Compliance:          slots[5],
	}, nil
}
