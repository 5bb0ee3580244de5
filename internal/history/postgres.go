package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPoolSize = 4

// PostgresStore implements Store using pgxpool, for deployments where the
// history must outlive the host running the batch (e.g. ephemeral CI
// runners).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed history store.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the seen_items table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS seen_items (
			profile_id TEXT   NOT NULL,
			item_id    BIGINT NOT NULL,
			PRIMARY KEY (profile_id, item_id)
		)`)
	if err != nil {
		return fmt.Errorf("creating seen_items table: %w", err)
	}
	return nil
}

// Load reads all seen IDs into a Record.
func (s *PostgresStore) Load(ctx context.Context) (Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT profile_id, item_id FROM seen_items ORDER BY profile_id, item_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	defer rows.Close()

	rec := Record{}
	for rows.Next() {
		var profileID string
		var itemID int64
		if err := rows.Scan(&profileID, &itemID); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		rec[profileID] = append(rec[profileID], itemID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history rows: %w", err)
	}
	return rec, nil
}

// Save replaces the persisted state with rec in one transaction: new pairs
// are upserted and pairs no longer present (trimmed entries) are deleted.
func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning history save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM seen_items`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}

	for profileID, ids := range rec {
		for _, id := range ids {
			if _, err := tx.Exec(ctx,
				`INSERT INTO seen_items (profile_id, item_id) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				profileID, id,
			); err != nil {
				return fmt.Errorf("inserting seen item: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing history save: %w", err)
	}
	return nil
}

// Close shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
