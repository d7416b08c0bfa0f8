package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAdapter stores session state in a Postgres table, for deployments
// that already run Postgres and want sessions to survive restarts without an
// extra Redis dependency. Rows are scoped per owner. The multi-key Delete is
// a single DELETE statement.
type PostgresAdapter struct {
	pool  *pgxpool.Pool
	owner string
}

// NewPostgresAdapter creates a Postgres-backed adapter over an existing pool.
func NewPostgresAdapter(pool *pgxpool.Pool, owner string) *PostgresAdapter {
	return &PostgresAdapter{pool: pool, owner: owner}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (p *PostgresAdapter) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS client_session (
			owner TEXT NOT NULL,
			key   TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (owner, key)
		)`
	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create session table: %w", err)
	}
	return nil
}

func (p *PostgresAdapter) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM client_session WHERE owner = $1 AND key = $2`
	var value string
	err := p.pool.QueryRow(ctx, query, p.owner, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("session get %s: %w", key, err)
	}
	return value, nil
}

func (p *PostgresAdapter) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO client_session (owner, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (owner, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := p.pool.Exec(ctx, query, p.owner, key, value); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (p *PostgresAdapter) Delete(ctx context.Context, keys ...string) error {
	const query = `DELETE FROM client_session WHERE owner = $1 AND key = ANY($2)`
	if _, err := p.pool.Exec(ctx, query, p.owner, keys); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
