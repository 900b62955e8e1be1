package postgres

import (
	"context"
	"fmt"

	"squeeze-radar/internal/state"
)

// Store implements state.Store on the alert_cooldowns table, for
// deployments that already run Postgres and want the cooldown state
// visible to operators via SQL.
type Store struct {
	pool *Pool
}

// NewStore creates a Store.
func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

// Compile-time interface check.
var _ state.Store = (*Store)(nil)

// Load reads the full cooldown table. An empty table is a first run.
func (s *Store) Load(ctx context.Context) (map[string]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT alert_key, last_alert_ms FROM alert_cooldowns`)
	if err != nil {
		return nil, fmt.Errorf("load cooldowns: %w", err)
	}
	defer rows.Close()

	cooldowns := map[string]int64{}
	for rows.Next() {
		var key string
		var ts int64
		if err := rows.Scan(&key, &ts); err != nil {
			return nil, fmt.Errorf("scan cooldown row: %w", err)
		}
		cooldowns[key] = ts
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cooldown rows: %w", err)
	}
	return cooldowns, nil
}

// Save replaces the table contents with the given mapping in one
// transaction, so a crashed run never leaves a half-written window.
func (s *Store) Save(ctx context.Context, cooldowns map[string]int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save cooldowns: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM alert_cooldowns`); err != nil {
		return fmt.Errorf("clear cooldowns: %w", err)
	}

	for key, ts := range cooldowns {
		if _, err := tx.Exec(ctx,
			`INSERT INTO alert_cooldowns (alert_key, last_alert_ms) VALUES ($1, $2)`,
			key, ts,
		); err != nil {
			return fmt.Errorf("insert cooldown %s: %w", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cooldowns: %w", err)
	}
	return nil
}
