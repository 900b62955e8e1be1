package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"squeeze-radar/internal/state/migrations"
	"squeeze-radar/internal/state/postgres"
)

// setupTestDB creates a PostgreSQL container and applies the embedded
// migrations. Returns a cleanup function that must be called after tests
// complete.
func setupTestDB(t *testing.T) (*postgres.Pool, func()) {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := postgres.NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	require.NoError(t, migrations.RunPostgresMigrations(ctx, pool),
		"failed to apply migrations")

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TestStore_LoadEmptyTable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewStore(pool)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, got, "empty table should load as empty map")
}

func TestStore_SaveAndLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewStore(pool)
	ctx := context.Background()

	want := map[string]int64{
		"LONG_BTC":  1_700_000_000_000,
		"SHORT_ETH": 1_700_000_360_000,
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestStore_SaveReplacesTable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, map[string]int64{
		"LONG_BTC":  100,
		"SHORT_ETH": 200,
	}))

	// A later save with a dropped key must remove the stale row.
	require.NoError(t, store.Save(ctx, map[string]int64{
		"LONG_BTC": 300,
	}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"LONG_BTC": 300}, got)
}

func TestMigrations_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	// Re-applying must not fail.
	require.NoError(t, migrations.RunPostgresMigrations(context.Background(), pool))
}
