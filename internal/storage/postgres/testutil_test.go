package postgres

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a Postgres container holding the api_cache schema.
// The container is terminated through t.Cleanup.
func setupTestDB(t *testing.T) *Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("sleeper_cache"),
		postgres.WithUsername("lab"),
		postgres.WithPassword("lab"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")
	t.Cleanup(pool.Close)

	applySchema(t, pool)
	return pool
}

// applySchema executes ../migrations/postgres in file order. The migrations
// package imports this one, so the files are read from disk.
func applySchema(t *testing.T, pool *Pool) {
	t.Helper()

	dir := filepath.Join("..", "migrations", "postgres")
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	require.NoError(t, err, "failed to list migrations")
	require.NotEmpty(t, files, "no migrations in %s", dir)
	sort.Strings(files)

	for _, file := range files {
		sql, err := os.ReadFile(file)
		require.NoError(t, err, "failed to read %s", file)
		_, err = pool.Exec(context.Background(), string(sql))
		require.NoError(t, err, "failed to apply %s", filepath.Base(file))
	}
}
