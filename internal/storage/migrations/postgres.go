package migrations

import (
	"context"
	"fmt"

	"sleeper-trade-lab/internal/storage/postgres"
)

// RunPostgresMigrations applies all embedded SQL files in lexical order.
// Migrations are expected to be idempotent.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	files, err := loadFiles(PostgresFS, "postgres")
	if err != nil {
		return err
	}

	for _, f := range files {
		if _, err := pool.Exec(ctx, f.SQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", f.Name, err)
		}
	}
	return nil
}
