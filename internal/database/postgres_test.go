package database_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"bitacora-backend/internal/database"
	"bitacora-backend/internal/logger"
)

// TestPostgresStore runs the store contract against a real database. It
// truncates every table, so point TEST_DATABASE_URL at a scratch database.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := database.NewPostgresStore(ctx, dsn, database.PoolOptions{MaxOpenConns: 4, MaxIdleConns: 2})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, database.NewMigrator(store.DB(), logger.Nop()).Run(ctx))
	// A second run finds every migration applied.
	require.NoError(t, database.NewMigrator(store.DB(), logger.Nop()).Run(ctx))

	runStoreContract(t, func(t *testing.T) database.Store {
		_, err := store.DB().ExecContext(ctx, `
			TRUNCATE plan_files, plan_documents, media_assets, class_logs, projects, users
		`)
		require.NoError(t, err)
		return store
	})
}
