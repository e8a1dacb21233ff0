// Package sqlstoretest opens migrated in-memory SQLite stores for tests.
package sqlstoretest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/config"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore"
)

// New returns a fresh, migrated store private to t. It is closed on cleanup.
func New(t testing.TB) *sqlstore.Store {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	}
	store, err := sqlstore.Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}
