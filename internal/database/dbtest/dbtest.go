// Package dbtest provides an in-memory SQLite database with the orders schema
// applied, for tests that need a real store.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/orders-api/internal/config"
	"github.com/Additional-Code/orders-api/internal/database"
	"github.com/Additional-Code/orders-api/internal/migration"
)

var seq atomic.Int64

// Config returns a database configuration pointing at a private in-memory database.
func Config(t testing.TB) config.Config {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	return config.Config{
		Database: config.Database{
			Driver:    "sqlite",
			WriterDSN: dsn,
			ReaderDSN: dsn,
			// A single pooled connection keeps the in-memory database alive.
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Orders: config.Orders{DefaultPageSize: 10, MaxPageSize: 100},
	}
}

// New opens a migrated database and closes it when the test finishes.
func New(t testing.TB) *database.Connections {
	t.Helper()

	cfg := Config(t)
	conns, err := database.Open(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conns.Close() })

	mig, err := migration.New(cfg, conns, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, mig.Up(context.Background()))

	return conns
}
