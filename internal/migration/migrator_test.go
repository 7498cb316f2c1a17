package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/orders-api/internal/config"
	"github.com/Additional-Code/orders-api/internal/database"
)

func newSQLiteMigrator(t *testing.T) (*Migrator, *database.Connections) {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	cfg := config.Config{Database: config.Database{
		Driver:       "sqlite",
		WriterDSN:    dsn,
		ReaderDSN:    dsn,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}}
	conns, err := database.Open(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conns.Close() })

	mig, err := New(cfg, conns, zap.NewNop())
	require.NoError(t, err)
	return mig, conns
}

func TestMigratorUpAndDown(t *testing.T) {
	ctx := context.Background()
	mig, conns := newSQLiteMigrator(t)

	require.NoError(t, mig.Up(ctx))
	version, err := mig.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	_, err = conns.Writer.ExecContext(ctx,
		"INSERT INTO orders (customer_name, product, quantity, price) VALUES (?, ?, ?, ?)",
		"Daniela Morales", "USB-C Docking Station", 2, 899.99)
	require.NoError(t, err)

	// Applying again is a no-op.
	require.NoError(t, mig.Up(ctx))

	require.NoError(t, mig.Down(ctx, 0, true))
	version, err = mig.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	var count int
	err = conns.Writer.NewSelect().Table("sqlite_master").ColumnExpr("count(*)").
		Where("type = 'table' AND name = 'orders'").Scan(ctx, &count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGooseDialect(t *testing.T) {
	tests := map[string]string{
		"postgres": "postgres",
		"pgx":      "postgres",
		"mysql":    "mysql",
		"sqlite":   "sqlite3",
	}
	for driver, want := range tests {
		got, err := gooseDialect(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := gooseDialect("oracle")
	assert.Error(t, err)
}

func TestIsNoMigrationErr(t *testing.T) {
	assert.False(t, isNoMigrationErr(nil))
	assert.True(t, isNoMigrationErr(goose.ErrNoNextVersion))
	assert.True(t, isNoMigrationErr(errors.New("no migrations found")))
	assert.False(t, isNoMigrationErr(errors.New("syntax error")))
}
