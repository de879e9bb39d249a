package sqlite_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/linkmark/internal/infrastructure/persistence/sqlite"
)

func TestNewConnection_EmptyPath(t *testing.T) {
	_, err := sqlite.NewConnection(testCtx(), "")
	assert.ErrorIs(t, err, sqlite.ErrEmptyPath)
}

func TestNewConnection_ReopenKeepsVisits(t *testing.T) {
	ctx := testCtx()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	db, err := sqlite.NewConnection(ctx, path)
	require.NoError(t, err)
	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	_, err = sqlite.NewHistoryRepository(db).RecordVisit(ctx, "https://example.com/", "Example", at)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.NewConnection(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var mode string
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	visits, err := sqlite.NewHistoryRepository(db).GetVisits(ctx, "https://example.com/")
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.True(t, visits[0].Equal(at))
}
