package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/linkmark/internal/domain/repository"
	"github.com/bnema/linkmark/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/linkmark/internal/logging"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func newHistoryRepo(t *testing.T) (context.Context, repository.HistoryRepository) {
	t.Helper()
	ctx := testCtx()

	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return ctx, sqlite.NewHistoryRepository(db)
}

func TestHistoryRepository_RecordVisit(t *testing.T) {
	ctx, repo := newHistoryRepo(t)
	first := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(26 * time.Hour)

	entry, err := repo.RecordVisit(ctx, "https://example.com/", "Example", first)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.VisitCount)
	assert.Equal(t, "Example", entry.Title)
	assert.True(t, entry.LastVisited.Equal(first))

	// an empty title keeps the stored one
	entry, err = repo.RecordVisit(ctx, "https://example.com/", "", second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.VisitCount)
	assert.Equal(t, "Example", entry.Title)
	assert.True(t, entry.LastVisited.Equal(second))
	assert.True(t, entry.CreatedAt.Equal(first))

	found, err := repo.FindByURL(ctx, "https://example.com/")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entry.ID, found.ID)
}

func TestHistoryRepository_OlderVisitKeepsLastVisited(t *testing.T) {
	ctx, repo := newHistoryRepo(t)
	recent := time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)

	_, err := repo.RecordVisit(ctx, "https://go.dev/", "Go", recent)
	require.NoError(t, err)
	entry, err := repo.RecordVisit(ctx, "https://go.dev/", "Go", recent.Add(-72*time.Hour))
	require.NoError(t, err)

	assert.True(t, entry.LastVisited.Equal(recent))
}

func TestHistoryRepository_GetVisits(t *testing.T) {
	ctx, repo := newHistoryRepo(t)
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{2 * time.Hour, 0, 5 * time.Hour} {
		_, err := repo.RecordVisit(ctx, "https://example.com/a", "", base.Add(offset))
		require.NoError(t, err)
	}
	_, err := repo.RecordVisit(ctx, "https://example.com/b", "", base)
	require.NoError(t, err)

	visits, err := repo.GetVisits(ctx, "https://example.com/a")
	require.NoError(t, err)
	require.Len(t, visits, 3)
	assert.True(t, visits[0].Equal(base))
	assert.True(t, visits[2].Equal(base.Add(5*time.Hour)))

	none, err := repo.GetVisits(ctx, "https://example.com/missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistoryRepository_FindByURL_Missing(t *testing.T) {
	ctx, repo := newHistoryRepo(t)

	entry, err := repo.FindByURL(ctx, "https://nowhere.test/")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestHistoryRepository_GetRecent(t *testing.T) {
	ctx, repo := newHistoryRepo(t)
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	urls := []string{"https://a.test/", "https://b.test/", "https://c.test/"}
	for i, u := range urls {
		_, err := repo.RecordVisit(ctx, u, "", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	recent, err := repo.GetRecent(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "https://c.test/", recent[0].URL)
	assert.Equal(t, "https://b.test/", recent[1].URL)

	rest, err := repo.GetRecent(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "https://a.test/", rest[0].URL)
}

func TestHistoryRepository_GetRecent_EmptyResult(t *testing.T) {
	ctx, repo := newHistoryRepo(t)

	results, err := repo.GetRecent(ctx, 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestHistoryRepository_DeleteOlderThan(t *testing.T) {
	ctx, repo := newHistoryRepo(t)
	cutoff := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.RecordVisit(ctx, "https://old.test/", "", cutoff.Add(-48*time.Hour))
	require.NoError(t, err)
	_, err = repo.RecordVisit(ctx, "https://new.test/", "", cutoff.Add(time.Hour))
	require.NoError(t, err)

	removed, err := repo.DeleteOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	visits, err := repo.GetVisits(ctx, "https://old.test/")
	require.NoError(t, err)
	assert.Empty(t, visits, "visits cascade with their entry")

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalEntries)
	assert.Equal(t, int64(1), stats.TotalVisits)
}

func TestHistoryRepository_StatsAndDeleteAll(t *testing.T) {
	ctx, repo := newHistoryRepo(t)
	day1 := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	for _, at := range []time.Time{day1, day1.Add(time.Hour), day2} {
		_, err := repo.RecordVisit(ctx, "https://example.com/", "", at)
		require.NoError(t, err)
	}
	_, err := repo.RecordVisit(ctx, "https://go.dev/", "", day2)
	require.NoError(t, err)

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalEntries)
	assert.Equal(t, int64(4), stats.TotalVisits)
	assert.Equal(t, int64(2), stats.UniqueDays)

	require.NoError(t, repo.DeleteAll(ctx))
	stats, err = repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
	assert.Zero(t, stats.TotalVisits)
}
