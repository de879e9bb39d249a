package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/linkmark/internal/domain/entity"
	"github.com/bnema/linkmark/internal/domain/repository"
	"github.com/bnema/linkmark/internal/logging"
)

const logURLMaxLen = 60

const (
	upsertHistorySQL = `
INSERT INTO history (url, title, visit_count, last_visited, created_at)
VALUES (?, ?, 1, ?, ?)
ON CONFLICT(url) DO UPDATE SET
    title = CASE WHEN excluded.title != '' THEN excluded.title ELSE history.title END,
    visit_count = history.visit_count + 1,
    last_visited = MAX(history.last_visited, excluded.last_visited)
RETURNING id, url, title, visit_count, last_visited, created_at`

	insertVisitSQL = `INSERT INTO history_visits (history_id, visited_at) VALUES (?, ?)`

	selectHistoryColumns = `SELECT id, url, title, visit_count, last_visited, created_at FROM history`

	getVisitsSQL = `
SELECT v.visited_at FROM history_visits v
JOIN history h ON h.id = v.history_id
WHERE h.url = ?
ORDER BY v.visited_at`

	getStatsSQL = `
SELECT
    (SELECT COUNT(*) FROM history),
    (SELECT COUNT(*) FROM history_visits),
    (SELECT COUNT(DISTINCT visited_at / 86400000) FROM history_visits)`
)

type historyRepo struct {
	db *sql.DB
}

// NewHistoryRepository creates a new SQLite-backed history repository.
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) RecordVisit(ctx context.Context, url, title string, at time.Time) (*entity.HistoryEntry, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("url", logging.TruncateURL(url, logURLMaxLen)).Msg("recording visit")

	if at.IsZero() {
		at = time.Now()
	}
	ms := at.UnixMilli()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin record visit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	entry, err := scanHistory(tx.QueryRowContext(ctx, upsertHistorySQL, url, title, ms, ms))
	if err != nil {
		return nil, fmt.Errorf("upsert history: %w", err)
	}

	if _, err := tx.ExecContext(ctx, insertVisitSQL, entry.ID, ms); err != nil {
		return nil, fmt.Errorf("insert visit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit record visit: %w", err)
	}
	return entry, nil
}

func (r *historyRepo) FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error) {
	entry, err := scanHistory(r.db.QueryRowContext(ctx, selectHistoryColumns+` WHERE url = ?`, url))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func (r *historyRepo) GetVisits(ctx context.Context, url string) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, getVisitsSQL, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	visits := make([]time.Time, 0, 4)
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return nil, err
		}
		visits = append(visits, time.UnixMilli(ms))
	}
	return visits, rows.Err()
}

func (r *historyRepo) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		selectHistoryColumns+` ORDER BY last_visited DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []*entity.HistoryEntry
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*entity.HistoryEntry{}
	}
	return entries, nil
}

func (r *historyRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	return err
}

func (r *historyRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE last_visited < ?`, before.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *historyRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM history`)
	return err
}

func (r *historyRepo) GetStats(ctx context.Context) (*entity.HistoryStats, error) {
	var stats entity.HistoryStats
	err := r.db.QueryRowContext(ctx, getStatsSQL).Scan(&stats.TotalEntries, &stats.TotalVisits, &stats.UniqueDays)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (*entity.HistoryEntry, error) {
	var (
		entry                  entity.HistoryEntry
		lastVisited, createdAt int64
	)
	if err := row.Scan(&entry.ID, &entry.URL, &entry.Title, &entry.VisitCount, &lastVisited, &createdAt); err != nil {
		return nil, err
	}
	entry.LastVisited = time.UnixMilli(lastVisited)
	entry.CreatedAt = time.UnixMilli(createdAt)
	return &entry, nil
}
