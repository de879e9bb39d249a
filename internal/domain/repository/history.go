package repository

import (
	"context"
	"time"

	"github.com/bnema/linkmark/internal/domain/entity"
)

// HistoryRepository defines operations for browsing history persistence.
type HistoryRepository interface {
	// RecordVisit upserts the entry for url and appends one visit at the given time.
	RecordVisit(ctx context.Context, url, title string, at time.Time) (*entity.HistoryEntry, error)

	// FindByURL retrieves a history entry by its URL. Returns nil, nil when absent.
	FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error)

	// GetVisits returns every recorded visit time for an exact URL match.
	GetVisits(ctx context.Context, url string) ([]time.Time, error)

	// GetRecent retrieves recent history entries with pagination.
	GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error)

	// Delete removes a single history entry by ID.
	Delete(ctx context.Context, id int64) error

	// DeleteOlderThan removes entries last visited before the given time.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)

	// DeleteAll removes all history entries.
	DeleteAll(ctx context.Context) error

	// GetStats retrieves overall history statistics.
	GetStats(ctx context.Context) (*entity.HistoryStats, error)
}
