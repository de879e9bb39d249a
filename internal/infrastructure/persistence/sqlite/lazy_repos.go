// Package sqlite provides SQLite implementations of domain repositories.
//
// # Lazy Repository Infrastructure
//
// The lazy wrappers defer database initialization until first access. The CLI
// builds them for every command, so `config` subcommands and a disabled
// highlighter never open the history database.
package sqlite

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/linkmark/internal/application/port"
	"github.com/bnema/linkmark/internal/domain/entity"
	"github.com/bnema/linkmark/internal/domain/repository"
)

// LazyHistoryRepository wraps a history repository with lazy database initialization.
type LazyHistoryRepository struct {
	provider port.DatabaseProvider
	repo     repository.HistoryRepository
	once     sync.Once
	initErr  error
}

// NewLazyHistoryRepository creates a lazy-loading history repository.
func NewLazyHistoryRepository(provider port.DatabaseProvider) *LazyHistoryRepository {
	return &LazyHistoryRepository{provider: provider}
}

var _ repository.HistoryRepository = (*LazyHistoryRepository)(nil)

func (r *LazyHistoryRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewHistoryRepository(db)
	})
	return r.initErr
}

func (r *LazyHistoryRepository) RecordVisit(
	ctx context.Context, url, title string, at time.Time,
) (*entity.HistoryEntry, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.RecordVisit(ctx, url, title, at)
}

func (r *LazyHistoryRepository) FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.FindByURL(ctx, url)
}

func (r *LazyHistoryRepository) GetVisits(ctx context.Context, url string) ([]time.Time, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.GetVisits(ctx, url)
}

func (r *LazyHistoryRepository) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.GetRecent(ctx, limit, offset)
}

func (r *LazyHistoryRepository) Delete(ctx context.Context, id int64) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Delete(ctx, id)
}

func (r *LazyHistoryRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	if err := r.init(ctx); err != nil {
		return 0, err
	}
	return r.repo.DeleteOlderThan(ctx, before)
}

func (r *LazyHistoryRepository) DeleteAll(ctx context.Context) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.DeleteAll(ctx)
}

func (r *LazyHistoryRepository) GetStats(ctx context.Context) (*entity.HistoryStats, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.GetStats(ctx)
}
