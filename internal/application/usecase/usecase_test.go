package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/linkmark/internal/application/usecase"
	"github.com/bnema/linkmark/internal/domain/entity"
	repomocks "github.com/bnema/linkmark/internal/domain/repository/mocks"
	domainurl "github.com/bnema/linkmark/internal/domain/url"
	"github.com/bnema/linkmark/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func TestRecordVisitUseCase_NormalizesURL(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	historyRepo.EXPECT().
		RecordVisit(mock.Anything, "https://example.com/docs", "Docs", at).
		Return(&entity.HistoryEntry{ID: 1, URL: "https://example.com/docs", VisitCount: 2}, nil)

	uc := usecase.NewRecordVisitUseCase(historyRepo, []string{"http", "https"})
	entry, err := uc.Execute(ctx, usecase.RecordVisitInput{URL: "  example.com//docs/  ", Title: "Docs", At: at})

	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.VisitCount)
}

func TestRecordVisitUseCase_RejectsUnsafeURL(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)

	uc := usecase.NewRecordVisitUseCase(historyRepo, []string{"http", "https"})

	for _, raw := range []string{"javascript:alert(1)", "ftp://files.test/a", "", "mailto:a@b.test"} {
		_, err := uc.Execute(ctx, usecase.RecordVisitInput{URL: raw})
		assert.ErrorIs(t, err, usecase.ErrInvalidURL, raw)
	}

	_, err := uc.Execute(ctx, usecase.RecordVisitInput{URL: "javascript:void(0)"})
	var rejection *domainurl.RejectionError
	assert.ErrorAs(t, err, &rejection)
}

func TestRecordVisitUseCase_Normalize(t *testing.T) {
	uc := usecase.NewRecordVisitUseCase(repomocks.NewMockHistoryRepository(t), []string{"http", "https"})

	key, err := uc.Normalize("Example.COM/docs/#intro")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs", key)

	_, err = uc.Normalize("tel:+331234")
	assert.ErrorIs(t, err, usecase.ErrInvalidURL)
}

func TestRecordVisitUseCase_RepositoryError(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)

	historyRepo.EXPECT().
		RecordVisit(mock.Anything, "https://example.com/", "", mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("disk full"))

	uc := usecase.NewRecordVisitUseCase(historyRepo, nil)
	_, err := uc.Execute(ctx, usecase.RecordVisitInput{URL: "https://example.com"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSearchHistoryUseCase_GetRecent_DefaultsLimit(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)

	entries := []*entity.HistoryEntry{{ID: 1, URL: "https://example.com/"}}
	historyRepo.EXPECT().GetRecent(mock.Anything, 50, 0).Return(entries, nil)

	uc := usecase.NewSearchHistoryUseCase(historyRepo)
	result, err := uc.GetRecent(ctx, 0, -3)

	require.NoError(t, err)
	assert.Equal(t, entries, result)
}

func TestSearchHistoryUseCase_GetRecent_Error(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)

	historyRepo.EXPECT().GetRecent(mock.Anything, 10, 20).Return(nil, errors.New("boom"))

	uc := usecase.NewSearchHistoryUseCase(historyRepo)
	_, err := uc.GetRecent(ctx, 10, 20)

	assert.ErrorContains(t, err, "failed to get recent history")
}

func TestSearchHistoryUseCase_FindByURL_Missing(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)

	historyRepo.EXPECT().FindByURL(mock.Anything, "https://nowhere.test/").Return(nil, nil)

	uc := usecase.NewSearchHistoryUseCase(historyRepo)
	entry, err := uc.FindByURL(ctx, "https://nowhere.test/")

	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSearchHistoryUseCase_ClearOlderThan(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)

	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	historyRepo.EXPECT().DeleteOlderThan(mock.Anything, cutoff).Return(int64(4), nil)

	uc := usecase.NewSearchHistoryUseCase(historyRepo)
	n, err := uc.ClearOlderThan(ctx, cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestSearchHistoryUseCase_ClearAllAndDelete(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)

	historyRepo.EXPECT().DeleteAll(mock.Anything).Return(nil)
	historyRepo.EXPECT().Delete(mock.Anything, int64(9)).Return(errors.New("locked"))

	uc := usecase.NewSearchHistoryUseCase(historyRepo)
	require.NoError(t, uc.ClearAll(ctx))
	assert.ErrorContains(t, uc.Delete(ctx, 9), "locked")
}

func TestSearchHistoryUseCase_Stats(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)

	historyRepo.EXPECT().GetStats(mock.Anything).Return(&entity.HistoryStats{TotalEntries: 3, TotalVisits: 7, UniqueDays: 2}, nil)

	uc := usecase.NewSearchHistoryUseCase(historyRepo)
	stats, err := uc.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.TotalVisits)
}
