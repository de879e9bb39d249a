package highlighter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/linkmark/internal/domain/entity"
)

func TestVisitCache_ConcurrentGetsShareOneLookup(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls atomic.Int32
		release := make(chan struct{})
		want := entity.VisitData{TotalVisits: 2, LastVisit: time.Now(), FirstVisit: time.Now().Add(-time.Hour)}

		cache := NewVisitCache(func(context.Context, string) (entity.VisitData, error) {
			calls.Add(1)
			<-release
			return want, nil
		}, nil)

		const callers = 10
		results := make([]entity.VisitData, callers)
		var wg sync.WaitGroup
		for i := range callers {
			wg.Go(func() {
				v, err := cache.Get(context.Background(), "https://example.com/a")
				assert.NoError(t, err)
				results[i] = v
			})
		}

		synctest.Wait()
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 1, cache.Pending())
		assert.Equal(t, 0, cache.Len())

		close(release)
		wg.Wait()

		for _, v := range results {
			assert.Equal(t, want, v)
		}
		assert.Equal(t, 0, cache.Pending())
		assert.Equal(t, 1, cache.Len())

		// hits never reach the lookup
		v, err := cache.Get(context.Background(), "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, want, v)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestVisitCache_SharedErrorIsNotCached(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls atomic.Int32
		release := make(chan struct{})
		boom := errors.New("boom")

		cache := NewVisitCache(func(context.Context, string) (entity.VisitData, error) {
			calls.Add(1)
			<-release
			return entity.VisitData{}, boom
		}, nil)

		errs := make([]error, 3)
		var wg sync.WaitGroup
		for i := range errs {
			wg.Go(func() {
				_, errs[i] = cache.Get(context.Background(), "https://example.com/b")
			})
		}
		synctest.Wait()
		close(release)
		wg.Wait()

		for _, err := range errs {
			assert.ErrorIs(t, err, boom)
		}
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 0, cache.Pending())
		assert.Equal(t, 0, cache.Len())

		_, err := cache.Get(context.Background(), "https://example.com/b")
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestVisitCache_ClearDropsInFlightResult(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		release := make(chan struct{})
		cache := NewVisitCache(func(context.Context, string) (entity.VisitData, error) {
			<-release
			return entity.VisitData{TotalVisits: 1, LastVisit: time.Now()}, nil
		}, nil)

		done := make(chan entity.VisitData)
		go func() {
			v, _ := cache.Get(context.Background(), "https://example.com/c")
			done <- v
		}()

		synctest.Wait()
		require.Equal(t, 1, cache.Pending())
		cache.Clear()
		assert.Equal(t, 0, cache.Pending())

		close(release)
		v := <-done
		assert.Equal(t, 1, v.TotalVisits, "the waiting caller still gets its answer")
		assert.Equal(t, 0, cache.Len(), "but it is not stored")
	})
}

func TestVisitCache_CallerContextCancelled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		release := make(chan struct{})
		cache := NewVisitCache(func(context.Context, string) (entity.VisitData, error) {
			<-release
			return entity.VisitData{TotalVisits: 1, LastVisit: time.Now()}, nil
		}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error)
		go func() {
			_, err := cache.Get(ctx, "https://example.com/d")
			errc <- err
		}()

		synctest.Wait()
		cancel()
		assert.ErrorIs(t, <-errc, context.Canceled)

		close(release)
		synctest.Wait()
		_, ok := cache.Peek("https://example.com/d")
		assert.True(t, ok, "an abandoned lookup still fills the cache")
	})
}

func TestVisitCache_PendingDrainsForEveryCaller(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		boom := errors.New("boom")
		cache := NewVisitCache(func(context.Context, string) (entity.VisitData, error) {
			time.Sleep(10 * time.Millisecond)
			return entity.VisitData{}, boom
		}, nil)

		var wg sync.WaitGroup
		for wave := range 4 {
			for range 5 {
				wg.Go(func() {
					_, err := cache.Get(context.Background(), "https://example.com/e")
					assert.ErrorIs(t, err, boom)
				})
			}
			// later waves join a lookup that is already running or has just ended
			time.Sleep(time.Duration(wave*3) * time.Millisecond)
		}

		ctx, cancel := context.WithCancel(context.Background())
		wg.Go(func() {
			_, err := cache.Get(ctx, "https://example.com/e")
			assert.ErrorIs(t, err, context.Canceled)
		})
		synctest.Wait()
		assert.Equal(t, 1, cache.Pending())
		cancel()

		wg.Wait()
		synctest.Wait()
		assert.Equal(t, 0, cache.Pending())
		assert.Equal(t, 0, cache.Len())
	})
}
