package highlighter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/linkmark/internal/application/port"
	"github.com/bnema/linkmark/internal/domain/entity"
)

// DefaultHistoryTimeout bounds a single history lookup.
const DefaultHistoryTimeout = 3 * time.Second

// HistoryClient issues bounded visit lookups against the history store.
type HistoryClient struct {
	store   port.HistoryStore
	timeout time.Duration
	metrics *Metrics
}

// NewHistoryClient creates a client. A non-positive timeout uses DefaultHistoryTimeout.
func NewHistoryClient(store port.HistoryStore, timeout time.Duration, metrics *Metrics) *HistoryClient {
	if timeout <= 0 {
		timeout = DefaultHistoryTimeout
	}
	return &HistoryClient{store: store, timeout: timeout, metrics: metrics}
}

type visitsResult struct {
	visits []time.Time
	err    error
}

// Lookup returns the visit data for an exact URL. It fails with
// ErrHistoryTimeout when the store does not answer in time, and with a
// *HistoryStoreError when the store reports an error.
func (c *HistoryClient) Lookup(ctx context.Context, url string) (entity.VisitData, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// The store may ignore ctx; the buffered channel lets a late answer go.
	ch := make(chan visitsResult, 1)
	go func() {
		visits, err := c.store.GetVisits(ctx, url)
		ch <- visitsResult{visits: visits, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			if ctx.Err() != nil && errors.Is(res.err, context.DeadlineExceeded) {
				return entity.VisitData{}, c.timedOut()
			}
			c.metrics.lookup(lookupError)
			return entity.VisitData{}, &HistoryStoreError{Err: res.err}
		}
		c.metrics.lookup(lookupOK)
		return entity.NewVisitData(res.visits), nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return entity.VisitData{}, c.timedOut()
		}
		return entity.VisitData{}, ctx.Err()
	}
}

func (c *HistoryClient) timedOut() error {
	c.metrics.lookup(lookupTimeout)
	return fmt.Errorf("%w after %s", ErrHistoryTimeout, c.timeout)
}
