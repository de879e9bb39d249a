package port

import (
	"context"
	"time"
)

// HistoryStore answers exact-URL visit lookups.
//
//go:generate mockgen -source=history.go -destination=mocks/mock_history.go -package=mock_port
type HistoryStore interface {
	// GetVisits returns the time of every visit recorded for url.
	GetVisits(ctx context.Context, url string) ([]time.Time, error)
}
