package highlighter

import (
	"context"
	"errors"
	"time"

	"github.com/bnema/linkmark/internal/domain/entity"
	"github.com/bnema/linkmark/internal/domain/recency"
	"github.com/bnema/linkmark/internal/domain/url"
)

// Verdict is the outcome of classifying one href.
type Verdict struct {
	Key      string
	Category entity.Category
	Visits   entity.VisitData
	Summary  string
	// Rejection is set when the href failed validation; Category is then never.
	Rejection error
}

// Classifier runs the per-link pipeline short of touching the page:
// normalize, look up through the cache, classify.
type Classifier struct {
	validator *url.Validator
	cache     *VisitCache
	now       func() time.Time
}

func NewClassifier(validator *url.Validator, cache *VisitCache, now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{validator: validator, cache: cache, now: now}
}

// Classify resolves href against base and classifies it. A rejected href is
// not an error: it yields CategoryNever. Lookup failures are returned.
func (c *Classifier) Classify(ctx context.Context, href, base string) (Verdict, error) {
	key, err := c.validator.Normalize(href, base)
	if err != nil {
		if errors.Is(err, url.ErrRejected) {
			return Verdict{Category: entity.CategoryNever, Summary: recency.NeverVisited, Rejection: err}, nil
		}
		return Verdict{}, err
	}

	visits, err := c.cache.Get(ctx, key)
	if err != nil {
		return Verdict{Key: key}, err
	}

	now := c.now()
	return Verdict{
		Key:      key,
		Category: recency.Classify(visits, now),
		Visits:   visits,
		Summary:  recency.Summary(visits, now),
	}, nil
}
