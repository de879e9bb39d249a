package port

import (
	"context"

	"github.com/bnema/linkmark/internal/domain/entity"
)

// HighlightConfigSource loads the persisted highlighter configuration.
type HighlightConfigSource interface {
	LoadHighlightConfig(ctx context.Context) (entity.HighlightConfig, error)
}

// HighlightConfigFunc adapts a function to HighlightConfigSource.
type HighlightConfigFunc func(ctx context.Context) (entity.HighlightConfig, error)

func (f HighlightConfigFunc) LoadHighlightConfig(ctx context.Context) (entity.HighlightConfig, error) {
	return f(ctx)
}
