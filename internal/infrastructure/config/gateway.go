package config

import (
	"context"
	"fmt"

	"github.com/bnema/linkmark/internal/application/port"
	"github.com/bnema/linkmark/internal/domain/entity"
)

// HighlightConfigGateway serves the highlighter configuration out of a
// Manager.
type HighlightConfigGateway struct {
	mgr *Manager
}

var _ port.HighlightConfigSource = (*HighlightConfigGateway)(nil)

func NewHighlightConfigGateway(mgr *Manager) *HighlightConfigGateway {
	return &HighlightConfigGateway{mgr: mgr}
}

func (g *HighlightConfigGateway) LoadHighlightConfig(ctx context.Context) (entity.HighlightConfig, error) {
	_ = ctx
	if g == nil || g.mgr == nil {
		return entity.HighlightConfig{}, fmt.Errorf("config manager not initialized")
	}
	cfg := g.mgr.Get()
	if cfg == nil {
		return entity.HighlightConfig{}, fmt.Errorf("config not loaded")
	}
	return cfg.Highlight.Entity(), nil
}

// SaveHighlightPerformance persists the performance knobs changed from the
// settings panel.
func (g *HighlightConfigGateway) SaveHighlightPerformance(ctx context.Context, c entity.HighlightConfig) error {
	_ = ctx
	if g == nil || g.mgr == nil {
		return fmt.Errorf("config manager not initialized")
	}
	current := g.mgr.Get()
	if current == nil {
		return fmt.Errorf("config not loaded")
	}
	current.Highlight.ApplyPerformance(c)
	return g.mgr.Save(current)
}
