package highlighter

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/linkmark/internal/domain/entity"
	"github.com/bnema/linkmark/internal/mainloop"
)

// Controller is the command surface of a running session.
type Controller interface {
	SetEnabled(ctx context.Context, enabled bool) error
	ReloadConfig(ctx context.Context) error
	Refresh(ctx context.Context) error
	ClearCache(ctx context.Context) error
	UpdatePerformance(ctx context.Context, settings entity.PerformanceSettings) error
	Snapshot(ctx context.Context) (Snapshot, error)
}

var _ Controller = (*Session)(nil)

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	Config      entity.HighlightConfig
	Enabled     bool
	Stats       entity.HighlightStats
	Performance entity.PerformanceMetrics
}

// control runs fn on the loop once the session is ready.
func (s *Session) control(ctx context.Context, fn func() error) error {
	if s.State() != StateReady {
		return ErrNotRunning
	}

	var err error
	doErr := s.loop.Do(ctx, func() {
		if s.State() != StateReady {
			err = ErrNotRunning
			return
		}
		err = fn()
	})
	if errors.Is(doErr, mainloop.ErrClosed) {
		return ErrNotRunning
	}
	if doErr != nil {
		return doErr
	}
	return err
}

// SetEnabled starts or stops highlighting.
func (s *Session) SetEnabled(ctx context.Context, enabled bool) error {
	return s.control(ctx, func() error {
		if enabled == s.enabled {
			return nil
		}
		if enabled {
			s.startHighlighting()
		} else {
			s.stopHighlighting()
			s.enabled = false
			s.cfg.Enabled = false
		}
		s.log.Info().Bool("enabled", enabled).Msg("highlighting toggled")
		return nil
	})
}

// ReloadConfig replaces the configuration wholesale, re-derives the
// stylesheet and restarts highlighting if it is enabled.
func (s *Session) ReloadConfig(ctx context.Context) error {
	return s.control(ctx, func() error {
		if s.enabled {
			s.stopHighlighting()
		}
		s.applyConfig(s.loadConfig())

		if err := s.doc.InjectStyle(StyleElementID, Stylesheet(s.cfg.Colors)); err != nil {
			s.enabled = false
			return fmt.Errorf("inject styles: %w", err)
		}
		if s.enabled {
			s.startHighlighting()
		}
		s.log.Info().Bool("enabled", s.enabled).Msg("config reloaded")
		return nil
	})
}

// Refresh strips every marker and rescans the page.
func (s *Session) Refresh(ctx context.Context) error {
	return s.control(ctx, func() error {
		wasEnabled := s.enabled
		s.stopHighlighting()
		if wasEnabled {
			s.startHighlighting()
		}
		return nil
	})
}

// ClearCache forgets every cached visit and the processed set, so the next
// scan re-queries the history store.
func (s *Session) ClearCache(ctx context.Context) error {
	return s.control(ctx, func() error {
		s.cache.Clear()
		clear(s.processed)
		s.log.Debug().Msg("visit cache cleared")
		return nil
	})
}

// UpdatePerformance applies the non-nil knobs to the live configuration.
func (s *Session) UpdatePerformance(ctx context.Context, settings entity.PerformanceSettings) error {
	return s.control(ctx, func() error {
		s.cfg = settings.Apply(s.cfg)
		s.batchSize = max(1, s.cfg.MaxLinksPerBatch)
		s.delay = s.cfg.ProcessingDelay
		s.log.Debug().
			Int("batch_size", s.batchSize).
			Dur("delay", s.delay).
			Bool("throttle", s.cfg.ThrottleDynamicContent).
			Dur("throttle_delay", s.cfg.ThrottleDelay).
			Msg("performance settings updated")
		return nil
	})
}

// Snapshot reports the current configuration, statistics and metrics.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.control(ctx, func() error {
		snap = Snapshot{
			Config:      s.cfg.Clone(),
			Enabled:     s.enabled,
			Performance: s.perf,
			Stats: entity.HighlightStats{
				SessionID:              s.id,
				CacheSize:              s.cache.Len(),
				PendingQueries:         s.cache.Pending(),
				ProcessedLinks:         len(s.processed),
				Enabled:                s.enabled,
				ProcessingDelay:        s.delay,
				MaxLinksPerBatch:       s.batchSize,
				ThrottleDelay:          s.cfg.ThrottleDelay,
				ThrottleDynamicContent: s.cfg.ThrottleDynamicContent,
				ThrottledUpdates:       s.perf.ThrottledUpdates,
				LastProcessTime:        s.perf.LastProcessTime,
				AverageProcessingTime:  s.perf.AverageProcessingTime,
			},
		}
		return nil
	})
	return snap, err
}

// Idle reports whether the session has no batch, timer or lookup pending.
func (s *Session) Idle(ctx context.Context) (bool, error) {
	var idle bool
	err := s.control(ctx, func() error {
		idle = s.inflight == 0 && s.timers.len() == 0 && s.cache.Pending() == 0 &&
			!s.coalescer.Scheduled(mutationsKey)
		return nil
	})
	return idle, err
}
