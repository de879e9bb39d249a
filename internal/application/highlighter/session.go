// Package highlighter marks the links of a page by how recently they were
// visited. A Session owns one page: it scans existing links in adaptive
// batches, follows inserted content, and tears itself down on in-page
// navigation. All page access happens on the session's own loop goroutine.
package highlighter

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bnema/linkmark/internal/application/port"
	"github.com/bnema/linkmark/internal/domain/entity"
	"github.com/bnema/linkmark/internal/domain/url"
	"github.com/bnema/linkmark/internal/logging"
	"github.com/bnema/linkmark/internal/mainloop"
)

// State is the lifecycle state of a Session.
type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateTornDown:
		return "torn-down"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Deps are the ports a Session works against. Navigation, Frames and
// Metrics are optional.
type Deps struct {
	Document   port.Document
	History    port.HistoryStore
	Config     port.HighlightConfigSource
	Navigation port.NavigationSource
	Frames     port.FrameScheduler
	Metrics    *Metrics
}

// Option configures a Session.
type Option func(*Session)

// WithHistoryTimeout overrides DefaultHistoryTimeout.
func WithHistoryTimeout(d time.Duration) Option {
	return func(s *Session) { s.historyTimeout = d }
}

// WithClock sets the clock used to classify visits.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session highlights the links of one page.
type Session struct {
	id  string
	log zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	loop      *mainloop.Loop
	coalescer *mainloop.Coalescer

	doc        port.Document
	nav        port.NavigationSource
	configSrc  port.HighlightConfigSource
	frames     port.FrameScheduler
	metrics    *Metrics
	cache      *VisitCache
	presenter  *Presenter
	validator  *url.Validator
	classifier *Classifier

	now            func() time.Time
	historyTimeout time.Duration

	started atomic.Bool
	state   atomic.Int32

	// Loop-confined from here on.
	cfg       entity.HighlightConfig
	enabled   bool
	batchSize int
	delay     time.Duration
	cycle     uint64
	processed map[port.ElementID]struct{}
	inflight  int
	perf      entity.PerformanceMetrics
	timers    timerSet
	watcher   *navigationWatcher

	disconnect func()
	records    []port.MutationRecord
	throttle   uint64
}

// NewSession builds a session for one page. It fails with
// ErrMissingDependency when the document, history or config port is nil.
func NewSession(ctx context.Context, deps Deps, opts ...Option) (*Session, error) {
	switch {
	case deps.Document == nil:
		return nil, fmt.Errorf("%w: document", ErrMissingDependency)
	case deps.History == nil:
		return nil, fmt.Errorf("%w: history store", ErrMissingDependency)
	case deps.Config == nil:
		return nil, fmt.Errorf("%w: config source", ErrMissingDependency)
	}

	id := uuid.NewString()
	ctx = logging.WithSessionID(logging.WithComponent(ctx, "highlighter"), id)
	ctx, cancel := context.WithCancel(ctx)

	s := &Session{
		id:        id,
		log:       *logging.FromContext(ctx),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		doc:       deps.Document,
		nav:       deps.Navigation,
		configSrc: deps.Config,
		frames:    deps.Frames,
		metrics:   deps.Metrics,
		now:       time.Now,
		processed: make(map[port.ElementID]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.frames == nil {
		s.frames = mainloop.TimerFrames{}
	}

	s.loop = mainloop.NewLoop(ctx)
	s.coalescer = mainloop.NewCoalescer(func(fn func()) {
		s.frames.RequestFrame(func() { s.loop.Post(fn) })
	})
	s.timers = newTimerSet(s.loop.Post)
	s.watcher = newNavigationWatcher(s)

	client := NewHistoryClient(deps.History, s.historyTimeout, s.metrics)
	s.cache = NewVisitCache(client.Lookup, s.metrics)
	s.presenter = NewPresenter(true)

	return s, nil
}

// ID is the session id used in logs and stats.
func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return State(s.state.Load()) }

// Done is closed once the session has been torn down, either by Shutdown,
// by a failed Start or by in-page navigation.
func (s *Session) Done() <-chan struct{} { return s.done }

// Start loads the configuration, injects the stylesheet and, if enabled,
// begins highlighting. On failure the page is left untouched and the
// session is torn down.
func (s *Session) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	s.loop.Start()

	var initErr error
	if err := s.loop.Do(ctx, func() { initErr = s.init() }); err != nil {
		return err
	}
	return initErr
}

func (s *Session) init() error {
	s.applyConfig(s.loadConfig())

	if err := s.watcher.start(); err != nil {
		s.abort(err)
		return err
	}
	if err := s.doc.InjectStyle(StyleElementID, Stylesheet(s.cfg.Colors)); err != nil {
		s.watcher.stop()
		err = fmt.Errorf("inject styles: %w", err)
		s.abort(err)
		return err
	}

	s.state.Store(int32(StateReady))
	s.metrics.sessionStarted()
	s.log.Info().Bool("enabled", s.enabled).Str("url", logging.TruncateURL(s.doc.URL(), 80)).Msg("session ready")

	if s.enabled {
		s.startHighlighting()
	}
	return nil
}

// loadConfig falls back to the defaults when the source fails.
func (s *Session) loadConfig() entity.HighlightConfig {
	cfg, err := s.configSrc.LoadHighlightConfig(s.ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load config, using defaults")
		return entity.DefaultHighlightConfig()
	}
	return cfg
}

func (s *Session) applyConfig(cfg entity.HighlightConfig) {
	s.cfg = cfg.Clone()
	s.enabled = cfg.Enabled
	s.batchSize = max(1, cfg.MaxLinksPerBatch)
	s.delay = cfg.ProcessingDelay
	s.validator = url.NewValidator(cfg.IncludedProtocols)
	s.classifier = NewClassifier(s.validator, s.cache, s.now)
	s.presenter.SetPreserveClasses(cfg.PreserveClassChanges)
}

func (s *Session) startHighlighting() {
	s.enabled = true
	s.cfg.Enabled = true
	clear(s.processed)

	s.highlightExisting()
	if err := s.startObserving(); err != nil {
		s.log.Warn().Err(err).Msg("dynamic content will not be highlighted")
	}
}

// stopHighlighting halts scheduling, strips every marker and resets the
// session caches. Lookups still in flight are discarded when they land.
func (s *Session) stopHighlighting() {
	s.cycle++
	s.timers.cancelAll()
	s.stopObserving()

	stripped := 0
	for _, el := range s.doc.Links() {
		if err := s.presenter.Strip(el); err != nil {
			s.log.Debug().Err(err).Msg("failed to strip link")
			continue
		}
		stripped++
	}
	s.presenter.Reset()
	s.cache.Clear()
	clear(s.processed)

	s.log.Debug().Int("links", stripped).Msg("highlighting stopped")
}

func (s *Session) abort(err error) {
	s.log.Error().Err(err).Msg("session init failed")
	s.state.Store(int32(StateTornDown))
	s.cancel()
	close(s.done)
	s.loop.Close()
}

// teardown destroys the session: markers, stylesheet and subscriptions are
// removed and the loop stops. Runs on the loop.
func (s *Session) teardown(reason string) {
	if s.State() != StateReady {
		return
	}
	s.stopHighlighting()
	s.enabled = false
	if err := s.doc.RemoveStyle(StyleElementID); err != nil {
		s.log.Debug().Err(err).Msg("failed to remove styles")
	}
	s.watcher.stop()
	s.coalescer.Destroy()

	s.state.Store(int32(StateTornDown))
	s.metrics.sessionEnded()
	s.log.Info().Str("reason", reason).Msg("session torn down")

	s.cancel()
	close(s.done)
	s.loop.Close()
}

// Shutdown tears the session down. It is a no-op on a torn-down session.
func (s *Session) Shutdown(ctx context.Context) error {
	if s.started.CompareAndSwap(false, true) {
		s.state.Store(int32(StateTornDown))
		s.cancel()
		close(s.done)
		s.loop.Close()
		return nil
	}

	err := s.loop.Do(ctx, func() { s.teardown("shutdown") })
	if errors.Is(err, mainloop.ErrClosed) {
		return nil
	}
	return err
}
