package highlighter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	lookupOK      = "ok"
	lookupTimeout = "timeout"
	lookupError   = "error"
)

// Metrics exports the engine's counters to Prometheus. One Metrics value is
// shared by every session of a process; collectors register once.
type Metrics struct {
	linksProcessed   prometheus.Counter
	domUpdates       prometheus.Counter
	throttledUpdates prometheus.Counter
	cacheHits        prometheus.Counter
	lookups          *prometheus.CounterVec
	batchDuration    prometheus.Histogram
	sessions         prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		linksProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkmark_links_processed_total",
			Help: "Links handled by scheduled batches",
		}),
		domUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkmark_dom_updates_total",
			Help: "Link presentation updates applied by scheduled batches",
		}),
		throttledUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkmark_throttled_updates_total",
			Help: "Mutation bursts that reset a pending throttle timer",
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkmark_visit_cache_hits_total",
			Help: "Visit lookups answered from the session cache",
		}),
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkmark_history_lookups_total",
			Help: "History store lookups by outcome",
		}, []string{"outcome"}),
		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "linkmark_batch_duration_seconds",
			Help:    "Wall time from batch dispatch to its last link being presented",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
		}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "linkmark_sessions_active",
			Help: "Highlighter sessions currently attached to a page",
		}),
	}
}

func (m *Metrics) observeBatch(links int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.linksProcessed.Add(float64(links))
	m.domUpdates.Add(float64(links))
	m.batchDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) throttled() {
	if m == nil {
		return
	}
	m.throttledUpdates.Inc()
}

func (m *Metrics) cacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) lookup(outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) sessionStarted() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) sessionEnded() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}
