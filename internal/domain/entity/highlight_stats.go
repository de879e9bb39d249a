package entity

import "time"

// PerformanceMetrics accumulates advisory counters for a session.
type PerformanceMetrics struct {
	TotalLinksProcessed   int64
	DOMUpdates            int64
	ThrottledUpdates      int64
	LastProcessTime       time.Duration
	AverageProcessingTime time.Duration
}

// HighlightStats is the point-in-time view reported to the settings surface.
type HighlightStats struct {
	SessionID              string
	CacheSize              int
	PendingQueries         int
	ProcessedLinks         int
	Enabled                bool
	ProcessingDelay        time.Duration
	MaxLinksPerBatch       int
	ThrottleDelay          time.Duration
	ThrottleDynamicContent bool
	ThrottledUpdates       int64
	LastProcessTime        time.Duration
	AverageProcessingTime  time.Duration
}
