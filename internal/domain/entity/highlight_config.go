package entity

import "time"

// CategoryColors maps each category to a #RRGGBB color used by the stylesheet.
type CategoryColors struct {
	Today string
	Week  string
	Month string
	Older string
	Never string
}

// For returns the color configured for c.
func (c CategoryColors) For(cat Category) string {
	switch cat {
	case CategoryToday:
		return c.Today
	case CategoryWeek:
		return c.Week
	case CategoryMonth:
		return c.Month
	case CategoryOlder:
		return c.Older
	default:
		return c.Never
	}
}

// HighlightConfig is the per-session snapshot of highlighter options.
// It is replaced wholesale on reload and never mutated while in use.
type HighlightConfig struct {
	Enabled                bool
	ProcessingDelay        time.Duration
	MaxLinksPerBatch       int
	MaxLinksPerPage        int
	AdaptivePerformance    bool
	IncludedProtocols      []string
	PreserveClassChanges   bool
	ThrottleDynamicContent bool
	ThrottleDelay          time.Duration
	Colors                 CategoryColors
}

// DefaultHighlightConfig returns the built-in defaults, used when loading fails.
func DefaultHighlightConfig() HighlightConfig {
	return HighlightConfig{
		Enabled:                true,
		ProcessingDelay:        50 * time.Millisecond,
		MaxLinksPerBatch:       5,
		MaxLinksPerPage:        1000,
		AdaptivePerformance:    true,
		IncludedProtocols:      []string{"http", "https", "file"},
		PreserveClassChanges:   true,
		ThrottleDynamicContent: true,
		ThrottleDelay:          500 * time.Millisecond,
		Colors: CategoryColors{
			Today: "#4CAF50",
			Week:  "#FFA500",
			Month: "#9C27B0",
			Older: "#795548",
			Never: "#9E9E9E",
		},
	}
}

// Clone returns a deep copy so callers can never share the protocol slice.
func (c HighlightConfig) Clone() HighlightConfig {
	out := c
	out.IncludedProtocols = append([]string(nil), c.IncludedProtocols...)
	return out
}

// PerformanceSettings is a partial update of the live performance knobs.
// Nil fields are left untouched.
type PerformanceSettings struct {
	ProcessingDelay        *time.Duration
	MaxLinksPerBatch       *int
	AdaptivePerformance    *bool
	ThrottleDelay          *time.Duration
	ThrottleDynamicContent *bool
}

// Apply returns a copy of c with the non-nil settings applied.
func (s PerformanceSettings) Apply(c HighlightConfig) HighlightConfig {
	out := c.Clone()
	if s.ProcessingDelay != nil {
		out.ProcessingDelay = *s.ProcessingDelay
	}
	if s.MaxLinksPerBatch != nil {
		out.MaxLinksPerBatch = *s.MaxLinksPerBatch
	}
	if s.AdaptivePerformance != nil {
		out.AdaptivePerformance = *s.AdaptivePerformance
	}
	if s.ThrottleDelay != nil {
		out.ThrottleDelay = *s.ThrottleDelay
	}
	if s.ThrottleDynamicContent != nil {
		out.ThrottleDynamicContent = *s.ThrottleDynamicContent
	}
	return out
}
