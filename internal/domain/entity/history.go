package entity

import "time"

// HistoryEntry is one normalized URL in the visit log. The individual
// visit timestamps live beside it; VisitCount and LastVisited summarize
// them for listings.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	VisitCount  int64     `json:"visit_count"`
	LastVisited time.Time `json:"last_visited"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryStats summarizes the visit log for `history stats`.
type HistoryStats struct {
	TotalEntries int64 `json:"total_entries"` // distinct URLs
	TotalVisits  int64 `json:"total_visits"`
	UniqueDays   int64 `json:"unique_days"` // UTC days with at least one visit
}
