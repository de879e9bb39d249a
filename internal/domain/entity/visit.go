package entity

import "time"

// Category is the recency bucket a link falls into.
type Category string

const (
	CategoryNever Category = "never"
	CategoryToday Category = "today"
	CategoryWeek  Category = "week"
	CategoryMonth Category = "month"
	CategoryOlder Category = "older"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryToday, CategoryWeek, CategoryMonth, CategoryOlder, CategoryNever}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNever, CategoryToday, CategoryWeek, CategoryMonth, CategoryOlder:
		return true
	}
	return false
}

// VisitData summarizes the visits recorded for one normalized URL.
// A zero LastVisit or FirstVisit means the URL was never visited.
type VisitData struct {
	TotalVisits int       `json:"totalVisits"`
	LastVisit   time.Time `json:"lastVisit,omitzero"`
	FirstVisit  time.Time `json:"firstVisit,omitzero"`
}

// NewVisitData derives VisitData from raw visit timestamps.
func NewVisitData(visits []time.Time) VisitData {
	v := VisitData{TotalVisits: len(visits)}
	for i, at := range visits {
		if i == 0 || at.After(v.LastVisit) {
			v.LastVisit = at
		}
		if i == 0 || at.Before(v.FirstVisit) {
			v.FirstVisit = at
		}
	}
	return v
}

// Visited reports whether a last visit is known.
func (v VisitData) Visited() bool {
	return !v.LastVisit.IsZero()
}
