// Package recency maps visit data to the recency category shown on a link.
package recency

import (
	"fmt"
	"time"

	"github.com/bnema/linkmark/internal/domain/entity"
)

const day = 24 * time.Hour

// NeverVisited is the summary for links without any recorded visit.
const NeverVisited = "Never visited"

// DaysSince returns the real-valued number of days between last and now.
func DaysSince(last, now time.Time) float64 {
	return float64(now.Sub(last)) / float64(day)
}

// Classify buckets v into a category. Bucket bounds are half-open:
// [0,1) today, [1,7) week, [7,30) month, [30,inf) older.
// A visit stamped in the future counts as today.
func Classify(v entity.VisitData, now time.Time) entity.Category {
	if !v.Visited() {
		return entity.CategoryNever
	}

	days := DaysSince(v.LastVisit, now)
	switch {
	case days < 1:
		return entity.CategoryToday
	case days < 7:
		return entity.CategoryWeek
	case days < 30:
		return entity.CategoryMonth
	default:
		return entity.CategoryOlder
	}
}

// Summary renders the human readable recency text appended to link titles,
// e.g. "Visited 3 times, last: 2 days ago".
func Summary(v entity.VisitData, now time.Time) string {
	if !v.Visited() {
		return NeverVisited
	}
	return fmt.Sprintf("Visited %d times, last: %s", v.TotalVisits, ago(v.LastVisit, now))
}

func ago(last, now time.Time) string {
	days := int(now.Sub(last) / day)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	default:
		return fmt.Sprintf("%d months ago", days/30)
	}
}
