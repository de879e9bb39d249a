package recency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/linkmark/internal/domain/entity"
)

var now = time.Date(2026, 5, 14, 9, 30, 0, 0, time.UTC)

func visitedAgo(d time.Duration, count int) entity.VisitData {
	return entity.VisitData{TotalVisits: count, LastVisit: now.Add(-d), FirstVisit: now.Add(-d)}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		ago  time.Duration
		want entity.Category
	}{
		{"just now", 0, entity.CategoryToday},
		{"23h59m", 23*time.Hour + 59*time.Minute, entity.CategoryToday},
		{"exactly 24h", 24 * time.Hour, entity.CategoryWeek},
		{"6d23h", 6*day + 23*time.Hour, entity.CategoryWeek},
		{"exactly 7d", 7 * day, entity.CategoryMonth},
		{"29d", 29 * day, entity.CategoryMonth},
		{"exactly 30d", 30 * day, entity.CategoryOlder},
		{"a year", 365 * day, entity.CategoryOlder},
		{"future visit", -time.Hour, entity.CategoryToday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(visitedAgo(tt.ago, 1), now))
		})
	}
}

func TestClassify_NeverWithoutLastVisit(t *testing.T) {
	assert.Equal(t, entity.CategoryNever, Classify(entity.VisitData{}, now))
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		data entity.VisitData
		want string
	}{
		{"never", entity.VisitData{}, "Never visited"},
		{"today", visitedAgo(3*time.Hour, 1), "Visited 1 times, last: Today"},
		{"yesterday", visitedAgo(30*time.Hour, 2), "Visited 2 times, last: Yesterday"},
		{"days", visitedAgo(2*day+time.Hour, 3), "Visited 3 times, last: 2 days ago"},
		{"weeks floor", visitedAgo(20*day, 4), "Visited 4 times, last: 2 weeks ago"},
		{"months floor", visitedAgo(95*day, 9), "Visited 9 times, last: 3 months ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(tt.data, now))
		})
	}
}

func TestDaysSince(t *testing.T) {
	assert.InDelta(t, 1.5, DaysSince(now.Add(-36*time.Hour), now), 1e-9)
}
