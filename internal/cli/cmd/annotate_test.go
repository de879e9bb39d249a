package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/linkmark/internal/domain/entity"
	"github.com/bnema/linkmark/internal/domain/recency"
)

func TestAnnotateHelpQuotesInjectedTitles(t *testing.T) {
	now := time.Now()
	visited := entity.VisitData{TotalVisits: 3, LastVisit: now.Add(-30 * time.Hour), FirstVisit: now.Add(-72 * time.Hour)}

	assert.Contains(t, annotateCmd.Long, recency.Summary(visited, now))
	assert.Contains(t, annotateCmd.Long, recency.NeverVisited)
	assert.NotContains(t, annotateCmd.Long, "Last visited")
}
