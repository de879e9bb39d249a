package highlighter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdaptivePlan(t *testing.T) {
	tests := []struct {
		links int
		batch int
		delay time.Duration
	}{
		{0, 5, 50 * time.Millisecond},
		{100, 5, 50 * time.Millisecond},
		{101, 3, 100 * time.Millisecond},
		{120, 3, 100 * time.Millisecond},
		{200, 3, 100 * time.Millisecond},
		{201, 2, 150 * time.Millisecond},
		{500, 2, 150 * time.Millisecond},
		{501, 2, 200 * time.Millisecond},
		{1000, 4, 200 * time.Millisecond},
		{2600, 10, 200 * time.Millisecond},
	}

	for _, tt := range tests {
		batch, delay := adaptivePlan(tt.links)
		assert.Equal(t, tt.batch, batch, "batch for %d links", tt.links)
		assert.Equal(t, tt.delay, delay, "delay for %d links", tt.links)
	}
}

func TestNextDelay(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, nextDelay(100*time.Millisecond, 32*time.Millisecond))
	assert.Equal(t, 300*time.Millisecond, nextDelay(100*time.Millisecond, 33*time.Millisecond))
	assert.Equal(t, time.Second, nextDelay(400*time.Millisecond, time.Second))
	assert.Equal(t, time.Second, nextDelay(time.Second, time.Second))
}
