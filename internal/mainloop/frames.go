package mainloop

import "time"

// DefaultFrameInterval approximates one display frame at 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// TimerFrames stands in for a display's frame callbacks on hosts without a
// compositor: every request fires once after Interval.
type TimerFrames struct {
	Interval time.Duration
}

// RequestFrame schedules fn for the next frame.
func (f TimerFrames) RequestFrame(fn func()) (cancel func()) {
	interval := f.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	t := time.AfterFunc(interval, fn)
	return func() { t.Stop() }
}
