package highlighter

import "time"

// timerSet tracks one-shot timers whose callbacks run on the session loop.
// Every method must be called from the loop.
type timerSet struct {
	post   func(func()) bool
	timers map[uint64]*time.Timer
	next   uint64
}

func newTimerSet(post func(func()) bool) timerSet {
	return timerSet{post: post, timers: make(map[uint64]*time.Timer)}
}

// after runs fn on the loop once d has elapsed, unless the timer is
// cancelled first. The returned id is never zero.
func (ts *timerSet) after(d time.Duration, fn func()) uint64 {
	ts.next++
	id := ts.next
	ts.timers[id] = time.AfterFunc(d, func() {
		ts.post(func() {
			if _, live := ts.timers[id]; !live {
				return
			}
			delete(ts.timers, id)
			fn()
		})
	})
	return id
}

func (ts *timerSet) cancel(id uint64) {
	if t, ok := ts.timers[id]; ok {
		t.Stop()
		delete(ts.timers, id)
	}
}

func (ts *timerSet) cancelAll() {
	for id, t := range ts.timers {
		t.Stop()
		delete(ts.timers, id)
	}
}

func (ts *timerSet) len() int {
	return len(ts.timers)
}
