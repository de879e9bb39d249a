package highlighter

import (
	"fmt"
	"time"

	"github.com/bnema/linkmark/internal/application/port"
)

const (
	mutationsKey = "mutations"
	// settleDelay lets inserted content finish rendering before it is scanned.
	settleDelay = 100 * time.Millisecond
)

func (s *Session) startObserving() error {
	if s.disconnect != nil {
		return nil
	}
	disconnect, err := s.doc.ObserveChildList(func(records []port.MutationRecord) {
		s.loop.Post(func() { s.onMutations(records) })
	})
	if err != nil {
		return fmt.Errorf("observe mutations: %w", err)
	}
	s.disconnect = disconnect
	return nil
}

func (s *Session) stopObserving() {
	if s.disconnect != nil {
		s.disconnect()
		s.disconnect = nil
	}
	s.coalescer.Cancel(mutationsKey)
	if s.throttle != 0 {
		s.timers.cancel(s.throttle)
		s.throttle = 0
	}
	s.records = nil
}

// onMutations gates a burst of records. Immediate mode coalesces into the
// next frame; throttled mode waits for throttle_delay of quiet first.
func (s *Session) onMutations(records []port.MutationRecord) {
	if !s.enabled || s.disconnect == nil {
		return
	}
	s.records = append(s.records, records...)

	if !s.cfg.ThrottleDynamicContent {
		s.coalescer.Post(mutationsKey, s.flushMutations)
		return
	}

	if s.throttle != 0 {
		s.timers.cancel(s.throttle)
		s.perf.ThrottledUpdates++
		s.metrics.throttled()
	}
	s.throttle = s.timers.after(s.cfg.ThrottleDelay, func() {
		s.throttle = 0
		s.coalescer.Post(mutationsKey, s.flushMutations)
	})
}

// flushMutations scans the added subtrees only and dispatches the new links.
func (s *Session) flushMutations() {
	records := s.records
	s.records = nil
	if !s.enabled || s.State() != StateReady {
		return
	}

	seen := make(map[port.ElementID]struct{})
	var links []port.Element
	for _, r := range records {
		for _, n := range r.Added {
			if !n.IsElement() {
				continue
			}
			for _, el := range n.Links() {
				if _, dup := seen[el.ID()]; dup {
					continue
				}
				seen[el.ID()] = struct{}{}
				if _, done := s.processed[el.ID()]; done {
					continue
				}
				if s.eligible(el) {
					links = append(links, el)
				}
			}
		}
	}
	if len(links) == 0 {
		return
	}

	s.log.Debug().Int("links", len(links)).Msg("new links inserted")
	cycle := s.cycle
	s.timers.after(settleDelay, func() {
		if cycle != s.cycle || !s.enabled {
			return
		}
		began := time.Now()
		s.processBatch(links, func(n int) {
			s.recordBatch(n, time.Since(began))
		})
	})
}
