package highlighter

import (
	"fmt"
	"time"

	"github.com/bnema/linkmark/internal/application/port"
)

// appRootDelay gives a freshly mounted app root time to render before the
// session is torn down.
const appRootDelay = 100 * time.Millisecond

// navigationWatcher tears the session down when the page navigates without
// a reload. It stays active while the session is ready, enabled or not.
type navigationWatcher struct {
	s           *Session
	unsubscribe func()
	disconnect  func()
	timers      timerSet
	pending     uint64
}

func newNavigationWatcher(s *Session) *navigationWatcher {
	return &navigationWatcher{s: s, timers: newTimerSet(s.loop.Post)}
}

func (w *navigationWatcher) start() error {
	if w.s.nav != nil {
		w.unsubscribe = w.s.nav.SubscribeNavigation(func(e port.NavigationEvent) {
			w.s.loop.Post(func() { w.onNavigate(e) })
		})
	}

	disconnect, err := w.s.doc.ObserveChildList(func(records []port.MutationRecord) {
		w.s.loop.Post(func() { w.onMutations(records) })
	})
	if err != nil {
		w.stop()
		return fmt.Errorf("watch navigation: %w", err)
	}
	w.disconnect = disconnect
	return nil
}

func (w *navigationWatcher) stop() {
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
	if w.disconnect != nil {
		w.disconnect()
		w.disconnect = nil
	}
	w.timers.cancelAll()
	w.pending = 0
}

func (w *navigationWatcher) onNavigate(e port.NavigationEvent) {
	if w.s.State() != StateReady {
		return
	}
	w.s.log.Info().Str("kind", string(e.Kind)).Str("url", e.URL).Msg("in-page navigation")
	w.s.teardown("navigation: " + string(e.Kind))
}

func (w *navigationWatcher) onMutations(records []port.MutationRecord) {
	if w.s.State() != StateReady || w.pending != 0 {
		return
	}
	for _, r := range records {
		for _, n := range r.Added {
			if !isAppRoot(n) {
				continue
			}
			w.s.log.Debug().Str("id", n.ID()).Msg("app root inserted")
			w.pending = w.timers.after(appRootDelay, func() {
				w.pending = 0
				w.s.teardown("app root inserted")
			})
			return
		}
	}
}

// isAppRoot recognizes the mount points of common client-side frameworks.
func isAppRoot(n port.Node) bool {
	if !n.IsElement() {
		return false
	}
	if n.ID() == "root" || n.HasClass("vue-root") {
		return true
	}
	if _, ok := n.Attribute("data-reactroot"); ok {
		return true
	}
	_, ok := n.Attribute("ng-app")
	return ok
}
