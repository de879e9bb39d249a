package highlighter

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/linkmark/internal/application/port"
	"github.com/bnema/linkmark/internal/domain/entity"
)

const (
	frameBudget      = 16 * time.Millisecond
	maxBatchDelay    = time.Second
	slowBatchFactor  = 3
	perfAlpha        = 0.3
	maxLookupWorkers = 16
)

// adaptivePlan picks batch size and inter-batch delay for a page with n
// candidate links.
func adaptivePlan(n int) (batch int, delay time.Duration) {
	switch {
	case n > 500:
		return max(1, n/250), 200 * time.Millisecond
	case n > 200:
		return 2, 150 * time.Millisecond
	case n > 100:
		return 3, 100 * time.Millisecond
	default:
		return 5, 50 * time.Millisecond
	}
}

// nextDelay backs off when a batch blew through two frames.
func nextDelay(delay, elapsed time.Duration) time.Duration {
	if elapsed <= 2*frameBudget {
		return delay
	}
	return min(delay*slowBatchFactor, maxBatchDelay)
}

// collectLinks returns the eligible, unprocessed links of els in order,
// capped at limit when limit is positive.
func (s *Session) collectLinks(els []port.Element, limit int) []port.Element {
	out := make([]port.Element, 0, len(els))
	for _, el := range els {
		if limit > 0 && len(out) >= limit {
			break
		}
		if _, done := s.processed[el.ID()]; done {
			continue
		}
		if s.eligible(el) {
			out = append(out, el)
		}
	}
	return out
}

// eligible reports whether el is attached, visible and carries an href the
// validator accepts.
func (s *Session) eligible(el port.Element) bool {
	if !el.Connected() || !el.Visible() {
		return false
	}
	_, err := s.validator.Normalize(el.Href(), s.doc.URL())
	return err == nil
}

// highlightExisting scans the whole page and schedules it in batches.
func (s *Session) highlightExisting() {
	links := s.collectLinks(s.doc.Links(), s.cfg.MaxLinksPerPage)
	if s.cfg.AdaptivePerformance {
		s.batchSize, s.delay = adaptivePlan(len(links))
	}
	s.log.Debug().
		Int("links", len(links)).
		Int("batch_size", s.batchSize).
		Dur("delay", s.delay).
		Msg("highlighting existing links")

	s.runBatches(s.cycle, links, 0)
}

// runBatches dispatches links[start:start+batchSize] and, once that batch
// has been presented, schedules the next one.
func (s *Session) runBatches(cycle uint64, links []port.Element, start int) {
	if !s.enabled || cycle != s.cycle || start >= len(links) {
		return
	}

	end := min(start+max(1, s.batchSize), len(links))
	began := time.Now()
	s.processBatch(links[start:end], func(n int) {
		elapsed := time.Since(began)
		s.recordBatch(n, elapsed)

		if !s.enabled || cycle != s.cycle || end >= len(links) {
			return
		}
		// a slow batch stretches only the gap that follows it
		s.timers.after(nextDelay(s.delay, elapsed), func() {
			s.runBatches(cycle, links, end)
		})
	})
}

type linkJob struct {
	el   port.Element
	href string
}

// processBatch claims every eligible link of batch, looks them up
// concurrently and posts each verdict back to the loop. onDone runs on the
// loop after the last verdict has been presented.
func (s *Session) processBatch(batch []port.Element, onDone func(n int)) {
	cycle := s.cycle
	base := s.doc.URL()

	jobs := make([]linkJob, 0, len(batch))
	for _, el := range batch {
		if _, done := s.processed[el.ID()]; done {
			continue
		}
		if !s.eligible(el) {
			continue
		}
		s.processed[el.ID()] = struct{}{}
		s.presenter.Preserve(el)
		jobs = append(jobs, linkJob{el: el, href: el.Href()})
	}
	if len(jobs) == 0 {
		onDone(0)
		return
	}

	ctx := s.ctx
	classifier := s.classifier
	s.inflight++
	go func() {
		var g errgroup.Group
		g.SetLimit(maxLookupWorkers)
		for _, job := range jobs {
			g.Go(func() error {
				v, err := classifier.Classify(ctx, job.href, base)
				s.loop.Post(func() { s.complete(cycle, job.el, v, err) })
				return nil
			})
		}
		_ = g.Wait()
		s.loop.Post(func() {
			s.inflight--
			onDone(len(jobs))
		})
	}()
}

// complete presents one verdict. Verdicts from a previous cycle, or that
// arrive while disabled, are dropped.
func (s *Session) complete(cycle uint64, el port.Element, v Verdict, err error) {
	if cycle != s.cycle || !s.enabled || s.State() != StateReady {
		return
	}
	if !el.Connected() {
		return
	}

	if err != nil {
		s.log.Debug().Err(err).Uint64("element", uint64(el.ID())).Msg("lookup failed, marking as never visited")
		if perr := s.presenter.Mark(el, entity.CategoryNever); perr != nil {
			s.log.Debug().Err(perr).Msg("failed to mark link")
		}
		return
	}

	if perr := s.presenter.Apply(el, v); perr != nil {
		s.log.Debug().Err(perr).Msg("failed to present link, marking as never visited")
		_ = s.presenter.Mark(el, entity.CategoryNever)
	}
}

func (s *Session) recordBatch(n int, elapsed time.Duration) {
	if n == 0 {
		return
	}
	s.perf.TotalLinksProcessed += int64(n)
	s.perf.DOMUpdates += int64(n)
	s.perf.LastProcessTime = elapsed
	s.perf.AverageProcessingTime = time.Duration(
		float64(s.perf.AverageProcessingTime)*(1-perfAlpha) + float64(elapsed)*perfAlpha,
	)
	s.metrics.observeBatch(n, elapsed)

	s.log.Trace().Int("links", n).Dur("elapsed", elapsed).Msg("batch presented")
}
