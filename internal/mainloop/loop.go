// Package mainloop provides the single-goroutine executor a highlighter
// session runs on, plus helpers that funnel timers and frames into it.
package mainloop

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/linkmark/internal/logging"
)

// ErrClosed is returned when posting to, or waiting on, a closed loop.
var ErrClosed = errors.New("mainloop: closed")

// Loop runs posted tasks one at a time, in arrival order, on its own goroutine.
// Post never blocks, so timers and observers can feed it from any goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	closed  bool
	started bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}

	log zerolog.Logger
}

func NewLoop(ctx context.Context) *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
		log:  logging.FromContext(ctx).With().Str("component", "mainloop").Logger(),
	}
}

// Start launches the loop goroutine. Calling it twice is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.started || l.closed {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go l.run()
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		if !l.drain() {
			return
		}
		select {
		case <-l.wake:
		case <-l.quit:
			return
		}
	}
}

// drain runs queued tasks until the queue is empty. It returns false once
// the loop has been closed.
func (l *Loop) drain() bool {
	for {
		select {
		case <-l.quit:
			return false
		default:
		}

		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return true
		}
		task := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.runTask(task)
	}
}

func (l *Loop) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("task panicked")
		}
	}()
	task()
}

// Post queues fn. It reports false when the loop is closed.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop and waits for it to return.
// It must not be called from a task running on the same loop.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrClosed
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	}
}

// Close stops the loop. Tasks still queued are dropped; a task that is
// running finishes first. Safe to call from a task.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.queue = nil
	started := l.started
	l.mu.Unlock()

	close(l.quit)
	if !started {
		close(l.done)
	}
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
