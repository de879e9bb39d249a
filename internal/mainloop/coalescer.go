package mainloop

import "sync"

// Coalescer merges bursts of same-key tasks: while a key is scheduled, later
// posts only replace the callback that will run.
type Coalescer struct {
	mu        sync.Mutex
	pending   map[string]uint64
	callbacks map[string]func()
	seq       uint64
	post      func(func())
	destroyed bool
}

func NewCoalescer(post func(func())) *Coalescer {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}

	return &Coalescer{
		pending:   make(map[string]uint64),
		callbacks: make(map[string]func()),
		post:      post,
	}
}

func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.callbacks[key] = fn
	if _, scheduled := c.pending[key]; scheduled {
		c.mu.Unlock()
		return
	}
	c.seq++
	token := c.seq
	c.pending[key] = token
	post := c.post
	c.mu.Unlock()

	post(func() {
		c.mu.Lock()
		if c.destroyed || c.pending[key] != token {
			c.mu.Unlock()
			return
		}
		fn := c.callbacks[key]
		delete(c.pending, key)
		delete(c.callbacks, key)
		c.mu.Unlock()

		if fn != nil {
			fn()
		}
	})
}

// Cancel drops the scheduled callback for key. A later Post schedules anew.
func (c *Coalescer) Cancel(key string) {
	c.mu.Lock()
	delete(c.pending, key)
	delete(c.callbacks, key)
	c.mu.Unlock()
}

// Scheduled reports whether key has a callback waiting to run.
func (c *Coalescer) Scheduled(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[key]
	return ok
}

func (c *Coalescer) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.pending = map[string]uint64{}
	c.callbacks = map[string]func(){}
	c.mu.Unlock()
}
