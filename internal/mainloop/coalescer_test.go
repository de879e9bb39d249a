package mainloop

import "testing"

func TestCoalescerMergesBurstIntoSingleRun(t *testing.T) {
	queue := make([]func(), 0, 8)
	c := NewCoalescer(func(fn func()) { queue = append(queue, fn) })

	value := 0
	for i := 1; i <= 5; i++ {
		v := i
		c.Post("mutations", func() { value = v })
	}

	if len(queue) != 1 {
		t.Fatalf("expected 1 scheduled callback, got %d", len(queue))
	}
	queue[0]()

	if value != 5 {
		t.Fatalf("expected latest callback to run, got %d", value)
	}
	if c.Scheduled("mutations") {
		t.Fatalf("expected key to be free after running")
	}
}

func TestCoalescerCancelDropsStaleRun(t *testing.T) {
	queue := make([]func(), 0, 4)
	c := NewCoalescer(func(fn func()) { queue = append(queue, fn) })

	runs := 0
	c.Post("mutations", func() { runs++ })
	c.Cancel("mutations")
	c.Post("mutations", func() { runs += 10 })

	if len(queue) != 2 {
		t.Fatalf("expected a fresh schedule after cancel, got %d", len(queue))
	}

	// the first scheduled run belongs to the cancelled token
	queue[0]()
	if runs != 0 {
		t.Fatalf("expected cancelled run to be a no-op, got %d", runs)
	}
	if !c.Scheduled("mutations") {
		t.Fatalf("expected the newer schedule to survive a stale run")
	}

	queue[1]()
	if runs != 10 {
		t.Fatalf("expected only the newer callback to run, got %d", runs)
	}
}

func TestCoalescerDropsWorkAfterDestroy(t *testing.T) {
	queue := make([]func(), 0, 4)
	c := NewCoalescer(func(fn func()) { queue = append(queue, fn) })

	ran := false
	c.Post("mutations", func() { ran = true })
	c.Destroy()

	if len(queue) != 1 {
		t.Fatalf("expected one queued callback before destroy, got %d", len(queue))
	}
	queue[0]()

	if ran {
		t.Fatalf("expected queued work to be dropped after destroy")
	}

	c.Post("mutations", func() { ran = true })
	if len(queue) != 1 {
		t.Fatalf("expected no new callback after destroy, got %d", len(queue))
	}
}

func TestNewCoalescerPanicsOnNilPost(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected NewCoalescer to panic when post is nil")
		}
	}()

	_ = NewCoalescer(nil)
}
