package cpu

import (
	"sync"
	"testing"
	"time"
)

// TestPostAndServiceOrder verifies FIFO servicing of deferred work through
// WaitCheck.
func TestPostAndServiceOrder(t *testing.T) {
	m := NewMachine()
	c := m.BringUp()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		c.Post(func() { order = append(order, i) })
	}

	if !c.PendingWork() {
		t.Fatal("work should be pending after Post")
	}

	// Each WaitCheck services exactly one item.
	for i := 0; i < 5; i++ {
		c.WaitCheck()
	}

	if c.PendingWork() {
		t.Fatal("no work should be pending after servicing")
	}
	if len(order) != 5 {
		t.Fatalf("expected 5 serviced items, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("work serviced out of order: %v", order)
		}
	}
}

// TestPostNil verifies that nil work items are ignored.
func TestPostNil(t *testing.T) {
	m := NewMachine()
	c := m.BringUp()

	c.Post(nil)
	if c.PendingWork() {
		t.Fatal("nil work must not be queued")
	}
}

// TestConcurrentPosters verifies that many goroutines can post to the same
// core while its driving goroutine services the queue.
func TestConcurrentPosters(t *testing.T) {
	const (
		numPosters     = 10
		itemsPerPoster = 1000
	)

	m := NewMachine()
	c := m.BringUp()

	var mu sync.Mutex
	serviced := 0

	var wg sync.WaitGroup
	wg.Add(numPosters)
	for p := 0; p < numPosters; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < itemsPerPoster; i++ {
				c.Post(func() {
					mu.Lock()
					serviced++
					mu.Unlock()
				})
			}
		}()
	}

	// Drive the core until every item has been serviced.
	deadline := time.Now().Add(5 * time.Second)
	for {
		c.WaitCheck()
		mu.Lock()
		done := serviced == numPosters*itemsPerPoster
		mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timeout: serviced %d of %d items", serviced, numPosters*itemsPerPoster)
		}
	}

	wg.Wait()
	if c.PendingWork() {
		t.Fatal("queue should be empty after servicing everything")
	}
}
