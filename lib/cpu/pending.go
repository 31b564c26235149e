package cpu

import "sync/atomic"

// workNode is a single element in a core's pending work queue
type workNode struct {
	fn   func()
	next atomic.Pointer[workNode]
}

// workQueue is a lock-free multi-producer single-consumer queue of deferred
// work items. Any goroutine may push; only the goroutine driving the owning
// core pops. Implementation uses a linked list with a sentinel node and
// atomic operations for concurrent push without locks.
type workQueue struct {
	head atomic.Pointer[workNode]
	tail atomic.Pointer[workNode]
}

func newWorkQueue() *workQueue {
	sentinel := &workNode{}
	q := &workQueue{}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// push appends a work item. Safe to call from any goroutine.
func (q *workQueue) push(fn func()) {
	newNode := &workNode{fn: fn}

	for {
		tailNode := q.tail.Load()

		// try to atomically append our node to the current tail
		next := tailNode.next.Load()
		if next == nil {
			if tailNode.next.CompareAndSwap(nil, newNode) {
				// Successfully appended; tail update may be helped along by
				// another producer, so a failed CAS here is fine.
				q.tail.CompareAndSwap(tailNode, newNode)
				return
			}
		} else {
			// help update the tail pointer if another producer has already
			// appended a node but hasn't updated the tail yet
			q.tail.CompareAndSwap(tailNode, next)
		}
	}
}

// pop removes and returns the oldest work item, or nil if the queue is
// empty. Single consumer only.
func (q *workQueue) pop() func() {
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		return nil
	}
	fn := next.fn
	q.head.Store(next)
	next.fn = nil
	return fn
}

// Post queues a deferred work item on this core. The item runs on the
// core's driving goroutine the next time the core spins on a contended lock
// (see WaitCheck). Safe to call from any goroutine.
func (c *Core) Post(fn func()) {
	if fn == nil {
		return
	}
	c.pending.push(fn)
}

// PendingWork reports whether deferred work is queued. Diagnostic use only.
func (c *Core) PendingWork() bool {
	head := c.pending.head.Load()
	return head.next.Load() != nil
}
