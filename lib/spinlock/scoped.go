package spinlock

import "github.com/osdev-go/ksync/lib/cpu"

// ScopedLock ties the lifetime of a lock acquisition to a lexical scope.
// It works with any ILock implementation, holds a reference to the lock
// (never owning it), and releases on Release - typically deferred - so the
// lock is dropped on every exit path: normal fall-through, early return, or
// panic unwinding.
//
// A ScopedLock is used through its pointer and belongs to exactly one
// in-flight acquisition. It must not be copied; transferring responsibility
// to a new guard goes through Move.
type ScopedLock struct {
	lock ILock
	proc cpu.IProcessor
	prev cpu.Restore
	held bool
}

// NewScopedLock binds a guard to an existing lock and immediately acquires
// it on the given core. A guard cannot be constructed without a lock or a
// processor.
func NewScopedLock(lock ILock, p cpu.IProcessor) *ScopedLock {
	if lock == nil {
		panic("spinlock: ScopedLock constructed without a lock")
	}
	if p == nil {
		panic("spinlock: ScopedLock constructed without a processor")
	}
	g := &ScopedLock{lock: lock, proc: p}
	g.prev = lock.Lock(p)
	g.held = true
	return g
}

// Release drops the lock if the guard is engaged and currently holding it.
// It is intended for defer at the point of construction and is a no-op on a
// moved-from or already-released guard, so plain early returns stay safe.
func (g *ScopedLock) Release() {
	if g.lock != nil && g.held {
		g.lock.Unlock(g.proc, g.prev)
		g.held = false
	}
}

// Move transfers the referenced lock, the stored token, and the held state
// to a new guard. The source becomes disengaged: its Release performs
// nothing, and its Lock/Unlock panic. The destination is then solely
// responsible for the acquisition.
func (g *ScopedLock) Move() *ScopedLock {
	moved := &ScopedLock{lock: g.lock, proc: g.proc, prev: g.prev, held: g.held}
	g.lock = nil
	g.proc = nil
	g.prev = cpu.Restore{}
	g.held = false
	return moved
}

// Lock reacquires the underlying lock after a manual Unlock, allowing a
// guard's protected region to be split into sub-regions. Calling it while
// the guard already holds the lock, or on a disengaged guard, is fatal.
func (g *ScopedLock) Lock() {
	if g.lock == nil {
		panic("spinlock: Lock on a disengaged ScopedLock")
	}
	if g.held {
		panic("spinlock: Lock on a ScopedLock that already holds its lock")
	}
	g.prev = g.lock.Lock(g.proc)
	g.held = true
}

// Unlock releases the underlying lock mid-scope. Calling it while the guard
// does not hold the lock, or on a disengaged guard, is fatal.
func (g *ScopedLock) Unlock() {
	if g.lock == nil {
		panic("spinlock: Unlock on a disengaged ScopedLock")
	}
	if !g.held {
		panic("spinlock: Unlock on a ScopedLock that does not hold its lock")
	}
	g.lock.Unlock(g.proc, g.prev)
	g.prev = cpu.Restore{}
	g.held = false
}

// HaveLock reports whether the guard currently holds its lock.
func (g *ScopedLock) HaveLock() bool {
	return g.held
}
