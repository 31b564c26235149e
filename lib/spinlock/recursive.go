package spinlock

import (
	"sync/atomic"

	"github.com/osdev-go/ksync/lib/cpu"
)

// RecursiveSpinLock is a spin lock that the owning core may acquire
// multiple times. The owner word holds the cpu.CoreID of the holder
// (0 = unowned). The zero value is an unlocked lock.
type RecursiveSpinLock struct {
	owner atomic.Uint64

	// recursions counts nested acquisitions by the owning core. It is
	// deliberately not atomic: it is only read and written while owner
	// equals the executing core, so the mutual exclusion over the owner
	// word is exactly what protects it. Do not reorder the owner checks
	// around accesses to this field.
	recursions uint32
}

// Lock enters a critical section, then acquires the lock for the calling
// core, spinning while another core holds it. If the calling core already
// owns the lock the recursion count is simply incremented; no contention
// logic runs. Returns the restore token for the matching Unlock.
func (l *RecursiveSpinLock) Lock(p cpu.IProcessor) cpu.Restore {
	self := uint64(p.ID())
	prev := p.EnterCritical()
	for !l.owner.CompareAndSwap(0, self) {
		// Only this core can store self into owner, so observing it here
		// means we already hold the lock.
		if l.owner.Load() == self {
			break
		}
		p.WaitCheck()
	}
	l.recursions++
	return prev
}

// Unlock drops one level of ownership. Only when the recursion count
// returns to zero is the owner word cleared; that is the point at which
// another core may acquire. The critical section entered by the matching
// Lock call is always left, regardless of whether the lock was fully
// released: critical section nesting is per call, ownership recursion is
// per owner.
//
// Calling Unlock without holding the lock, or from a core that is not the
// recorded owner, is fatal.
func (l *RecursiveSpinLock) Unlock(p cpu.IProcessor, prev cpu.Restore) {
	if l.recursions == 0 {
		panic("spinlock: Unlock of an unheld RecursiveSpinLock")
	}
	if l.owner.Load() != uint64(p.ID()) {
		panic("spinlock: RecursiveSpinLock unlocked by a core that is not the owner")
	}
	l.recursions--
	if l.recursions == 0 {
		l.owner.Store(0)
	}
	p.LeaveCritical(prev)
}

// IsLocked reports whether any core is observed as holding the lock.
// Relaxed, advisory read.
func (l *RecursiveSpinLock) IsLocked() bool {
	return l.owner.Load() != 0
}

// OwnLock reports whether the calling core is the recorded owner. Relaxed
// read; lets callers implement reentrancy-aware conditional locking.
func (l *RecursiveSpinLock) OwnLock(p cpu.IProcessor) bool {
	return l.owner.Load() == uint64(p.ID())
}

// Initialize resets the lock to the unlocked state. It must only be called
// before the lock is shared.
func (l *RecursiveSpinLock) Initialize() {
	l.owner.Store(0)
	l.recursions = 0
}
