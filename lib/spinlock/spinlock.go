package spinlock

import "github.com/osdev-go/ksync/lib/cpu"

// SpinLock is a non-recursive spin lock. The state word is 0 when unlocked
// and 1 when locked by some core. The zero value is an unlocked lock.
//
// SpinLock is not reentrant: a core calling Lock while it already holds the
// same lock deadlocks against itself.
type SpinLock[T Word] struct {
	state T
}

// Lock enters a critical section on the calling core, then spins until the
// lock word transitions from 0 to 1. On contention the processor's
// WaitCheck hook is invoked between attempts. Returns the restore token
// captured at critical section entry; it must be handed back to Unlock.
func (l *SpinLock[T]) Lock(p cpu.IProcessor) cpu.Restore {
	prev := p.EnterCritical()
	for swapWord(&l.state, 1) != 0 {
		p.WaitCheck()
	}
	return prev
}

// Unlock releases the lock and leaves the critical section entered by the
// matching Lock call, restoring the state encoded in prev.
//
// The held check is advisory: it cannot distinguish "locked by me" from
// "locked by another core". Releasing a lock held by another core is a
// caller bug this primitive cannot detect.
func (l *SpinLock[T]) Unlock(p cpu.IProcessor, prev cpu.Restore) {
	if loadWord(&l.state) == 0 {
		panic("spinlock: Unlock of an unlocked SpinLock")
	}
	storeWord(&l.state, 0)
	p.LeaveCritical(prev)
}

// TryLock makes a single acquisition attempt without spinning. On success
// it returns the restore token and true; on failure it leaves the critical
// section again and returns false.
func (l *SpinLock[T]) TryLock(p cpu.IProcessor) (cpu.Restore, bool) {
	prev := p.EnterCritical()
	if casWord(&l.state, 0, 1) {
		return prev, true
	}
	p.LeaveCritical(prev)
	return cpu.Restore{}, false
}

// IsLocked reports whether the lock is currently observed as held. This is
// a relaxed read for diagnostics and assertions only; it carries no acquire
// semantics and must never gate a synchronization decision.
func (l *SpinLock[T]) IsLocked() bool {
	return loadWord(&l.state) != 0
}

// Initialize resets the lock to the unlocked state. It must only be called
// before the lock is shared.
func (l *SpinLock[T]) Initialize() {
	storeWord(&l.state, 0)
}
