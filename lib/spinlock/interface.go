package spinlock

import "github.com/osdev-go/ksync/lib/cpu"

// ILock is the contract shared by all spin lock variants. A ScopedLock can
// wrap anything that implements it.
//
// Lock enters a critical section on the calling core, then spins until the
// lock is acquired, and returns the restore token from the critical section
// entry. Unlock releases the lock and leaves the critical section using the
// token produced by the matching Lock call. IsLocked is a relaxed, advisory
// read for diagnostics only.
type ILock interface {
	Lock(p cpu.IProcessor) cpu.Restore
	Unlock(p cpu.IProcessor, prev cpu.Restore)
	IsLocked() bool
}
