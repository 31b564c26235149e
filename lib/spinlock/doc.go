// Package spinlock implements the lowest-level mutual exclusion primitives
// for a preemptible multiprocessor kernel model: a non-recursive spin lock,
// a recursive (self-reentrant) spin lock, and a scope-bound guard that ties
// lock lifetime to a lexical scope.
//
// All acquisition is by busy-polling. Lock never blocks cooperatively,
// never sleeps, and never times out: it either returns holding the lock or
// spins indefinitely, calling the processor's WaitCheck hook between
// attempts. Both lock types enter a per-core critical section (masking
// interrupts/preemption via the cpu package) before touching the lock word
// and hand the caller a cpu.Restore token; the matching Unlock must receive
// that exact token back to restore the prior state.
//
// Lock State:
//
//   - SpinLock: a single atomic word, 0 = unlocked, 1 = locked by some
//     core. The word width is a type parameter so narrower state
//     representations can be used where a full machine word is unnecessary.
//
//   - RecursiveSpinLock: the atomic word holds the cpu.CoreID of the owner
//     (0 = unowned) plus a recursion counter. The counter is deliberately
//     not atomic: it is only mutated while the lock is held, and only the
//     owning core can be executing that code. The mutual exclusion over the
//     owner word is exactly what protects the counter.
//
//   - ScopedLock: holds a reference to one lock (never owns or allocates
//     it), the restore token from its acquisition, and a held flag. Paired
//     with defer, it guarantees release on every exit path from the
//     enclosing scope.
//
// Memory Ordering:
//
//	The transition that grants ownership has acquire semantics and the
//	transition that relinquishes it has release semantics (the sync/atomic
//	operations used here are at least that strong). IsLocked and OwnLock
//	are relaxed, advisory reads: they must never gate a synchronization
//	decision.
//
// Error Handling:
//
//	All detectable misuse - unlocking a lock that is not held, a non-owner
//	releasing a recursive lock, double-acquiring an engaged guard,
//	constructing a guard without a lock - is a programming defect and
//	panics. There is no recoverable error path. There is also no deadlock
//	detection: a core acquiring a SpinLock it already holds deadlocks
//	against itself, intentionally.
//
// Usage Example:
//
//	var lk spinlock.SpinLock[uint32]
//
//	func update(p cpu.IProcessor) {
//		g := spinlock.NewScopedLock(&lk, p)
//		defer g.Release()
//		// ... mutate the protected state ...
//	}
package spinlock
