package cpu

// CoreID identifies a core. IDs are assigned at bring-up starting at 1;
// the zero value is reserved to mean "no core" (e.g. in lock owner words).
type CoreID uint64

// Restore is the opaque token produced by EnterCritical. It records the
// interrupt/preemption state that LeaveCritical must restore. It is a
// call-stack value and must never be stored inside a lock object.
type Restore struct {
	intEnabled bool
}

// IProcessor is the processor contract consumed by the lock primitives.
// Every method must be called from the goroutine currently driving the core.
type IProcessor interface {
	// ID returns the stable identity of this core.
	ID() CoreID

	// EnterCritical masks interrupts/preemption on this core and returns a
	// token capturing the prior state. Calls nest per core.
	EnterCritical() Restore

	// LeaveCritical exits one level of critical section, restoring the state
	// captured in the token once the nesting depth returns to zero.
	// Leaving a critical section that was never entered is fatal.
	LeaveCritical(prev Restore)

	// WaitCheck is invoked repeatedly while spinning on a contended lock.
	// It may service pending work but never blocks indefinitely.
	WaitCheck()
}
