package cpu

import (
	"fmt"
	"runtime"

	"github.com/VictoriaMetrics/metrics"
)

// Core is the per-core context. It is created via Machine.BringUp and is
// only ever driven by one goroutine at a time, which is why the interrupt
// flag and nesting depth are plain fields.
type Core struct {
	id CoreID

	// intEnabled and critDepth model the interrupt/preemption state of the
	// core. Only the driving goroutine touches them.
	intEnabled bool
	critDepth  uint32

	// backoff is the spin-wait escalation level. It grows with each idle
	// WaitCheck and resets on EnterCritical, so every acquisition attempt
	// starts polite and backs off harder the longer it contends.
	backoff uint8

	pending *workQueue

	criticalSections *metrics.Counter
	spinWaits        *metrics.Counter
}

func newCore(id CoreID) *Core {
	return &Core{
		id:         id,
		intEnabled: true,
		pending:    newWorkQueue(),
		criticalSections: metrics.GetOrCreateCounter(
			fmt.Sprintf(`cpu_critical_sections_total{core="%d"}`, id)),
		spinWaits: metrics.GetOrCreateCounter(
			fmt.Sprintf(`cpu_spin_waits_total{core="%d"}`, id)),
	}
}

// ID returns the stable identity of this core.
func (c *Core) ID() CoreID {
	return c.id
}

// EnterCritical masks interrupts on this core and returns a token capturing
// the prior state. Calls nest.
func (c *Core) EnterCritical() Restore {
	prev := Restore{intEnabled: c.intEnabled}
	c.intEnabled = false
	c.critDepth++
	c.backoff = 0
	c.criticalSections.Inc()
	return prev
}

// LeaveCritical exits one level of critical section. The interrupt state is
// only restored from the token once the depth returns to zero; with properly
// nested tokens this restores the outermost pre-masking state.
func (c *Core) LeaveCritical(prev Restore) {
	if c.critDepth == 0 {
		panic("cpu: LeaveCritical without matching EnterCritical")
	}
	c.critDepth--
	if c.critDepth == 0 {
		c.intEnabled = prev.intEnabled
	}
}

// maxBackoff caps the spin-wait escalation at 1<<maxBackoff yields per
// WaitCheck, reducing the thundering-herd effect of all contenders retrying
// simultaneously.
const maxBackoff = 10

// WaitCheck services one queued work item if any is pending, otherwise
// backs off exponentially, yielding the goroutine driving this core so that
// the holder of a contended lock can make progress. It never blocks.
func (c *Core) WaitCheck() {
	c.spinWaits.Inc()
	if fn := c.pending.pop(); fn != nil {
		fn()
		return
	}
	if c.backoff < maxBackoff {
		c.backoff++
	}
	for i := 0; i < 1<<c.backoff; i++ {
		runtime.Gosched()
	}
}

// InCritical reports whether the core is inside a critical section.
// Diagnostic use only.
func (c *Core) InCritical() bool {
	return c.critDepth > 0
}

// CriticalDepth returns the current critical section nesting depth.
// Diagnostic use only.
func (c *Core) CriticalDepth() uint32 {
	return c.critDepth
}

// InterruptsEnabled reports whether interrupts are currently unmasked on
// this core. Diagnostic use only.
func (c *Core) InterruptsEnabled() bool {
	return c.intEnabled
}
