// Package cpu models the per-core processor context that the spin lock
// primitives in this module build on. It provides core identity, nestable
// critical sections with interrupt/preemption masking, and a spin-wait hook
// invoked while contending for a lock.
//
// Core Concepts:
//
//   - Core: An explicit per-core context structure. It is created at core
//     bring-up through a Machine and lives until shutdown. A Core is driven
//     by exactly one goroutine at a time; this single-driver discipline is
//     what makes its plain (non-atomic) fields safe.
//
//   - Critical Sections: EnterCritical masks interrupts/preemption on the
//     calling core and returns a Restore token capturing the prior state.
//     LeaveCritical takes that token back. Sections nest: the core only
//     returns to the fully-preemptible state when the nesting depth reaches
//     zero. The depth going negative is a fatal programming error.
//
//   - Restore Tokens: A Restore is an opaque call-stack value. It is never
//     stored inside a lock object; every EnterCritical produces a fresh
//     token that its matching LeaveCritical must receive back unchanged.
//
//   - Spin-Wait Hook: WaitCheck is called repeatedly while a core contends
//     for a lock. Instead of wasting the wait, it first services deferred
//     work queued on the core via Post (a lock-free multi-producer
//     single-consumer queue); with nothing pending it yields the goroutine
//     so other cores can make progress. It never blocks indefinitely.
//
//   - Machine: The bring-up registry for cores. Core identifiers are
//     assigned starting at 1 so that 0 can always mean "no core" in an
//     owner word.
//
// Consumers should depend on the IProcessor interface rather than on the
// concrete Core type, so the lock primitives stay decoupled from this
// simulation.
//
// Metrics:
//
//	Each core counts critical section entries and spin waits in the global
//	VictoriaMetrics registry (cpu_critical_sections_total, cpu_spin_waits_total,
//	both labeled by core). The hot paths only ever increment a counter.
package cpu
