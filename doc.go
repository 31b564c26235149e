// ksync is a library of kernel-style spin lock primitives for a
// preemptible multiprocessor model, together with a small CLI for
// exercising them.
//
// The library lives under lib/:
//
//   - lib/spinlock: a non-recursive spin lock, a recursive spin lock keyed
//     by owning-core identity, and a scope-bound guard tying a lock
//     acquisition to a lexical scope
//   - lib/cpu: the per-core processor contexts the locks run on - core
//     identity, nestable interrupt-masking critical sections, and a
//     spin-wait hook that services deferred work while contending
//
// The ksync binary (see the cmd package) runs guarded workloads across
// simulated cores and reports contention and latency metrics.
package main
