// Package cmd implements the command-line interface for the ksync spin lock
// library. It provides commands for exercising the primitives on a simulated
// multi-core machine.
//
// The package is organized into subpackages:
//
//   - stress: Commands for running guarded workloads across simulated cores
//     and reporting latency and contention metrics
//   - util: Shared utilities for command-line processing and configuration
//     (internal use)
//
// See ksync -help for a list of all commands.
package cmd
