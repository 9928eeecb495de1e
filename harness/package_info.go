// Package harness contains the low-level process lifecycle infrastructure used
// by the integration-test fixtures.
//
// The general model is:
//
// 1. A RunContext owns all state that is scoped to one test run: a scratch
// directory, an output sink for per-service log files, and a process ledger.
//
// 2. A DaemonManager starts backend services as detached background processes,
// wires their combined output into the sink, and records each process in the
// ledger so an external teardown step can terminate everything at the end of
// the run.
//
// 3. A Poller blocks a caller until a service's readiness artifact (a
// filesystem-visible endpoint such as a socket file) appears, with a bounded
// fixed-interval wait.
//
// The domain-specific knowledge of which binaries to run and which artifacts
// to wait for lives in the higher-level fixtures package.
package harness
