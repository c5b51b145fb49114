// Package sim provides the discrete-event simulation kernel for regsim.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - event.go: Process (a suspended body), Event (a pending resumption) and Observer
//   - scheduler.go: the virtual clock, the event heap and the RunUntil loop
//   - resource.go: finite-capacity FIFO resource pools
//
// Processes never block a goroutine. A suspension point is either a call to
// Scheduler.Schedule (timed delay) or a ResourcePool.Acquire that returned
// false (blocked acquire); in both cases the process returns from Resume and
// the scheduler resumes it later. Everything runs on one thread of control, so
// pools need no locking: the scheduler's strict (due time, insertion order)
// sequencing stands in for mutual exclusion.
//
// # Architecture
//
// The sim package holds the domain-free kernel; models and tooling live in
// sub-packages:
//   - sim/registration/: the two-stage student registration model and capacity sweeps
//   - sim/trace/: event/grant/release trace recording, summaries and SQLite export
//   - sim/analytic/: closed-form M/M/c baselines to sanity-check simulated waits
//   - sim/dataset/: loading observed queue data and deriving model inputs
//
// # Randomness
//
// There is no package-level generator. PartitionedRNG derives one isolated
// *rand.Rand per subsystem from a SimulationKey, and VariateSource draws
// exponential samples from such a handle. A registration run draws arrivals
// and each service stage from separate streams, so for a given seed its
// variates are not the sequence a single shared generator would produce, and
// its results do not match such a model bit for bit.
package sim
