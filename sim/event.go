package sim

// Process is a suspended simulation body. The scheduler calls Resume when the
// event the process is waiting on becomes due; the process then runs until it
// reaches its next suspension point (a timed delay or a blocked acquire) and
// returns.
type Process interface {
	Resume(s *Scheduler)
}

// ProcessFunc adapts a plain function to the Process interface.
type ProcessFunc func(s *Scheduler)

// Resume calls f(s).
func (f ProcessFunc) Resume(s *Scheduler) {
	f(s)
}

// Event is a pending resumption of exactly one process.
type Event struct {
	Due     float64 // Virtual time (in minutes) at which the process resumes
	Seq     uint64  // Insertion order, used to break ties between equal Due times
	Process Process // The continuation to run
}

// Observer is notified of scheduler and resource-pool activity. All methods
// run on the simulation's single thread of control.
type Observer interface {
	// EventExecuted is called after the clock advanced to ev.Due and before
	// the process resumes.
	EventExecuted(ev Event)
	// Granted is called when pool hands a unit to a process. queued reports
	// whether the process had to wait for it.
	Granted(pool *ResourcePool, now float64, queued bool)
	// Enqueued is called when an acquire blocks and the caller joins the
	// pool's waiter queue.
	Enqueued(pool *ResourcePool, now float64)
	// Released is called after a unit returns to pool.
	Released(pool *ResourcePool, now float64)
}
