// Package trace records what happens inside a run: every grant, enqueue and
// release on a resource pool and, optionally, every executed event. Traces are
// pure data once recorded and can be summarized or exported to SQLite.
package trace

// PoolEventKind classifies a pool record.
type PoolEventKind string

const (
	// KindGranted is an immediate grant: a unit was free when requested.
	KindGranted PoolEventKind = "granted"
	// KindGrantedAfterWait is a grant handed to a queued process on release.
	KindGrantedAfterWait PoolEventKind = "granted_after_wait"
	// KindEnqueued is an acquire that blocked.
	KindEnqueued PoolEventKind = "enqueued"
	// KindReleased is a unit returned to the pool.
	KindReleased PoolEventKind = "released"
)

// PoolRecord captures the state of one pool right after an operation.
type PoolRecord struct {
	Run      string
	Seq      int // position in the run's pool record stream
	Clock    float64
	Pool     string
	Kind     PoolEventKind
	InUse    int
	Capacity int
	QueueLen int
}

// EventRecord captures one executed scheduler event.
type EventRecord struct {
	Run     string
	Seq     uint64 // scheduler insertion sequence of the event
	Clock   float64
	Process string // Go type of the resumed process
}
