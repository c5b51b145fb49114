package trace

import (
	"fmt"

	"github.com/inference-sim/regsim/sim"
)

// TraceLevel controls the verbosity of run tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelPools captures every pool grant, enqueue and release.
	TraceLevelPools TraceLevel = "pools"
	// TraceLevelEvents additionally captures every executed scheduler event.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelPools:  true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	Run   string // label stamped on every record, e.g. "counters=3"
}

// SimulationTrace collects records during one run. It implements sim.Observer.
type SimulationTrace struct {
	Config   TraceConfig
	Pools    []PoolRecord
	Events   []EventRecord
	Executed int
}

var _ sim.Observer = (*SimulationTrace)(nil)

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config: config,
		Pools:  make([]PoolRecord, 0),
		Events: make([]EventRecord, 0),
	}
}

// RunLabel formats the default run label for a counter count.
func RunLabel(counters int) string {
	return fmt.Sprintf("counters=%d", counters)
}

// EventExecuted implements sim.Observer.
func (st *SimulationTrace) EventExecuted(ev sim.Event) {
	st.Executed++
	if st.Config.Level != TraceLevelEvents {
		return
	}
	st.Events = append(st.Events, EventRecord{
		Run:     st.Config.Run,
		Seq:     ev.Seq,
		Clock:   ev.Due,
		Process: fmt.Sprintf("%T", ev.Process),
	})
}

// Granted implements sim.Observer.
func (st *SimulationTrace) Granted(pool *sim.ResourcePool, now float64, queued bool) {
	kind := KindGranted
	if queued {
		kind = KindGrantedAfterWait
	}
	st.recordPool(pool, now, kind)
}

// Enqueued implements sim.Observer.
func (st *SimulationTrace) Enqueued(pool *sim.ResourcePool, now float64) {
	st.recordPool(pool, now, KindEnqueued)
}

// Released implements sim.Observer.
func (st *SimulationTrace) Released(pool *sim.ResourcePool, now float64) {
	st.recordPool(pool, now, KindReleased)
}

func (st *SimulationTrace) recordPool(pool *sim.ResourcePool, now float64, kind PoolEventKind) {
	if st.Config.Level == TraceLevelNone || st.Config.Level == "" {
		return
	}
	st.Pools = append(st.Pools, PoolRecord{
		Run:      st.Config.Run,
		Seq:      len(st.Pools),
		Clock:    now,
		Pool:     pool.Name,
		Kind:     kind,
		InUse:    pool.InUse,
		Capacity: pool.Capacity,
		QueueLen: pool.QueueLen(),
	})
}

// Grants returns the clock of every grant on the named pool, in order.
func (st *SimulationTrace) Grants(pool string) []float64 {
	var out []float64
	for _, r := range st.Pools {
		if r.Pool == pool && (r.Kind == KindGranted || r.Kind == KindGrantedAfterWait) {
			out = append(out, r.Clock)
		}
	}
	return out
}
