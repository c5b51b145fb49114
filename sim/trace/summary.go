package trace

import "sort"

// PoolSummary aggregates the records of one pool.
type PoolSummary struct {
	Pool               string
	Grants             int
	GrantsAfterWait    int
	Enqueues           int
	Releases           int
	MaxInUse           int
	MaxQueueLen        int
	CapacityViolations int // records where InUse exceeded Capacity; always 0 in a correct run
}

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Executed int
	Pools    map[string]*PoolSummary // pool name → summary
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		Pools: make(map[string]*PoolSummary),
	}
	if st == nil {
		return summary
	}
	summary.Executed = st.Executed

	for _, r := range st.Pools {
		ps, ok := summary.Pools[r.Pool]
		if !ok {
			ps = &PoolSummary{Pool: r.Pool}
			summary.Pools[r.Pool] = ps
		}
		switch r.Kind {
		case KindGranted:
			ps.Grants++
		case KindGrantedAfterWait:
			ps.Grants++
			ps.GrantsAfterWait++
		case KindEnqueued:
			ps.Enqueues++
		case KindReleased:
			ps.Releases++
		}
		if r.InUse > ps.MaxInUse {
			ps.MaxInUse = r.InUse
		}
		if r.QueueLen > ps.MaxQueueLen {
			ps.MaxQueueLen = r.QueueLen
		}
		if r.InUse > r.Capacity || r.InUse < 0 {
			ps.CapacityViolations++
		}
	}
	return summary
}

// PoolNames returns the summarized pool names in sorted order.
func (s *TraceSummary) PoolNames() []string {
	names := make([]string, 0, len(s.Pools))
	for name := range s.Pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
