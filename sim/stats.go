package sim

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrDegenerateRun reports that a run recorded no waits at all, typically
// because the horizon was too short for any student to reach a counter.
var ErrDegenerateRun = errors.New("degenerate run: no waits recorded before the horizon")

// Collector accumulates the stage-2 waiting times of one run, in the order
// they were recorded. It is shared by every student spawned in that run.
type Collector struct {
	waits []float64
}

// NewCollector returns a collector pre-sized for expected records. The
// sequence still grows past that size when needed.
func NewCollector(expected int) *Collector {
	if expected < 0 {
		expected = 0
	}
	return &Collector{waits: make([]float64, 0, expected)}
}

// Record appends one waiting time. Negative waits cannot happen in a
// well-formed run and panic.
func (c *Collector) Record(wait float64) {
	if wait < 0 || math.IsNaN(wait) {
		panic("Record: wait must be a non-negative number")
	}
	c.waits = append(c.waits, wait)
}

// Len returns the number of recorded waits.
func (c *Collector) Len() int {
	return len(c.waits)
}

// Waits returns the recorded waits in insertion order. Callers must not modify
// the returned slice.
func (c *Collector) Waits() []float64 {
	return c.waits
}

// Finalize returns the arithmetic mean of the recorded waits, or
// ErrDegenerateRun if nothing was recorded.
func (c *Collector) Finalize() (float64, error) {
	if len(c.waits) == 0 {
		return math.NaN(), ErrDegenerateRun
	}
	return stat.Mean(c.waits, nil), nil
}

// WaitSummary describes the distribution of recorded waits, in minutes.
type WaitSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	Max    float64 `json:"max"`
}

// Summary computes distribution statistics over the recorded waits. Returns
// ErrDegenerateRun for an empty collector. StdDev is 0 for a single record.
func (c *Collector) Summary() (WaitSummary, error) {
	n := len(c.waits)
	if n == 0 {
		return WaitSummary{}, ErrDegenerateRun
	}
	sorted := make([]float64, n)
	copy(sorted, c.waits)
	sort.Float64s(sorted)

	s := WaitSummary{
		Count: n,
		Mean:  stat.Mean(c.waits, nil),
		P50:   stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:   stat.Quantile(0.90, stat.Empirical, sorted, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, sorted, nil),
		Max:   floats.Max(sorted),
	}
	if n > 1 {
		s.StdDev = stat.StdDev(c.waits, nil)
	}
	return s, nil
}
