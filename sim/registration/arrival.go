package registration

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/regsim/sim"
)

// ArrivalGenerator spawns students at exponentially distributed intervals.
// It has no stop condition of its own: it keeps rescheduling itself and the
// scheduler's horizon cutoff discards its last pending resumption.
type ArrivalGenerator struct {
	model   *Model
	gaps    *sim.VariateSource
	meanGap float64
	spawned int
}

func newArrivalGenerator(m *Model, gaps *sim.VariateSource) *ArrivalGenerator {
	return &ArrivalGenerator{
		model:   m,
		gaps:    gaps,
		meanGap: m.cfg.MeanInterArrivalMinutes(),
	}
}

// Start schedules the first arrival.
func (g *ArrivalGenerator) Start(s *sim.Scheduler) {
	s.Schedule(g.gaps.SampleExponential(g.meanGap), g)
}

// Resume spawns one student at the current time and schedules the next arrival.
func (g *ArrivalGenerator) Resume(s *sim.Scheduler) {
	g.spawned++
	st := newStudent(g.spawned, s.Now(), g.model)
	logrus.Tracef("[t=%10.4f] student %d arrived", s.Now(), st.ID)
	s.Schedule(0, st)
	s.Schedule(g.gaps.SampleExponential(g.meanGap), g)
}

// Spawned returns the number of students created so far.
func (g *ArrivalGenerator) Spawned() int {
	return g.spawned
}
