// Package registration models a university registration day as a two-stage
// queueing network: students pass a bank of document-check desks and then
// queue FIFO for a registration counter. The model estimates the mean wait at
// the counters for a given number of counters.
package registration

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/regsim/sim"
)

// Pool names, as reported to observers and traces.
const (
	PoolDocCheck     = "doc_check"
	PoolRegistration = "registration"
)

// Option customizes a Model.
type Option func(*Model)

// WithObserver installs o on the model's scheduler, so it sees every executed
// event and every grant, enqueue and release of both pools.
func WithObserver(o sim.Observer) Option {
	return func(m *Model) {
		m.sched.SetObserver(o)
	}
}

// Model wires one run: the scheduler, both resource pools, the variate
// streams, the arrival generator and the wait collector.
type Model struct {
	cfg          Config
	sched        *sim.Scheduler
	docCheck     *sim.ResourcePool
	registration *sim.ResourcePool
	collector    *sim.Collector
	arrivals     *ArrivalGenerator

	docCheckTimes *sim.VariateSource
	serviceTimes  *sim.VariateSource

	completed int
	ran       bool
}

// NewModel validates cfg and builds a model ready to Run.
func NewModel(cfg Config, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newModel(cfg, opts...), nil
}

// newModel builds a model without validating cfg. Pool capacities and means
// must still be positive; the horizon may be anything.
func newModel(cfg Config, opts ...Option) *Model {
	sched := sim.NewScheduler()
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))

	expected := 0
	if cfg.HorizonMinutes > 0 {
		expected = int(cfg.HorizonMinutes/cfg.MeanInterArrivalMinutes()) + 1
	}

	m := &Model{
		cfg:           cfg,
		sched:         sched,
		docCheck:      sim.NewResourcePool(sched, PoolDocCheck, cfg.DocCheckCapacity),
		registration:  sim.NewResourcePool(sched, PoolRegistration, cfg.RegistrationCapacity),
		collector:     sim.NewCollector(expected),
		docCheckTimes: rng.Variates(sim.SubsystemDocCheck),
		serviceTimes:  rng.Variates(sim.SubsystemService),
	}
	m.arrivals = newArrivalGenerator(m, rng.Variates(sim.SubsystemArrivals))
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Scheduler exposes the model's scheduler, mainly for inspection after a run.
func (m *Model) Scheduler() *sim.Scheduler { return m.sched }

// DocCheck returns the document-check pool.
func (m *Model) DocCheck() *sim.ResourcePool { return m.docCheck }

// Registration returns the registration-counter pool.
func (m *Model) Registration() *sim.ResourcePool { return m.registration }

// Collector returns the run's wait collector.
func (m *Model) Collector() *sim.Collector { return m.collector }

// Run simulates until the horizon and reduces the recorded waits. A model runs
// once; a second call panics.
//
// Students still in flight at the horizon are abandoned: they are not counted
// and the units they hold are never released.
func (m *Model) Run() RunResult {
	if m.ran {
		panic("Run: model has already been run")
	}
	m.ran = true

	logrus.Debugf("Running registration model: counters=%d desks=%d horizon=%.1fmin seed=%d",
		m.cfg.RegistrationCapacity, m.cfg.DocCheckCapacity, m.cfg.HorizonMinutes, m.cfg.Seed)

	m.arrivals.Start(m.sched)
	m.sched.RunUntil(m.cfg.HorizonMinutes)

	end := m.cfg.HorizonMinutes
	if end < 0 {
		end = 0
	}
	res := RunResult{
		RegistrationCapacity:    m.cfg.RegistrationCapacity,
		Arrivals:                m.arrivals.Spawned(),
		Recorded:                m.collector.Len(),
		Completed:               m.completed,
		InFlight:                m.arrivals.Spawned() - m.completed,
		HeldAtHorizon:           m.docCheck.InUse + m.registration.InUse,
		DocCheckUtilization:     m.docCheck.Utilization(end),
		RegistrationUtilization: m.registration.Utilization(end),
		MaxRegistrationQueue:    m.registration.MaxQueueLen,
		EventsExecuted:          m.sched.Executed,
		EventsDiscarded:         m.sched.Discarded,
	}

	mean, err := m.collector.Finalize()
	if errors.Is(err, sim.ErrDegenerateRun) {
		logrus.Warnf("counters=%d: %v", m.cfg.RegistrationCapacity, err)
		res.MeanWait = math.NaN()
		res.Degenerate = true
		return res
	}
	res.MeanWait = mean
	if summary, err := m.collector.Summary(); err == nil {
		res.Summary = &summary
	}
	logrus.Infof("Counters: %d -> Avg Waiting Time: %.2f minutes (%d students reached a counter)",
		res.RegistrationCapacity, res.MeanWait, res.Recorded)
	return res
}

// Simulate runs one configuration and returns its statistics. Parameter errors
// wrap ErrInvalidParameter and are returned before anything is scheduled. A run
// in which nobody reached a counter is not an error: it comes back with
// Degenerate set and a NaN MeanWait.
func Simulate(cfg Config, opts ...Option) (RunResult, error) {
	m, err := NewModel(cfg, opts...)
	if err != nil {
		return RunResult{}, fmt.Errorf("simulate counters=%d: %w", cfg.RegistrationCapacity, err)
	}
	return m.Run(), nil
}
