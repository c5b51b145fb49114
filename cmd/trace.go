package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/regsim/sim/registration"
	"github.com/inference-sim/regsim/sim/trace"
)

// sweepTracer hands each run of a sweep its own SimulationTrace and stores
// them all in one SQLite database afterwards.
type sweepTracer struct {
	level  trace.TraceLevel
	writer *trace.SQLiteWriter // nil when tracing is off
	traces []*trace.SimulationTrace
}

// newSweepTracer opens the trace database before any run starts, so an
// unusable path fails the command up front.
func newSweepTracer(path string, level trace.TraceLevel) (*sweepTracer, error) {
	t := &sweepTracer{level: level}
	if path == "" || level == trace.TraceLevelNone || level == "" {
		return t, nil
	}
	w, err := trace.NewSQLiteWriter(path)
	if err != nil {
		return nil, err
	}
	t.writer = w
	return t, nil
}

func (t *sweepTracer) enabled() bool {
	return t.writer != nil
}

// options is the per-run option factory passed to registration.Sweep.
func (t *sweepTracer) options(cfg registration.Config) []registration.Option {
	if !t.enabled() {
		return nil
	}
	st := trace.NewSimulationTrace(trace.TraceConfig{
		Level: t.level,
		Run:   trace.RunLabel(cfg.RegistrationCapacity),
	})
	t.traces = append(t.traces, st)
	return []registration.Option{registration.WithObserver(st)}
}

// close releases the database without writing the collected traces.
func (t *sweepTracer) close() {
	if !t.enabled() {
		return
	}
	if err := t.writer.Close(); err != nil {
		logrus.Warnf("closing trace database %s: %v", t.writer.Path(), err)
	}
}

// flush writes the collected traces and logs a per-pool summary.
func (t *sweepTracer) flush() error {
	if !t.enabled() {
		return nil
	}
	w := t.writer
	for _, st := range t.traces {
		summary := trace.Summarize(st)
		for _, name := range summary.PoolNames() {
			ps := summary.Pools[name]
			logrus.Infof("%s %s: grants=%d (after wait %d) releases=%d max in use=%d max queue=%d",
				st.Config.Run, name, ps.Grants, ps.GrantsAfterWait, ps.Releases, ps.MaxInUse, ps.MaxQueueLen)
			if ps.CapacityViolations > 0 {
				logrus.Warnf("%s %s: %d records exceed pool capacity", st.Config.Run, name, ps.CapacityViolations)
			}
		}
		if err := w.Write(st); err != nil {
			_ = w.Close()
			return fmt.Errorf("writing trace %s: %w", st.Config.Run, err)
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	logrus.Infof("Trace written to %s", w.Path())
	return nil
}
