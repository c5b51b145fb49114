package cmd

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/regsim/sim/registration"
)

// sweepMetrics holds the gauges exported for a sweep, labelled by counter count.
type sweepMetrics struct {
	meanWait      *prometheus.GaugeVec
	p90Wait       *prometheus.GaugeVec
	utilization   *prometheus.GaugeVec
	recorded      *prometheus.GaugeVec
	degenerate    *prometheus.GaugeVec
	heldAtHorizon *prometheus.GaugeVec
	maxQueue      *prometheus.GaugeVec
}

func newSweepMetrics() *sweepMetrics {
	labels := []string{"counters"}
	return &sweepMetrics{
		meanWait: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "regsim_mean_wait_minutes",
			Help: "Mean registration wait in minutes (NaN for degenerate runs)",
		}, labels),
		p90Wait: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "regsim_p90_wait_minutes",
			Help: "90th percentile registration wait in minutes",
		}, labels),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "regsim_registration_utilization_ratio",
			Help: "Time-averaged fraction of registration counters in use",
		}, labels),
		recorded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "regsim_recorded_waits",
			Help: "Students whose registration wait was recorded",
		}, labels),
		degenerate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "regsim_degenerate_run",
			Help: "1 when no student reached a counter before the horizon",
		}, labels),
		heldAtHorizon: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "regsim_units_held_at_horizon",
			Help: "Resource units still held by students abandoned at the horizon",
		}, labels),
		maxQueue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "regsim_max_registration_queue",
			Help: "Longest registration queue observed",
		}, labels),
	}
}

func (m *sweepMetrics) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.meanWait, m.p90Wait, m.utilization, m.recorded, m.degenerate, m.heldAtHorizon, m.maxQueue,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *sweepMetrics) update(results []registration.RunResult) {
	for _, r := range results {
		label := strconv.Itoa(r.RegistrationCapacity)
		m.meanWait.WithLabelValues(label).Set(r.MeanWait)
		m.utilization.WithLabelValues(label).Set(r.RegistrationUtilization)
		m.recorded.WithLabelValues(label).Set(float64(r.Recorded))
		m.heldAtHorizon.WithLabelValues(label).Set(float64(r.HeldAtHorizon))
		m.maxQueue.WithLabelValues(label).Set(float64(r.MaxRegistrationQueue))
		degenerate := 0.0
		if r.Degenerate {
			degenerate = 1
		}
		m.degenerate.WithLabelValues(label).Set(degenerate)
		if r.Summary != nil {
			m.p90Wait.WithLabelValues(label).Set(r.Summary.P90)
		}
	}
}

// WriteMetricsTextfile exports results in the Prometheus text format, for a
// node_exporter textfile collector or any other scraper of static files.
func WriteMetricsTextfile(path string, results []registration.RunResult) error {
	reg := prometheus.NewRegistry()
	m := newSweepMetrics()
	if err := m.register(reg); err != nil {
		return fmt.Errorf("registering sweep metrics: %w", err)
	}
	m.update(results)
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
