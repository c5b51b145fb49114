package registration

import (
	"encoding/json"
	"math"

	"github.com/inference-sim/regsim/sim"
)

// RunResult is the outcome of one simulated configuration. It is never
// modified after Run returns it.
type RunResult struct {
	RegistrationCapacity int     // Number of registration counters simulated
	MeanWait             float64 // Mean registration wait in minutes; NaN when Degenerate
	Degenerate           bool    // No student reached a counter before the horizon

	Arrivals      int // Students spawned before the horizon
	Recorded      int // Students whose registration wait was recorded
	Completed     int // Students that finished both stages
	InFlight      int // Students abandoned at the horizon
	HeldAtHorizon int // Units still held by abandoned students (never released)

	DocCheckUtilization     float64
	RegistrationUtilization float64
	MaxRegistrationQueue    int

	EventsExecuted  int
	EventsDiscarded int

	Summary *sim.WaitSummary // nil when Degenerate
}

type runResultJSON struct {
	RegistrationCapacity    int              `json:"registration_capacity"`
	MeanWait                *float64         `json:"mean_wait_minutes"`
	Degenerate              bool             `json:"degenerate"`
	Arrivals                int              `json:"arrivals"`
	Recorded                int              `json:"recorded_waits"`
	Completed               int              `json:"completed"`
	InFlight                int              `json:"in_flight_at_horizon"`
	HeldAtHorizon           int              `json:"units_held_at_horizon"`
	DocCheckUtilization     float64          `json:"doc_check_utilization"`
	RegistrationUtilization float64          `json:"registration_utilization"`
	MaxRegistrationQueue    int              `json:"max_registration_queue"`
	EventsExecuted          int              `json:"events_executed"`
	EventsDiscarded         int              `json:"events_discarded"`
	Summary                 *sim.WaitSummary `json:"wait_summary,omitempty"`
}

// MarshalJSON encodes a NaN mean wait as null.
func (r RunResult) MarshalJSON() ([]byte, error) {
	out := runResultJSON{
		RegistrationCapacity:    r.RegistrationCapacity,
		Degenerate:              r.Degenerate,
		Arrivals:                r.Arrivals,
		Recorded:                r.Recorded,
		Completed:               r.Completed,
		InFlight:                r.InFlight,
		HeldAtHorizon:           r.HeldAtHorizon,
		DocCheckUtilization:     r.DocCheckUtilization,
		RegistrationUtilization: r.RegistrationUtilization,
		MaxRegistrationQueue:    r.MaxRegistrationQueue,
		EventsExecuted:          r.EventsExecuted,
		EventsDiscarded:         r.EventsDiscarded,
		Summary:                 r.Summary,
	}
	if !math.IsNaN(r.MeanWait) {
		mean := r.MeanWait
		out.MeanWait = &mean
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a null mean wait as NaN.
func (r *RunResult) UnmarshalJSON(data []byte) error {
	var in runResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = RunResult{
		RegistrationCapacity:    in.RegistrationCapacity,
		MeanWait:                math.NaN(),
		Degenerate:              in.Degenerate,
		Arrivals:                in.Arrivals,
		Recorded:                in.Recorded,
		Completed:               in.Completed,
		InFlight:                in.InFlight,
		HeldAtHorizon:           in.HeldAtHorizon,
		DocCheckUtilization:     in.DocCheckUtilization,
		RegistrationUtilization: in.RegistrationUtilization,
		MaxRegistrationQueue:    in.MaxRegistrationQueue,
		EventsExecuted:          in.EventsExecuted,
		EventsDiscarded:         in.EventsDiscarded,
		Summary:                 in.Summary,
	}
	if in.MeanWait != nil {
		r.MeanWait = *in.MeanWait
	}
	return nil
}
