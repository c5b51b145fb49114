// Package analytic provides closed-form M/M/c results used as a sanity check
// for simulated waits. In steady state the departures of an M/M/c stage are
// again Poisson, so the registration stage of the model is an M/M/c queue fed
// at the raw arrival rate.
package analytic

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnstable is returned when the offered load reaches the number of servers:
// the queue grows without bound and has no steady-state wait.
var ErrUnstable = errors.New("unstable queue: utilization >= 1")

// Queue describes an M/M/c station.
type Queue struct {
	ArrivalRate float64 // arrivals per minute (λ)
	MeanService float64 // minutes per service (1/μ)
	Servers     int     // c
}

// OfferedLoad returns a = λ/μ in Erlangs.
func (q Queue) OfferedLoad() float64 {
	return q.ArrivalRate * q.MeanService
}

// Utilization returns ρ = a/c.
func (q Queue) Utilization() float64 {
	return q.OfferedLoad() / float64(q.Servers)
}

func (q Queue) validate() error {
	if !(q.ArrivalRate > 0) || !(q.MeanService > 0) || math.IsInf(q.ArrivalRate, 0) || math.IsInf(q.MeanService, 0) {
		return fmt.Errorf("arrival rate and mean service must be positive and finite, got λ=%v 1/μ=%v", q.ArrivalRate, q.MeanService)
	}
	if q.Servers < 1 {
		return fmt.Errorf("servers must be at least 1, got %d", q.Servers)
	}
	return nil
}

// ErlangB returns the blocking probability of an M/M/c/c system with offered
// load a, computed with the stable recursion B(k) = a·B(k-1) / (k + a·B(k-1)).
func ErlangB(c int, a float64) float64 {
	b := 1.0
	for k := 1; k <= c; k++ {
		b = a * b / (float64(k) + a*b)
	}
	return b
}

// ProbWait returns the Erlang-C probability that an arrival has to queue.
func (q Queue) ProbWait() (float64, error) {
	if err := q.validate(); err != nil {
		return 0, err
	}
	rho := q.Utilization()
	if rho >= 1 {
		return 1, ErrUnstable
	}
	b := ErlangB(q.Servers, q.OfferedLoad())
	return b / (1 - rho*(1-b)), nil
}

// MeanWait returns the expected time in queue Wq = C(c, a) / (cμ - λ), in
// minutes.
func (q Queue) MeanWait() (float64, error) {
	pw, err := q.ProbWait()
	if err != nil {
		return math.Inf(1), err
	}
	mu := 1 / q.MeanService
	return pw / (float64(q.Servers)*mu - q.ArrivalRate), nil
}

// MinServers returns the smallest c for which the steady-state mean wait is
// below target minutes, searching up to maxServers.
func MinServers(arrivalRate, meanService, target float64, maxServers int) (int, error) {
	for c := 1; c <= maxServers; c++ {
		w, err := Queue{ArrivalRate: arrivalRate, MeanService: meanService, Servers: c}.MeanWait()
		if errors.Is(err, ErrUnstable) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if w < target {
			return c, nil
		}
	}
	return 0, fmt.Errorf("no server count up to %d keeps the mean wait below %.2f minutes", maxServers, target)
}
