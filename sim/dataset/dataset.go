// Package dataset loads observed registration-queue data and derives the
// inputs of the simulation: arrival rate and mean stage durations. It also
// computes the descriptive aggregates reported alongside the simulation
// (hourly arrivals, per-counter utilization).
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Column names of the observation CSV.
const (
	ColArrivalTime     = "Arrival_Time"
	ColDocCheck        = "Document_Check_Duration(min)"
	ColWaitingTime     = "Waiting_Time(min)"
	ColServiceDuration = "Registration_Service_Duration(min)"
	ColCounterID       = "Counter_ID"
)

// arrivalLayout is the clock format of Arrival_Time ("09:05").
const arrivalLayout = "15:04"

// Observation is one student's row. Unparseable numeric cells are NaN, the
// same way a lenient numeric coercion leaves them missing.
type Observation struct {
	Arrival         time.Time
	DocCheckMinutes float64
	WaitMinutes     float64
	ServiceMinutes  float64
	CounterID       string
}

// Load reads a CSV file of observations.
func Load(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads observations from r. The header row is required; surrounding
// whitespace in column names is ignored. Rows whose arrival time cannot be
// parsed are rejected, numeric cells are coerced.
func Parse(r io.Reader) ([]Observation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, fmt.Errorf("reading dataset header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{ColArrivalTime, ColDocCheck, ColServiceDuration} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("dataset is missing column %q", required)
		}
	}

	var out []Observation
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading dataset line %d: %w", line, err)
		}
		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		arrival, err := time.Parse(arrivalLayout, cell(ColArrivalTime))
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing %s: %w", line, ColArrivalTime, err)
		}
		out = append(out, Observation{
			Arrival:         arrival,
			DocCheckMinutes: coerce(cell(ColDocCheck)),
			WaitMinutes:     coerce(cell(ColWaitingTime)),
			ServiceMinutes:  coerce(cell(ColServiceDuration)),
			CounterID:       cell(ColCounterID),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("dataset has no observations")
	}
	logrus.Debugf("Loaded %d observations", len(out))
	return out, nil
}

func coerce(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Summary holds the descriptive aggregates the simulation is seeded with.
type Summary struct {
	Observations       int                `json:"observations"`
	ObservationHours   float64            `json:"observation_hours"`
	ArrivalRatePerHour float64            `json:"arrival_rate_per_hour"`
	AvgDocCheckMinutes float64            `json:"avg_doc_check_minutes"`
	AvgServiceMinutes  float64            `json:"avg_service_minutes"`
	AvgWaitMinutes     float64            `json:"avg_wait_minutes"`
	HourlyArrivals     map[int]int        `json:"hourly_arrivals"`
	CounterUtilization map[string]float64 `json:"counter_utilization"`
}

// Summarize derives the aggregates. The observation window runs from the
// first to the last arrival; a zero-length window cannot yield a rate and is
// an error. Means skip missing values.
func Summarize(obs []Observation) (*Summary, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("no observations to summarize")
	}
	first, last := obs[0].Arrival, obs[0].Arrival
	for _, o := range obs[1:] {
		if o.Arrival.Before(first) {
			first = o.Arrival
		}
		if o.Arrival.After(last) {
			last = o.Arrival
		}
	}
	hours := last.Sub(first).Hours()
	if hours <= 0 {
		return nil, fmt.Errorf("observation window is empty: every arrival is at %s", first.Format(arrivalLayout))
	}

	s := &Summary{
		Observations:       len(obs),
		ObservationHours:   hours,
		ArrivalRatePerHour: float64(len(obs)) / hours,
		AvgDocCheckMinutes: meanSkipNaN(obs, func(o Observation) float64 { return o.DocCheckMinutes }),
		AvgServiceMinutes:  meanSkipNaN(obs, func(o Observation) float64 { return o.ServiceMinutes }),
		AvgWaitMinutes:     meanSkipNaN(obs, func(o Observation) float64 { return o.WaitMinutes }),
		HourlyArrivals:     make(map[int]int),
		CounterUtilization: make(map[string]float64),
	}
	busy := make(map[string]float64)
	for _, o := range obs {
		s.HourlyArrivals[o.Arrival.Hour()]++
		if o.CounterID != "" && !math.IsNaN(o.ServiceMinutes) {
			busy[o.CounterID] += o.ServiceMinutes
		}
	}
	for id, minutes := range busy {
		s.CounterUtilization[id] = minutes / (60 * hours)
	}
	return s, nil
}

func meanSkipNaN(obs []Observation, field func(Observation) float64) float64 {
	vals := make([]float64, 0, len(obs))
	for _, o := range obs {
		if v := field(o); !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// Hours returns the hours present in HourlyArrivals in ascending order.
func (s *Summary) Hours() []int {
	hours := make([]int, 0, len(s.HourlyArrivals))
	for h := range s.HourlyArrivals {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

// Counters returns the counter IDs in CounterUtilization in ascending order.
func (s *Summary) Counters() []string {
	ids := make([]string, 0, len(s.CounterUtilization))
	for id := range s.CounterUtilization {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
