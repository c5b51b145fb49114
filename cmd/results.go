package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/xid"

	"github.com/inference-sim/regsim/sim/analytic"
	"github.com/inference-sim/regsim/sim/registration"
)

// PrintResults writes the sweep table and the counter recommendation to w.
func PrintResults(w io.Writer, cfg registration.Config, results []registration.RunResult, target float64, withAnalytic bool) {
	fmt.Fprintln(w, "=== Simulation Results ===")
	fmt.Fprintf(w, "Arrival rate         : %.2f students/hour\n", cfg.ArrivalRatePerHour)
	fmt.Fprintf(w, "Avg document check   : %.2f min (%d desks)\n", cfg.AvgDocCheckMinutes, cfg.DocCheckCapacity)
	fmt.Fprintf(w, "Avg registration     : %.2f min\n", cfg.AvgServiceMinutes)
	fmt.Fprintf(w, "Horizon              : %.0f min, seed %d\n", cfg.HorizonMinutes, cfg.Seed)
	for _, r := range results {
		if r.Degenerate {
			fmt.Fprintf(w, "Counters: %d -> no student reached a counter before the horizon\n", r.RegistrationCapacity)
			continue
		}
		line := fmt.Sprintf("Counters: %d -> Avg Waiting Time: %.2f minutes (n=%d, utilization %.0f%%)",
			r.RegistrationCapacity, r.MeanWait, r.Recorded, 100*r.RegistrationUtilization)
		if withAnalytic {
			line += " | M/M/c steady state: " + analyticWait(cfg, r.RegistrationCapacity)
		}
		fmt.Fprintln(w, line)
	}
	if len(results) > 1 {
		if best, ok := registration.Recommend(results, target); ok {
			fmt.Fprintf(w, "Recommendation       : %d counters keep the mean wait below %.0f minutes (%.2f)\n",
				best.RegistrationCapacity, target, best.MeanWait)
		} else {
			fmt.Fprintf(w, "Recommendation       : no simulated counter count keeps the mean wait below %.0f minutes\n", target)
		}
	}
	if withAnalytic {
		fmt.Fprintln(w, "M/M/c baseline       : "+analyticRecommendation(cfg, target))
	}
}

// analyticSearchLimit bounds the steady-state counter search.
const analyticSearchLimit = 500

func analyticRecommendation(cfg registration.Config, target float64) string {
	c, err := analytic.MinServers(cfg.ArrivalRatePerHour/60, cfg.AvgServiceMinutes, target, analyticSearchLimit)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%d counters keep the steady-state wait below %.0f minutes", c, target)
}

func analyticWait(cfg registration.Config, servers int) string {
	q := analytic.Queue{
		ArrivalRate: cfg.ArrivalRatePerHour / 60,
		MeanService: cfg.AvgServiceMinutes,
		Servers:     servers,
	}
	wq, err := q.MeanWait()
	if err != nil {
		return fmt.Sprintf("unstable (ρ=%.2f)", q.Utilization())
	}
	return fmt.Sprintf("%.2f minutes", wq)
}

// resultsFile is the JSON layout written by SaveResults.
type resultsFile struct {
	BatchID string                   `json:"batch_id"`
	Config  registration.Config      `json:"config"`
	Results []registration.RunResult `json:"results"`
}

var csvColumns = []string{
	"registration_capacity", "mean_wait_minutes", "degenerate", "arrivals", "recorded_waits",
	"completed", "in_flight_at_horizon", "registration_utilization", "doc_check_utilization",
	"max_registration_queue", "p90_wait_minutes",
}

// SaveResults writes results as JSON or CSV, chosen by the file extension.
// The CSV is the hand-off format for plotting wait time against counters.
func SaveResults(path string, cfg registration.Config, results []registration.RunResult) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := json.MarshalIndent(resultsFile{
			BatchID: xid.New().String(),
			Config:  cfg,
			Results: results,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling results: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
		return nil
	case ".csv":
		return saveResultsCSV(path, results)
	default:
		return fmt.Errorf("unsupported results format %q; use .json or .csv", filepath.Ext(path))
	}
}

func saveResultsCSV(path string, results []registration.RunResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range results {
		p90 := math.NaN()
		if r.Summary != nil {
			p90 = r.Summary.P90
		}
		row := []string{
			strconv.Itoa(r.RegistrationCapacity),
			formatFloat(r.MeanWait),
			strconv.FormatBool(r.Degenerate),
			strconv.Itoa(r.Arrivals),
			strconv.Itoa(r.Recorded),
			strconv.Itoa(r.Completed),
			strconv.Itoa(r.InFlight),
			formatFloat(r.RegistrationUtilization),
			formatFloat(r.DocCheckUtilization),
			strconv.Itoa(r.MaxRegistrationQueue),
			formatFloat(p90),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

// formatFloat leaves NaN cells empty.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
