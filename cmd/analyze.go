package cmd

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/regsim/sim/dataset"
	"github.com/inference-sim/regsim/sim/registration"
)

var (
	dataPath       string // Observation CSV
	simulateFromDS bool   // Feed the derived parameters into a sweep
)

// analyzeCmd summarizes an observation CSV and optionally simulates it
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Derive simulation inputs from observed registration data",
	RunE: func(cmd *cobra.Command, args []string) error {
		obs, err := dataset.Load(dataPath)
		if err != nil {
			return err
		}
		summary, err := dataset.Summarize(obs)
		if err != nil {
			return err
		}
		PrintDatasetSummary(os.Stdout, summary)
		if !simulateFromDS {
			return nil
		}

		fc, err := resolveConfigWith(cmd, func(cfg *registration.Config) {
			applyDatasetSummary(cfg, summary)
		})
		if err != nil {
			return err
		}
		list := counters
		if !cmd.Flags().Changed("counters") && len(fc.Counters) > 0 {
			list = fc.Counters
		}
		fmt.Fprintln(os.Stdout)
		return runSweep(fc.Config, list)
	},
}

// applyDatasetSummary copies the derived rate and means into cfg. Missing
// aggregates (every cell NaN) leave the existing value in place.
func applyDatasetSummary(cfg *registration.Config, s *dataset.Summary) {
	set := func(dst *float64, v float64, name string) {
		if math.IsNaN(v) {
			logrus.Warnf("Dataset has no usable %s values; keeping %.2f", name, *dst)
			return
		}
		*dst = v
	}
	set(&cfg.ArrivalRatePerHour, s.ArrivalRatePerHour, "arrival")
	set(&cfg.AvgDocCheckMinutes, s.AvgDocCheckMinutes, "document-check")
	set(&cfg.AvgServiceMinutes, s.AvgServiceMinutes, "service")
}

// PrintDatasetSummary writes the descriptive aggregates of an observation set.
func PrintDatasetSummary(w io.Writer, s *dataset.Summary) {
	fmt.Fprintln(w, "=== Observed Data ===")
	fmt.Fprintf(w, "Observations         : %d over %.2f hours\n", s.Observations, s.ObservationHours)
	fmt.Fprintf(w, "Arrival rate         : %.2f students/hour\n", s.ArrivalRatePerHour)
	fmt.Fprintf(w, "Avg document check   : %.2f min\n", s.AvgDocCheckMinutes)
	fmt.Fprintf(w, "Avg registration     : %.2f min\n", s.AvgServiceMinutes)
	fmt.Fprintf(w, "Avg observed wait    : %.2f min\n", s.AvgWaitMinutes)
	fmt.Fprintln(w, "Arrivals per hour:")
	for _, h := range s.Hours() {
		fmt.Fprintf(w, "  %02d:00  %d\n", h, s.HourlyArrivals[h])
	}
	if ids := s.Counters(); len(ids) > 0 {
		fmt.Fprintln(w, "Counter utilization:")
		for _, id := range ids {
			fmt.Fprintf(w, "  %-8s %.0f%%\n", id, 100*s.CounterUtilization[id])
		}
	}
}

func addAnalyzeFlags(cmd *cobra.Command) {
	addModelFlags(cmd)
	cmd.Flags().StringVar(&dataPath, "data", "", "Observation CSV (Arrival_Time, Document_Check_Duration(min), ...)")
	cmd.Flags().BoolVar(&simulateFromDS, "simulate", false, "Run a counter sweep with the derived arrival rate and means")
	_ = cmd.MarkFlagRequired("data")
}
