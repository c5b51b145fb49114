package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/inference-sim/regsim/sim/registration"
	"github.com/inference-sim/regsim/sim/trace"
)

var (
	// CLI flags shared by run and sweep
	configPath           string  // Optional YAML config file
	seed                 int64   // Seed for the partitioned RNG
	horizonMinutes       float64 // Simulated day length (in minutes)
	logLevel             string  // Log verbosity level
	arrivalRatePerHour   float64 // Students arriving per hour
	avgDocCheckMinutes   float64 // Mean document-check duration
	avgServiceMinutes    float64 // Mean registration-service duration
	docCheckCapacity     int     // Number of document-check desks
	registrationCapacity int     // Number of registration counters (run only)

	// sweep-only flags
	counters       []int   // Counter counts to sweep
	targetWait     float64 // Wait threshold used for the recommendation
	outputPath     string  // Results file (.json or .csv)
	metricsOutPath string  // Prometheus textfile output
	traceDBPath    string  // SQLite trace database
	traceLevel     string  // Trace verbosity
	showAnalytic   bool    // Print the M/M/c baseline next to simulated waits
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "regsim",
	Short: "Discrete-event simulator for a two-stage student registration queue",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

// runCmd simulates a single configuration
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one registration-day configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		cfg := fc.Config
		if cmd.Flags().Changed("registration-capacity") {
			cfg.RegistrationCapacity = registrationCapacity
		}
		logrus.Infof("Starting run: rate=%.2f/h doc=%.2fmin service=%.2fmin desks=%d counters=%d horizon=%.0fmin seed=%d",
			cfg.ArrivalRatePerHour, cfg.AvgDocCheckMinutes, cfg.AvgServiceMinutes,
			cfg.DocCheckCapacity, cfg.RegistrationCapacity, cfg.HorizonMinutes, cfg.Seed)

		res, err := registration.Simulate(cfg)
		if err != nil {
			return err
		}
		PrintResults(os.Stdout, cfg, []registration.RunResult{res}, targetWait, false)
		return nil
	},
}

// sweepCmd simulates one configuration per counter count
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Simulate a range of registration-counter counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		list := counters
		if !cmd.Flags().Changed("counters") && len(fc.Counters) > 0 {
			list = fc.Counters
		}
		return runSweep(fc.Config, list)
	},
}

// runSweep executes a sweep and writes every requested output.
func runSweep(cfg registration.Config, list []int) error {
	if !trace.IsValidTraceLevel(traceLevel) {
		return fmt.Errorf("unknown trace level %q; valid: none, pools, events", traceLevel)
	}
	logrus.Infof("Starting sweep over counters %v: rate=%.2f/h doc=%.2fmin service=%.2fmin horizon=%.0fmin seed=%d",
		list, cfg.ArrivalRatePerHour, cfg.AvgDocCheckMinutes, cfg.AvgServiceMinutes, cfg.HorizonMinutes, cfg.Seed)

	tracer, err := newSweepTracer(traceDBPath, trace.TraceLevel(traceLevel))
	if err != nil {
		return err
	}
	results, err := registration.Sweep(cfg, list, tracer.options)
	if err != nil {
		tracer.close()
		return err
	}
	if err := tracer.flush(); err != nil {
		return err
	}

	PrintResults(os.Stdout, cfg, results, targetWait, showAnalytic)
	if outputPath != "" {
		if err := SaveResults(outputPath, cfg, results); err != nil {
			return err
		}
		logrus.Infof("Results written to %s", outputPath)
	}
	if metricsOutPath != "" {
		if err := WriteMetricsTextfile(metricsOutPath, results); err != nil {
			return err
		}
		logrus.Infof("Metrics written to %s", metricsOutPath)
	}
	return nil
}

// Execute runs the CLI root command. Exit goes through atexit so that
// registered flushes (trace databases) run on every path.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func addModelFlags(cmd *cobra.Command) {
	d := registration.DefaultConfig()
	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file; explicitly set flags override it")
	cmd.Flags().Float64Var(&horizonMinutes, "horizon", d.HorizonMinutes, "Simulation horizon (in minutes)")
	cmd.Flags().Float64Var(&arrivalRatePerHour, "arrival-rate", d.ArrivalRatePerHour, "Student arrivals per hour")
	cmd.Flags().Float64Var(&avgDocCheckMinutes, "avg-doc-check", d.AvgDocCheckMinutes, "Mean document-check duration (minutes)")
	cmd.Flags().Float64Var(&avgServiceMinutes, "avg-service", d.AvgServiceMinutes, "Mean registration-service duration (minutes)")
	cmd.Flags().IntVar(&docCheckCapacity, "doc-check-capacity", d.DocCheckCapacity, "Number of document-check desks")
	cmd.Flags().Float64Var(&targetWait, "target-wait", 20, "Mean wait (minutes) the recommended counter count must stay below")
}

func addSweepFlags(cmd *cobra.Command) {
	cmd.Flags().IntSliceVar(&counters, "counters", registration.DefaultCounters, "Comma-separated registration-counter counts to simulate")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write results to this file (.json or .csv)")
	cmd.Flags().StringVar(&metricsOutPath, "metrics-out", "", "Write results as a Prometheus textfile")
	cmd.Flags().StringVar(&traceDBPath, "trace-db", "", "Record pool activity into this SQLite database")
	cmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelPools), "Trace verbosity when --trace-db is set (none, pools, events)")
	cmd.Flags().BoolVar(&showAnalytic, "analytic", false, "Print the steady-state M/M/c wait next to each simulated wait")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", registration.DefaultSeed, "Seed for random variate generation")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	addModelFlags(runCmd)
	runCmd.Flags().IntVar(&registrationCapacity, "registration-capacity", registration.DefaultRegistrationCapacity, "Number of registration counters")

	addModelFlags(sweepCmd)
	addSweepFlags(sweepCmd)

	addAnalyzeFlags(analyzeCmd)
	addSweepFlags(analyzeCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(analyzeCmd)
}
