package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/inference-sim/regsim/sim/registration"
)

// resolveConfig builds the run configuration: defaults, then the --config
// file, then any flag the user set explicitly. Flags left at their defaults
// never overwrite file values.
func resolveConfig(cmd *cobra.Command) (*registration.FileConfig, error) {
	return resolveConfigWith(cmd, nil)
}

// resolveConfigWith is resolveConfig with an extra layer applied between the
// file and the flags (dataset-derived parameters).
func resolveConfigWith(cmd *cobra.Command, derive func(*registration.Config)) (*registration.FileConfig, error) {
	fc := &registration.FileConfig{Config: registration.DefaultConfig()}
	if configPath != "" {
		loaded, err := registration.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		fc = loaded
	}
	if derive != nil {
		derive(&fc.Config)
	}
	applyFlagOverrides(cmd.Flags(), &fc.Config)
	return fc, nil
}

func applyFlagOverrides(flags *pflag.FlagSet, cfg *registration.Config) {
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("horizon") {
		cfg.HorizonMinutes = horizonMinutes
	}
	if flags.Changed("arrival-rate") {
		cfg.ArrivalRatePerHour = arrivalRatePerHour
	}
	if flags.Changed("avg-doc-check") {
		cfg.AvgDocCheckMinutes = avgDocCheckMinutes
	}
	if flags.Changed("avg-service") {
		cfg.AvgServiceMinutes = avgServiceMinutes
	}
	if flags.Changed("doc-check-capacity") {
		cfg.DocCheckCapacity = docCheckCapacity
	}
}
