package registration

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Sweep runs base once per counter count, sequentially and independently, with
// the same seed for every run. All configurations are validated before the
// first run starts, so a bad capacity never leaves a partial sweep behind.
//
// newOpts, when non-nil, supplies per-run options (for example a fresh trace
// observer for each capacity).
func Sweep(base Config, counters []int, newOpts func(cfg Config) []Option) ([]RunResult, error) {
	if len(counters) == 0 {
		return nil, fmt.Errorf("%w: at least one counter count required", ErrInvalidParameter)
	}
	cfgs := make([]Config, 0, len(counters))
	for _, n := range counters {
		cfg := base.WithRegistrationCapacity(n)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("sweep counters=%d: %w", n, err)
		}
		cfgs = append(cfgs, cfg)
	}

	results := make([]RunResult, 0, len(cfgs))
	for _, cfg := range cfgs {
		var opts []Option
		if newOpts != nil {
			opts = newOpts(cfg)
		}
		results = append(results, newModel(cfg, opts...).Run())
	}
	logrus.Debugf("Sweep finished: %d configurations", len(results))
	return results, nil
}

// Recommend returns the result with the fewest counters whose mean wait is
// strictly below target minutes. Degenerate runs never qualify. ok is false
// when no result meets the target.
func Recommend(results []RunResult, target float64) (best RunResult, ok bool) {
	for _, r := range results {
		if r.Degenerate || math.IsNaN(r.MeanWait) || r.MeanWait >= target {
			continue
		}
		if !ok || r.RegistrationCapacity < best.RegistrationCapacity {
			best, ok = r, true
		}
	}
	return best, ok
}
