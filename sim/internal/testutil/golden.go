// Package testutil provides shared test infrastructure for the registration
// simulator: the golden baseline file and float assertion helpers.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one seeded sweep whose outputs are pinned.
type GoldenTestCase struct {
	Name               string          `json:"name"`
	ArrivalRatePerHour float64         `json:"arrival_rate_per_hour"`
	AvgDocCheckMinutes float64         `json:"avg_doc_check_minutes"`
	AvgServiceMinutes  float64         `json:"avg_service_minutes"`
	DocCheckCapacity   int             `json:"doc_check_capacity"`
	HorizonMinutes     float64         `json:"horizon_minutes"`
	Seed               int64           `json:"seed"`
	Counters           []int           `json:"counters"`
	Metrics            []GoldenMetrics `json:"metrics"`
}

// GoldenMetrics are the expected outputs for one counter count.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	RegistrationCapacity int `json:"registration_capacity"`
	Arrivals             int `json:"arrivals"`
	Recorded             int `json:"recorded_waits"`
	HeldAtHorizon        int `json:"units_held_at_horizon"`

	// Deterministic floating-point metric (derived from the virtual clock)
	MeanWaitMinutes float64 `json:"mean_wait_minutes"`
}

// GoldenPath returns the location of testdata/golden.json.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func GoldenPath(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden.json")
}

// LoadGoldenDataset loads the golden baseline from testdata/golden.json.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()
	data, err := os.ReadFile(GoldenPath(t))
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// WriteGoldenDataset replaces the golden baseline.
func WriteGoldenDataset(t *testing.T, dataset *GoldenDataset) {
	t.Helper()
	path := GoldenPath(t)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create testdata dir: %v", err)
	}
	data, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		t.Fatalf("Failed to encode golden dataset: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		t.Fatalf("Failed to write golden dataset: %v", err)
	}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
