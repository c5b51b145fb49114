package registration

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidParameter is wrapped by every configuration validation failure.
var ErrInvalidParameter = errors.New("invalid parameter")

// Defaults describe the baseline registration day: 120 students/hour, five
// document-check desks and a ten-hour day. Service means are overwritten by
// dataset-derived values when they are available.
const (
	DefaultArrivalRatePerHour   = 120.0
	DefaultAvgDocCheckMinutes   = 2.0
	DefaultAvgServiceMinutes    = 5.5
	DefaultDocCheckCapacity     = 5
	DefaultRegistrationCapacity = 3
	DefaultHorizonMinutes       = 600.0
	DefaultSeed                 = 42
)

// DefaultCounters is the baseline registration-capacity sweep.
var DefaultCounters = []int{3, 10, 12}

// Config is the full parameter set of one run.
type Config struct {
	ArrivalRatePerHour   float64 `yaml:"arrival_rate_per_hour" json:"arrival_rate_per_hour"`
	AvgDocCheckMinutes   float64 `yaml:"avg_doc_check_minutes" json:"avg_doc_check_minutes"`
	AvgServiceMinutes    float64 `yaml:"avg_service_minutes" json:"avg_service_minutes"`
	DocCheckCapacity     int     `yaml:"doc_check_capacity" json:"doc_check_capacity"`
	RegistrationCapacity int     `yaml:"registration_capacity" json:"registration_capacity"`
	HorizonMinutes       float64 `yaml:"horizon_minutes" json:"horizon_minutes"`
	Seed                 int64   `yaml:"seed" json:"seed"`
}

// DefaultConfig returns the study's baseline configuration.
func DefaultConfig() Config {
	return Config{
		ArrivalRatePerHour:   DefaultArrivalRatePerHour,
		AvgDocCheckMinutes:   DefaultAvgDocCheckMinutes,
		AvgServiceMinutes:    DefaultAvgServiceMinutes,
		DocCheckCapacity:     DefaultDocCheckCapacity,
		RegistrationCapacity: DefaultRegistrationCapacity,
		HorizonMinutes:       DefaultHorizonMinutes,
		Seed:                 DefaultSeed,
	}
}

// MeanInterArrivalMinutes converts the hourly arrival rate into the mean gap
// between arrivals, in minutes.
func (c Config) MeanInterArrivalMinutes() float64 {
	return 60.0 / c.ArrivalRatePerHour
}

// WithRegistrationCapacity returns a copy of c with the counter count replaced.
func (c Config) WithRegistrationCapacity(n int) Config {
	c.RegistrationCapacity = n
	return c
}

// Validate rejects configurations that cannot be simulated. Every error wraps
// ErrInvalidParameter and names the offending field.
func (c Config) Validate() error {
	if err := validateFinitePositive("arrival_rate_per_hour", c.ArrivalRatePerHour); err != nil {
		return err
	}
	if err := validateFinitePositive("avg_doc_check_minutes", c.AvgDocCheckMinutes); err != nil {
		return err
	}
	if err := validateFinitePositive("avg_service_minutes", c.AvgServiceMinutes); err != nil {
		return err
	}
	if err := validateFinitePositive("horizon_minutes", c.HorizonMinutes); err != nil {
		return err
	}
	if c.DocCheckCapacity < 1 {
		return fmt.Errorf("%w: doc_check_capacity must be at least 1, got %d", ErrInvalidParameter, c.DocCheckCapacity)
	}
	if c.RegistrationCapacity < 1 {
		return fmt.Errorf("%w: registration_capacity must be at least 1, got %d", ErrInvalidParameter, c.RegistrationCapacity)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%w: %s must be a finite number, got %f", ErrInvalidParameter, name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %f", ErrInvalidParameter, name, val)
	}
	return nil
}

// FileConfig is the on-disk YAML layout: a run configuration plus the
// counter sweep to apply to it.
type FileConfig struct {
	Config   `yaml:",inline"`
	Counters []int `yaml:"counters,omitempty"`
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	fc := FileConfig{Config: DefaultConfig()}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &fc, nil
}
