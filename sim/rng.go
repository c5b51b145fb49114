package sim

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemArrivals drives inter-arrival gaps. Uses the master seed directly.
	SubsystemArrivals = "arrivals"

	// SubsystemDocCheck drives document-check durations.
	SubsystemDocCheck = "doc_check"

	// SubsystemService drives registration-service durations.
	SubsystemService = "service"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemArrivals: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Keeping arrivals on their own stream means every capacity in a sweep sees
// the same arrival sequence for a given seed.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemArrivals {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Variates returns a VariateSource backed by the named subsystem stream.
func (p *PartitionedRNG) Variates(name string) *VariateSource {
	return NewVariateSource(p.ForSubsystem(name))
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// === VariateSource ===

// VariateSource draws random variates from one explicit generator handle.
// Identical seed and identical call sequence give an identical sample sequence.
type VariateSource struct {
	rng   *rand.Rand
	draws int
}

// NewVariateSource wraps rng. Panics on nil.
func NewVariateSource(rng *rand.Rand) *VariateSource {
	if rng == nil {
		panic("NewVariateSource: rng must not be nil")
	}
	return &VariateSource{rng: rng}
}

// SampleExponential returns an exponentially distributed, non-negative sample
// with the given mean. The mean must be positive and finite; callers validate
// their parameters first, so anything else is a programming error and panics.
func (v *VariateSource) SampleExponential(mean float64) float64 {
	if !(mean > 0) || math.IsInf(mean, 0) {
		panic(fmt.Sprintf("SampleExponential: mean must be positive and finite, got %v", mean))
	}
	v.draws++
	return v.rng.ExpFloat64() * mean
}

// Draws returns how many samples have been taken.
func (v *VariateSource) Draws() int {
	return v.draws
}
