package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_FinalizeReturnsArithmeticMean(t *testing.T) {
	c := NewCollector(4)
	for _, w := range []float64{0, 2, 4, 10} {
		c.Record(w)
	}

	mean, err := c.Finalize()

	require.NoError(t, err)
	assert.InDelta(t, 4.0, mean, 1e-12)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []float64{0, 2, 4, 10}, c.Waits(), "insertion order is kept")
}

func TestCollector_EmptyIsDegenerate(t *testing.T) {
	c := NewCollector(0)

	mean, err := c.Finalize()

	assert.ErrorIs(t, err, ErrDegenerateRun)
	assert.True(t, math.IsNaN(mean))

	_, err = c.Summary()
	assert.ErrorIs(t, err, ErrDegenerateRun)
}

func TestCollector_GrowsPastExpectedSize(t *testing.T) {
	c := NewCollector(1)
	for i := 0; i < 100; i++ {
		c.Record(float64(i))
	}
	mean, err := c.Finalize()
	require.NoError(t, err)
	assert.InDelta(t, 49.5, mean, 1e-12)
}

func TestCollector_RecordRejectsInvalidWaits(t *testing.T) {
	c := NewCollector(0)
	assert.Panics(t, func() { c.Record(-0.1) })
	assert.Panics(t, func() { c.Record(math.NaN()) })
	assert.Equal(t, 0, c.Len())
}

func TestCollector_Summary(t *testing.T) {
	// GIVEN waits 1..10 recorded out of order
	c := NewCollector(10)
	for _, w := range []float64{7, 3, 10, 1, 5, 2, 9, 4, 8, 6} {
		c.Record(w)
	}

	s, err := c.Summary()

	// THEN the summary describes the sorted distribution
	require.NoError(t, err)
	assert.Equal(t, 10, s.Count)
	assert.InDelta(t, 5.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(55.0/6.0), s.StdDev, 1e-12)
	assert.Equal(t, 5.0, s.P50)
	assert.Equal(t, 9.0, s.P90)
	assert.Equal(t, 10.0, s.P99)
	assert.Equal(t, 10.0, s.Max)
	assert.Equal(t, []float64{7, 3, 10, 1, 5, 2, 9, 4, 8, 6}, c.Waits(), "Summary must not reorder the record")
}

func TestCollector_SummarySingleRecord(t *testing.T) {
	c := NewCollector(1)
	c.Record(3)

	s, err := c.Summary()

	require.NoError(t, err)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 3.0, s.P50)
	assert.Equal(t, 3.0, s.Max)
}
