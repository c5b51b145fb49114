package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Arrival_Time, Document_Check_Duration(min), Waiting_Time(min), Registration_Service_Duration(min), Counter_ID
09:00,2.0,5,6.0,C1
09:30,4.0,,4.0,C2
10:00,abc,10,5.0,C1
11:00,3.0,15,,C2
`

func TestParse_CoercesMissingNumbersToNaN(t *testing.T) {
	obs, err := Parse(strings.NewReader(sampleCSV))

	require.NoError(t, err)
	require.Len(t, obs, 4)
	assert.Equal(t, 9, obs[0].Arrival.Hour())
	assert.Equal(t, 30, obs[1].Arrival.Minute())
	assert.True(t, math.IsNaN(obs[1].WaitMinutes))
	assert.True(t, math.IsNaN(obs[2].DocCheckMinutes))
	assert.True(t, math.IsNaN(obs[3].ServiceMinutes))
	assert.Equal(t, "C2", obs[3].CounterID)
}

func TestSummarize_DerivesSimulationInputs(t *testing.T) {
	// GIVEN four arrivals between 09:00 and 11:00
	obs, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	s, err := Summarize(obs)

	// THEN rate and means come from the window and the non-missing cells
	require.NoError(t, err)
	assert.Equal(t, 4, s.Observations)
	assert.InDelta(t, 2.0, s.ObservationHours, 1e-12)
	assert.InDelta(t, 2.0, s.ArrivalRatePerHour, 1e-12)
	assert.InDelta(t, 3.0, s.AvgDocCheckMinutes, 1e-12)
	assert.InDelta(t, 5.0, s.AvgServiceMinutes, 1e-12)
	assert.InDelta(t, 10.0, s.AvgWaitMinutes, 1e-12)

	// AND the descriptive aggregates are per hour and per counter
	assert.Equal(t, []int{9, 10, 11}, s.Hours())
	assert.Equal(t, map[int]int{9: 2, 10: 1, 11: 1}, s.HourlyArrivals)
	assert.Equal(t, []string{"C1", "C2"}, s.Counters())
	assert.InDelta(t, 11.0/120.0, s.CounterUtilization["C1"], 1e-12)
	assert.InDelta(t, 4.0/120.0, s.CounterUtilization["C2"], 1e-12)
}

func TestSummarize_AllMissingColumnIsNaN(t *testing.T) {
	obs, err := Parse(strings.NewReader("Arrival_Time,Document_Check_Duration(min),Registration_Service_Duration(min)\n08:00,,3\n09:00,,5\n"))
	require.NoError(t, err)

	s, err := Summarize(obs)

	require.NoError(t, err)
	assert.True(t, math.IsNaN(s.AvgDocCheckMinutes))
	assert.True(t, math.IsNaN(s.AvgWaitMinutes))
	assert.InDelta(t, 4.0, s.AvgServiceMinutes, 1e-12)
	assert.Empty(t, s.CounterUtilization)
}

func TestSummarize_EmptyWindowIsAnError(t *testing.T) {
	obs, err := Parse(strings.NewReader("Arrival_Time,Document_Check_Duration(min),Registration_Service_Duration(min)\n10:15,2,5\n10:15,3,6\n"))
	require.NoError(t, err)

	_, err = Summarize(obs)
	assert.ErrorContains(t, err, "observation window is empty")

	_, err = Summarize(nil)
	assert.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"empty input", "", "empty"},
		{"header only", "Arrival_Time,Document_Check_Duration(min),Registration_Service_Duration(min)\n", "no observations"},
		{"missing service column", "Arrival_Time,Document_Check_Duration(min)\n09:00,2\n", "Registration_Service_Duration(min)"},
		{"bad arrival time", "Arrival_Time,Document_Check_Duration(min),Registration_Service_Duration(min)\nnine,2,5\n", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.csv))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registration_queue_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	obs, err := Load(path)

	require.NoError(t, err)
	assert.Len(t, obs, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
