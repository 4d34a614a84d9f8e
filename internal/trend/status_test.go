package trend

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightStatus(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		target float64
		dir    Direction
		want   Status
	}{
		{"gaining at target", 150, 150, Gaining, OnTrack},
		{"gaining within half pound", 149.5, 150, Gaining, OnTrack},
		{"gaining within pound and a half", 148.5, 150, Gaining, AtRisk},
		{"gaining far behind", 148.4, 150, Gaining, OffTrack},
		{"gaining ahead", 155, 150, Gaining, OnTrack},
		{"cutting at target", 150, 150, Cutting, OnTrack},
		{"cutting within half pound", 150.5, 150, Cutting, OnTrack},
		{"cutting within pound and a half", 151.5, 150, Cutting, AtRisk},
		{"cutting far behind", 151.6, 150, Cutting, OffTrack},
		{"cutting ahead", 145, 150, Cutting, OnTrack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeightStatus(Float(tt.weight), tt.target, tt.dir))
		})
	}
}

func TestWeightStatus_Symmetric(t *testing.T) {
	const target = 170.0
	for _, d := range []float64{0, 0.25, 0.5, 0.75, 1, 1.5, 2, 10} {
		gain := WeightStatus(Float(target-d), target, Gaining)
		cut := WeightStatus(Float(target+d), target, Cutting)
		assert.Equal(t, gain, cut, "distance %v", d)
	}
}

func TestCalorieStatus_Cutting(t *testing.T) {
	const target = 2000.0
	assert.Equal(t, OnTrack, CalorieStatus(Float(1500), target, Cutting))
	assert.Equal(t, OnTrack, CalorieStatus(Float(2100), target, Cutting))
	assert.Equal(t, AtRisk, CalorieStatus(Float(2101), target, Cutting))
	assert.Equal(t, AtRisk, CalorieStatus(Float(2300), target, Cutting))
	assert.Equal(t, OffTrack, CalorieStatus(Float(2301), target, Cutting))
}

func TestCalorieStatus_Gaining(t *testing.T) {
	const target = 2100.0
	assert.Equal(t, OnTrack, CalorieStatus(Float(2000), target, Gaining))
	assert.Equal(t, AtRisk, CalorieStatus(Float(1900), target, Gaining))
	assert.Equal(t, OffTrack, CalorieStatus(Float(1800), target, Gaining))
}

func TestProteinAndExerciseStatus(t *testing.T) {
	assert.Equal(t, OnTrack, ProteinStatus(Float(30), 30))
	assert.Equal(t, OnTrack, ProteinStatus(Float(27), 30))
	assert.Equal(t, AtRisk, ProteinStatus(Float(24), 30))
	assert.Equal(t, OffTrack, ProteinStatus(Float(20), 30))

	assert.Equal(t, OnTrack, ExerciseStatus(Float(6), 7))
	assert.Equal(t, AtRisk, ExerciseStatus(Float(4), 7))
	assert.Equal(t, OffTrack, ExerciseStatus(Float(3), 7))
}

func TestStatus_AbsentIsNoData(t *testing.T) {
	assert.Equal(t, NoData, WeightStatus(nil, 150, Gaining))
	assert.Equal(t, NoData, CalorieStatus(nil, 2000, Cutting))
	assert.Equal(t, NoData, ProteinStatus(Float(math.NaN()), 30))
	assert.Equal(t, NoData, ExerciseStatus(nil, 7))

	// Zero is a value: zero exercise days with logged days is off track.
	assert.Equal(t, OffTrack, ExerciseStatus(Float(0), 7))
}

func TestStatus_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]Status{"s": AtRisk})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"At Risk"}`, string(b))

	var s Status
	require.NoError(t, json.Unmarshal([]byte(`"No Data"`), &s))
	assert.Equal(t, NoData, s)
	assert.Error(t, json.Unmarshal([]byte(`"Great"`), &s))
	assert.True(t, OnTrack.Win())
	assert.False(t, AtRisk.Win())
}

func TestDayBands(t *testing.T) {
	assert.Equal(t, BandLow, CalorieBand(Float(1599), 2000))
	assert.Equal(t, BandTarget, CalorieBand(Float(1600), 2000))
	assert.Equal(t, BandTarget, CalorieBand(Float(2400), 2000))
	assert.Equal(t, BandHigh, CalorieBand(Float(2401), 2000))
	assert.Equal(t, BandNoData, CalorieBand(nil, 2000))

	assert.Equal(t, BandTarget, ProteinBand(Float(27), 30))
	assert.Equal(t, BandMiss, ProteinBand(Float(26), 30))

	assert.Equal(t, BandHigh, ExerciseBand(Float(0)))
	assert.Equal(t, BandLow, ExerciseBand(Float(30)))
	assert.Equal(t, BandTarget, ExerciseBand(Float(60)))
	assert.Equal(t, BandNoData, ExerciseBand(nil))
}
