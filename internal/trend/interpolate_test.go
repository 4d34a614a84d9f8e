package trend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosedDailyRange(t *testing.T) {
	days, err := ClosedDailyRange(mustDay(t, "2024-02-27"), mustDay(t, "2024-03-02"))
	require.NoError(t, err)
	got := make([]string, 0, len(days))
	for _, d := range days {
		got = append(got, FormatDay(d))
	}
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, got)
}

func TestClosedDailyRange_SingleDay(t *testing.T) {
	days, err := ClosedDailyRange(mustDay(t, "2024-01-01"), mustDay(t, "2024-01-01"))
	require.NoError(t, err)
	assert.Len(t, days, 1)
}

func TestClosedDailyRange_EndBeforeStart(t *testing.T) {
	_, err := ClosedDailyRange(mustDay(t, "2024-01-02"), mustDay(t, "2024-01-01"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestLinearTargetWeights(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		n          int
		want       []float64
	}{
		{"cut", 180, 160, 5, []float64{180, 175, 170, 165, 160}},
		{"bulk", 150, 152, 3, []float64{150, 151, 152}},
		{"single day", 180, 160, 1, []float64{180}},
		{"none", 180, 160, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LinearTargetWeights(tt.start, tt.end, tt.n))
		})
	}
}

func TestLinearTargetWeights_EndpointsExact(t *testing.T) {
	got := LinearTargetWeights(181.3, 170.1, 97)
	require.Len(t, got, 97)
	assert.Equal(t, 181.3, got[0])
	assert.Equal(t, 170.1, got[96])
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i], got[i-1])
	}
}

func TestBuildDailyTargetWeightMap(t *testing.T) {
	m, err := BuildDailyTargetWeightMap(TargetPlan{
		StartDate:   mustDay(t, "2024-01-01"),
		EndDate:     mustDay(t, "2024-01-05"),
		StartWeight: 180,
		EndWeight:   160,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"2024-01-01": 180,
		"2024-01-02": 175,
		"2024-01-03": 170,
		"2024-01-04": 165,
		"2024-01-05": 160,
	}, m)
}

func TestBuildDailyTargetWeightMap_Errors(t *testing.T) {
	_, err := BuildDailyTargetWeightMap(TargetPlan{
		StartDate:   mustDay(t, "2024-01-01"),
		EndDate:     mustDay(t, "2024-01-05"),
		StartWeight: math.NaN(),
		EndWeight:   160,
	})
	assert.ErrorIs(t, err, ErrMissingBaseline)

	_, err = BuildDailyTargetWeightMap(TargetPlan{
		StartDate:   mustDay(t, "2024-01-05"),
		EndDate:     mustDay(t, "2024-01-01"),
		StartWeight: 180,
		EndWeight:   160,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}
