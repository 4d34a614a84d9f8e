package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_ConvertWeights(t *testing.T) {
	r, err := BuildReport(gainingInput(t, sampleDays()))
	require.NoError(t, err)

	status := r.Overview.Weight.Status
	win, warning := r.Weight.Average.Win, r.Weight.Average.Warning
	weighIns := *r.Weight.WeighIns.Current

	r.ConvertWeights(func(lbs float64) float64 { return lbs * 2 })

	assert.Equal(t, 300.2, *r.Weight.Average.Current)
	assert.Equal(t, 304.6, *r.Weight.Average.Previous)
	assert.Equal(t, -4.4, *r.Weight.Average.Delta)
	assert.Equal(t, 302.0, *r.Weight.Top.Current)
	assert.Equal(t, 298.0, *r.Weight.Bottom.Current)

	// Classification and counts keep their pound-based values.
	assert.Equal(t, status, r.Overview.Weight.Status)
	assert.Equal(t, win, r.Weight.Average.Win)
	assert.Equal(t, warning, r.Weight.Average.Warning)
	assert.Equal(t, weighIns, *r.Weight.WeighIns.Current)

	for _, rg := range r.Weight.Ranges {
		if rg.Min != nil {
			assert.Greater(t, *rg.Min, 290.0)
		}
	}
	for _, d := range r.Weight.IntraWeek {
		if d.Value != nil {
			assert.Greater(t, *d.Value, 290.0)
		}
	}
}

func TestReport_ConvertWeightsKeepsAbsence(t *testing.T) {
	r := &Report{}
	r.ConvertWeights(func(lbs float64) float64 { return lbs / 2 })
	assert.Nil(t, r.Overview.Weight.Actual)
	assert.Nil(t, r.Weight.Average.Current)
	assert.Nil(t, r.Weight.Average.Delta)
}
