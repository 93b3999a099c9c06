package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandScale_Classify(t *testing.T) {
	tests := []struct {
		name  string
		scale BandScale
		value float64
		want  Band
	}{
		{"cohen small", CohenScale, 0.1, BandSmall},
		{"cohen just under small cut", CohenScale, 0.34, BandSmall},
		{"cohen medium", CohenScale, 0.5, BandMedium},
		{"cohen just under large cut", CohenScale, 0.64, BandMedium},
		{"cohen large", CohenScale, 0.8, BandLarge},
		{"sign ignored", CohenScale, -0.8, BandLarge},
		{"phi small", PhiScale, 0.05, BandSmall},
		{"phi medium", PhiScale, 0.21, BandMedium},
		{"phi large", PhiScale, 0.45, BandLarge},
		{"custom scale shifts cuts", BandScale{Small: 0.1, Medium: 0.2, Large: 0.3}, 0.21, BandMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scale.Classify(tt.value))
		})
	}
}

func TestBandScale_Validate(t *testing.T) {
	require.NoError(t, CohenScale.Validate())
	require.NoError(t, PhiScale.Validate())

	assert.Error(t, BandScale{}.Validate())
	assert.Error(t, BandScale{Small: 0.5, Medium: 0.2, Large: 0.8}.Validate())
	assert.Error(t, BandScale{Small: -0.1, Medium: 0.2, Large: 0.8}.Validate())
}

func TestNewTestResult_Validation(t *testing.T) {
	_, err := NewTestResult("welch_ttest", 2.0, 10, 1.5)
	assert.Error(t, err)

	_, err = NewTestResult("welch_ttest", 2.0, 0, 0.05)
	assert.Error(t, err)

	res, err := NewTestResult("welch_ttest", 2.0, 10, 0.05)
	require.NoError(t, err)
	assert.True(t, res.Significant(0.10))
	assert.False(t, res.Significant(0.05))
}

func TestContingencyTable_Marginals(t *testing.T) {
	table := ContingencyTable{
		RowLevels: []string{"Program", "Control"},
		ColLevels: []string{"Yes", "No"},
		Counts:    [][]int{{58, 6}, {48, 16}},
		Total:     128,
	}

	assert.True(t, table.IsTwoByTwo())
	assert.Equal(t, []int{64, 64}, table.RowTotals())
	assert.Equal(t, []int{106, 22}, table.ColTotals())
}
