package stats

import (
	"fmt"
	"math"

	"progeval/domain/core"
)

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// TestResult holds the outcome of a single significance test.
// INVARIANTS:
// - PValue always present (0.0 to 1.0)
// - DF > 0 for any distribution-based test
type TestResult struct {
	Method    string  `json:"method"`    // e.g. "welch_ttest", "chi_square_yates"
	Statistic float64 `json:"statistic"` // t or chi-squared value
	DF        float64 `json:"df"`        // degrees of freedom (fractional for Welch)
	PValue    float64 `json:"p_value"`   // two-tailed, uncorrected
}

// EffectSize is a standardized magnitude with its interpretation band.
type EffectSize struct {
	Measure string  `json:"measure"` // "d", "phi", "cramers_v"
	Value   float64 `json:"value"`
	Band    Band    `json:"band"`
}

// Band is the conventional interpretation label for an effect size.
type Band string

const (
	BandSmall  Band = "small"
	BandMedium Band = "medium"
	BandLarge  Band = "large"
)

// BandScale holds the reference points of an interpretation convention.
// Classification cuts at the midpoints between adjacent references, so the
// Cohen scale {0.2, 0.5, 0.8} labels |v| < 0.35 small and |v| > 0.65 large.
// Different literatures use different references, so scales are passed in,
// never hardcoded by the testers.
type BandScale struct {
	Small  float64 `json:"small"`
	Medium float64 `json:"medium"`
	Large  float64 `json:"large"`
}

// Conventional reference scales.
var (
	CohenScale = BandScale{Small: 0.2, Medium: 0.5, Large: 0.8} // standardized mean differences
	PhiScale   = BandScale{Small: 0.1, Medium: 0.3, Large: 0.5} // 2x2 association strength
)

// IsZero reports whether the scale was left unset by the caller.
func (s BandScale) IsZero() bool {
	return s.Small == 0 && s.Medium == 0 && s.Large == 0
}

// Validate checks that the references are ordered and positive.
func (s BandScale) Validate() error {
	if !(0 < s.Small && s.Small < s.Medium && s.Medium < s.Large) {
		return fmt.Errorf("%w: band scale references must satisfy 0 < small < medium < large, got %g/%g/%g",
			core.ErrOutOfRangeParameter, s.Small, s.Medium, s.Large)
	}
	return nil
}

// Classify maps an effect magnitude to its band. Sign is ignored.
func (s BandScale) Classify(value float64) Band {
	v := math.Abs(value)
	switch {
	case v < (s.Small+s.Medium)/2:
		return BandSmall
	case v < (s.Medium+s.Large)/2:
		return BandMedium
	default:
		return BandLarge
	}
}

// NewEffectSize builds an effect size classified against the given scale.
func NewEffectSize(measure string, value float64, scale BandScale) EffectSize {
	return EffectSize{Measure: measure, Value: value, Band: scale.Classify(value)}
}

// Warning represents a non-fatal caveat surfaced alongside a valid result.
type Warning string

const (
	// WarningLowExpectedCount flags expected cell counts below 5; the
	// chi-squared p-value is still defined but its reliability is degraded.
	WarningLowExpectedCount Warning = "LOW_EXPECTED_COUNT"
)

// ============================================================================
// POWER ANALYSIS
// ============================================================================

// PowerParameter names one of the four quantities tied together by a
// two-sample power analysis.
type PowerParameter string

const (
	ParamEffectSize PowerParameter = "effect_size"
	ParamAlpha      PowerParameter = "alpha"
	ParamPower      PowerParameter = "power"
	ParamSampleSize PowerParameter = "sample_size"
)

// PowerResult carries all four resolved quantities plus which one was solved.
type PowerResult struct {
	Solved     PowerParameter `json:"solved"`
	EffectSize float64        `json:"effect_size"`
	Alpha      float64        `json:"alpha"`
	Power      float64        `json:"power"`
	SampleSize int            `json:"sample_size"` // per group
}

// ============================================================================
// DESCRIPTIVE SUMMARIES
// ============================================================================

// ColumnSummary holds per-group statistics for one numeric column.
type ColumnSummary struct {
	Column string  `json:"column"`
	N      int     `json:"n"` // usable (non-missing) records
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// GroupSummary holds summaries for one group across the requested columns.
// Groups appear in first-seen dataset order.
type GroupSummary struct {
	Group   string          `json:"group"`
	Columns []ColumnSummary `json:"columns"`
}

// ============================================================================
// TEST ARTIFACTS
// ============================================================================

// GroupStats are the per-group moments behind a mean comparison.
type GroupStats struct {
	Group  string  `json:"group"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// MeanComparison is the artifact of a two-sample mean-difference test.
// Sign convention: the effect is computed as Groups[0] minus Groups[1],
// where Groups[0] is the first group label seen in the dataset.
type MeanComparison struct {
	Outcome string        `json:"outcome"` // column under test
	Groups  [2]GroupStats `json:"groups"`
	Test    TestResult    `json:"test"`
	Effect  EffectSize    `json:"effect"`
}

// ContingencyTable is an observed cross-tabulation of two categorical
// columns. Levels appear in first-seen dataset order.
type ContingencyTable struct {
	RowColumn string   `json:"row_column"`
	ColColumn string   `json:"col_column"`
	RowLevels []string `json:"row_levels"`
	ColLevels []string `json:"col_levels"`
	Counts    [][]int  `json:"counts"` // Counts[i][j] for RowLevels[i] x ColLevels[j]
	Total     int      `json:"total"`
}

// IsTwoByTwo reports whether the table is 2x2.
func (t ContingencyTable) IsTwoByTwo() bool {
	return len(t.RowLevels) == 2 && len(t.ColLevels) == 2
}

// RowTotals returns the marginal totals by row.
func (t ContingencyTable) RowTotals() []int {
	totals := make([]int, len(t.RowLevels))
	for i, row := range t.Counts {
		for _, c := range row {
			totals[i] += c
		}
	}
	return totals
}

// ColTotals returns the marginal totals by column.
func (t ContingencyTable) ColTotals() []int {
	totals := make([]int, len(t.ColLevels))
	for _, row := range t.Counts {
		for j, c := range row {
			totals[j] += c
		}
	}
	return totals
}

// Association is the artifact of a categorical independence test.
type Association struct {
	Table    ContingencyTable `json:"table"`
	Test     TestResult       `json:"test"`
	Effect   EffectSize       `json:"effect"`
	Warnings []Warning        `json:"warnings,omitempty"`
}

// ============================================================================
// CONSTRUCTORS
// ============================================================================

// NewTestResult creates a test result with validation.
func NewTestResult(method string, statistic, df, pValue float64) (TestResult, error) {
	if pValue < 0 || pValue > 1 || math.IsNaN(pValue) {
		return TestResult{}, fmt.Errorf("p-value must be in [0, 1], got %g", pValue)
	}
	if df <= 0 {
		return TestResult{}, fmt.Errorf("degrees of freedom must be > 0, got %g", df)
	}
	return TestResult{Method: method, Statistic: statistic, DF: df, PValue: pValue}, nil
}

// Significant reports whether the test rejects at the given level.
func (r TestResult) Significant(alpha float64) bool {
	return r.PValue < alpha
}
