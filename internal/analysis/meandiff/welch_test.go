package meandiff

import (
	"errors"
	"math"
	"testing"

	"progeval/domain/core"
	"progeval/domain/stats"
	"progeval/domain/study"
	"progeval/internal/studygen"
)

// The canonical prevention study: posttest means 59.4 (Control) vs 67.3
// (Program) with SD 12.5 in both arms of 64 gives d close to 0.63 and a
// p-value far below 0.05.
func TestCompare_CanonicalPosttest(t *testing.T) {
	ds, err := studygen.Generate(studygen.DefaultConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	res, err := Compare(ds, studygen.ColGroup, studygen.ColPosttest, stats.BandScale{})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	if res.Groups[0].Group != "Control" || res.Groups[1].Group != "Program" {
		t.Fatalf("expected first-seen order [Control Program], got %+v", res.Groups)
	}

	// Control minus Program: the program arm scores higher, so d is negative.
	if math.Abs(res.Effect.Value-(-0.632)) > 0.005 {
		t.Fatalf("expected d near -0.632, got %.4f", res.Effect.Value)
	}
	if res.Effect.Band != stats.BandMedium {
		t.Fatalf("expected medium band on the Cohen scale, got %s", res.Effect.Band)
	}
	if res.Test.PValue >= 0.01 {
		t.Fatalf("expected p-value well below 0.05, got %.5f", res.Test.PValue)
	}
	// Equal sizes and variances collapse Welch df to 2n-2.
	if math.Abs(res.Test.DF-126) > 0.01 {
		t.Fatalf("expected df 126, got %.2f", res.Test.DF)
	}
}

func TestCompare_BaselineIsNull(t *testing.T) {
	ds, err := studygen.Generate(studygen.DefaultConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Pretest means differ by only 0.5 points; nothing to detect.
	res, err := Compare(ds, studygen.ColGroup, studygen.ColPretest, stats.BandScale{})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if res.Test.PValue < 0.05 {
		t.Fatalf("baseline comparison should not be significant, got p=%.4f", res.Test.PValue)
	}
	if res.Effect.Band != stats.BandSmall {
		t.Fatalf("expected small baseline effect, got %s (d=%.3f)", res.Effect.Band, res.Effect.Value)
	}
}

func TestCompare_SwappingGroupsNegatesD(t *testing.T) {
	cfg := studygen.DefaultConfig()
	forward, err := studygen.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	cfg.Groups[0], cfg.Groups[1] = cfg.Groups[1], cfg.Groups[0]
	reversed, err := studygen.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	a, err := Compare(forward, studygen.ColGroup, studygen.ColPosttest, stats.BandScale{})
	if err != nil {
		t.Fatalf("compare forward: %v", err)
	}
	b, err := Compare(reversed, studygen.ColGroup, studygen.ColPosttest, stats.BandScale{})
	if err != nil {
		t.Fatalf("compare reversed: %v", err)
	}

	if math.Abs(a.Effect.Value+b.Effect.Value) > 1e-9 {
		t.Fatalf("expected negated d: %.6f vs %.6f", a.Effect.Value, b.Effect.Value)
	}
	if math.Abs(a.Test.PValue-b.Test.PValue) > 1e-12 {
		t.Fatalf("p-value must survive a group swap: %.9f vs %.9f", a.Test.PValue, b.Test.PValue)
	}
}

func TestCompare_UnequalVariances(t *testing.T) {
	// Welch must handle a tight group against a noisy one; df drops below
	// 2n-2 when variances diverge.
	tight := studygen.ExactScores(50, 2, 30)
	noisy := studygen.ExactScores(60, 15, 30)

	groups := make([]string, 0, 60)
	values := make([]float64, 0, 60)
	for _, v := range tight {
		groups = append(groups, "A")
		values = append(values, v)
	}
	for _, v := range noisy {
		groups = append(groups, "B")
		values = append(values, v)
	}

	ds, err := study.New(
		study.CategoricalColumn("group", groups),
		study.NumericColumn("score", values),
	)
	if err != nil {
		t.Fatalf("build dataset: %v", err)
	}

	res, err := Compare(ds, "group", "score", stats.BandScale{})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if res.Test.DF >= 58 {
		t.Fatalf("expected Welch df below 58 for unequal variances, got %.2f", res.Test.DF)
	}
	if res.Test.PValue >= 0.05 {
		t.Fatalf("expected significant difference, got p=%.4f", res.Test.PValue)
	}
}

func TestCompare_CustomScaleChangesBand(t *testing.T) {
	ds, err := studygen.Generate(studygen.DefaultConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// A literature that calls anything above 0.3 large.
	strict := stats.BandScale{Small: 0.05, Medium: 0.15, Large: 0.3}
	res, err := Compare(ds, studygen.ColGroup, studygen.ColPosttest, strict)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if res.Effect.Band != stats.BandLarge {
		t.Fatalf("expected large band on strict scale, got %s", res.Effect.Band)
	}
}

func TestCompare_Errors(t *testing.T) {
	three, err := study.New(
		study.CategoricalColumn("group", []string{"A", "B", "C", "A", "B", "C"}),
		study.NumericColumn("score", []float64{1, 2, 3, 4, 5, 6}),
	)
	if err != nil {
		t.Fatalf("build dataset: %v", err)
	}
	if _, err := Compare(three, "group", "score", stats.BandScale{}); !errors.Is(err, core.ErrGroupCount) {
		t.Fatalf("expected ErrGroupCount for three groups, got %v", err)
	}

	thin, err := study.New(
		study.CategoricalColumn("group", []string{"A", "A", "B"}),
		study.NumericColumn("score", []float64{1, 2, 3}),
	)
	if err != nil {
		t.Fatalf("build dataset: %v", err)
	}
	if _, err := Compare(thin, "group", "score", stats.BandScale{}); !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for singleton group, got %v", err)
	}

	ds, err := studygen.Generate(studygen.DefaultConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Compare(ds, studygen.ColGroup, "nope", stats.BandScale{}); !errors.Is(err, core.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	bad := stats.BandScale{Small: 0.5, Medium: 0.2, Large: 0.8}
	if _, err := Compare(ds, studygen.ColGroup, studygen.ColPosttest, bad); !errors.Is(err, core.ErrOutOfRangeParameter) {
		t.Fatalf("expected ErrOutOfRangeParameter for bad scale, got %v", err)
	}
}
