package study

import (
	"errors"
	"math"
	"testing"

	"progeval/domain/core"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := New(
		CategoricalColumn("group", []string{"Program", "Control", "Program", "Control"}),
		NumericColumn("score", []float64{67, 59, math.NaN(), 61}),
		CategoricalColumn("followup", []string{"Yes", "Yes", "No", ""}),
	)
	if err != nil {
		t.Fatalf("build dataset: %v", err)
	}
	return ds
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(); !errors.Is(err, core.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset for no columns, got %v", err)
	}
	if _, err := New(NumericColumn("x", nil)); !errors.Is(err, core.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset for zero rows, got %v", err)
	}
	_, err := New(
		NumericColumn("x", []float64{1, 2}),
		NumericColumn("x", []float64{3, 4}),
	)
	if err == nil {
		t.Fatal("expected error for duplicate column names")
	}
	_, err = New(
		NumericColumn("x", []float64{1, 2}),
		NumericColumn("y", []float64{3}),
	)
	if err == nil {
		t.Fatal("expected error for ragged columns")
	}
}

func TestDataset_TypedAccess(t *testing.T) {
	ds := testDataset(t)

	if _, err := ds.Numeric("nope"); !errors.Is(err, core.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if _, err := ds.Numeric("group"); !errors.Is(err, core.ErrColumnType) {
		t.Fatalf("expected ErrColumnType for categorical column, got %v", err)
	}
	if _, err := ds.Categorical("score"); !errors.Is(err, core.ErrColumnType) {
		t.Fatalf("expected ErrColumnType for numeric column, got %v", err)
	}

	scores, err := ds.Numeric("score")
	if err != nil {
		t.Fatalf("numeric access: %v", err)
	}
	// Mutating the returned slice must not touch the dataset.
	scores[0] = -1
	again, _ := ds.Numeric("score")
	if again[0] != 67 {
		t.Fatalf("dataset mutated through accessor copy: got %v", again[0])
	}
}

func TestDataset_LevelsFirstSeenOrder(t *testing.T) {
	ds := testDataset(t)

	levels, err := ds.Levels("group")
	if err != nil {
		t.Fatalf("levels: %v", err)
	}
	if len(levels) != 2 || levels[0] != "Program" || levels[1] != "Control" {
		t.Fatalf("expected [Program Control], got %v", levels)
	}

	// Missing labels are not levels.
	fu, err := ds.Levels("followup")
	if err != nil {
		t.Fatalf("levels: %v", err)
	}
	if len(fu) != 2 || fu[0] != "Yes" || fu[1] != "No" {
		t.Fatalf("expected [Yes No], got %v", fu)
	}
}

func TestDataset_GroupNumericDropsMissing(t *testing.T) {
	ds := testDataset(t)

	levels, split, err := ds.GroupNumeric("group", "score")
	if err != nil {
		t.Fatalf("group numeric: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %v", levels)
	}
	// The NaN Program score is dropped.
	if got := split["Program"]; len(got) != 1 || got[0] != 67 {
		t.Fatalf("expected Program=[67], got %v", got)
	}
	if got := split["Control"]; len(got) != 2 {
		t.Fatalf("expected 2 Control scores, got %v", got)
	}
}
