package study

import (
	"fmt"
	"math"

	"progeval/domain/core"
)

// ColumnKind classifies what a column can hold.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// Column is one named series of a dataset. Missing values are NaN in numeric
// columns and "" in categorical columns.
type Column struct {
	name   string
	kind   ColumnKind
	nums   []float64
	labels []string
}

// NumericColumn builds a numeric column. The input slice is copied.
func NumericColumn(name string, values []float64) Column {
	nums := make([]float64, len(values))
	copy(nums, values)
	return Column{name: name, kind: KindNumeric, nums: nums}
}

// CategoricalColumn builds a categorical column. The input slice is copied.
func CategoricalColumn(name string, values []string) Column {
	labels := make([]string, len(values))
	copy(labels, values)
	return Column{name: name, kind: KindCategorical, labels: labels}
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Kind returns the column kind.
func (c Column) Kind() ColumnKind { return c.kind }

func (c Column) len() int {
	if c.kind == KindNumeric {
		return len(c.nums)
	}
	return len(c.labels)
}

// Dataset is an immutable, column-oriented table of subject records. All
// analyses are read-only queries over it; accessors hand out copies so the
// backing data can never be mutated after construction.
type Dataset struct {
	n     int
	cols  []Column
	index map[string]int
}

// New builds a dataset from columns. All columns must be non-empty, equal
// length, and uniquely named.
func New(cols ...Column) (*Dataset, error) {
	if len(cols) == 0 {
		return nil, core.ErrEmptyDataset
	}

	n := cols[0].len()
	if n == 0 {
		return nil, core.ErrEmptyDataset
	}

	index := make(map[string]int, len(cols))
	for i, col := range cols {
		if col.name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, dup := index[col.name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.name)
		}
		if col.len() != n {
			return nil, fmt.Errorf("column %q has %d records, expected %d", col.name, col.len(), n)
		}
		index[col.name] = i
	}

	return &Dataset{n: n, cols: cols, index: index}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return d.n }

// ColumnNames returns column names in definition order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.name
	}
	return names
}

// Kind reports the kind of a named column.
func (d *Dataset) Kind(name string) (ColumnKind, error) {
	i, ok := d.index[name]
	if !ok {
		return "", core.NewMissingColumnError(name)
	}
	return d.cols[i].kind, nil
}

// Numeric returns a copy of a numeric column's values. NaN marks missing.
func (d *Dataset) Numeric(name string) ([]float64, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, core.NewMissingColumnError(name)
	}
	col := d.cols[i]
	if col.kind != KindNumeric {
		return nil, core.NewColumnTypeError(name, string(KindNumeric), string(col.kind))
	}
	out := make([]float64, len(col.nums))
	copy(out, col.nums)
	return out, nil
}

// Categorical returns a copy of a categorical column's labels. "" marks missing.
func (d *Dataset) Categorical(name string) ([]string, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, core.NewMissingColumnError(name)
	}
	col := d.cols[i]
	if col.kind != KindCategorical {
		return nil, core.NewColumnTypeError(name, string(KindCategorical), string(col.kind))
	}
	out := make([]string, len(col.labels))
	copy(out, col.labels)
	return out, nil
}

// Levels returns the distinct non-missing labels of a categorical column in
// first-seen order. This order is the deterministic group order used by every
// analysis downstream.
func (d *Dataset) Levels(name string) ([]string, error) {
	labels, err := d.Categorical(name)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var levels []string
	for _, l := range labels {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		levels = append(levels, l)
	}
	return levels, nil
}

// GroupNumeric splits a numeric column by a categorical grouping column,
// dropping records where either side is missing. Keys follow Levels order.
func (d *Dataset) GroupNumeric(groupCol, valueCol string) ([]string, map[string][]float64, error) {
	groups, err := d.Categorical(groupCol)
	if err != nil {
		return nil, nil, err
	}
	values, err := d.Numeric(valueCol)
	if err != nil {
		return nil, nil, err
	}

	levels, err := d.Levels(groupCol)
	if err != nil {
		return nil, nil, err
	}

	split := make(map[string][]float64, len(levels))
	for _, l := range levels {
		split[l] = nil
	}
	for i, g := range groups {
		if g == "" || math.IsNaN(values[i]) {
			continue
		}
		split[g] = append(split[g], values[i])
	}
	return levels, split, nil
}
