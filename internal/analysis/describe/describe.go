// Package describe computes per-group summaries of numeric columns. It is a
// pure read over the dataset; group order is first-seen order.
package describe

import (
	"math"

	"github.com/montanaflynn/stats"

	"progeval/domain/core"
	domstats "progeval/domain/stats"
	"progeval/domain/study"
)

// Summarize computes N, mean, standard deviation, min and max of each value
// column within each level of the grouping column. Missing values are
// excluded, never imputed. A group with no usable values for a requested
// column fails with ErrEmptyGroup.
func Summarize(ds *study.Dataset, groupCol string, valueCols ...string) ([]domstats.GroupSummary, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, core.ErrEmptyDataset
	}
	if len(valueCols) == 0 {
		return nil, core.NewMissingColumnError("(no value columns requested)")
	}

	levels, err := ds.Levels(groupCol)
	if err != nil {
		return nil, err
	}

	// Split every requested column up front so a bad column name fails before
	// any partial result exists.
	splits := make(map[string]map[string][]float64, len(valueCols))
	for _, col := range valueCols {
		_, split, err := ds.GroupNumeric(groupCol, col)
		if err != nil {
			return nil, err
		}
		splits[col] = split
	}

	summaries := make([]domstats.GroupSummary, 0, len(levels))
	for _, level := range levels {
		gs := domstats.GroupSummary{Group: level}
		for _, col := range valueCols {
			values := splits[col][level]
			if len(values) == 0 {
				return nil, core.NewEmptyGroupError(level, col)
			}
			gs.Columns = append(gs.Columns, summarizeColumn(col, values))
		}
		summaries = append(summaries, gs)
	}
	return summaries, nil
}

func summarizeColumn(name string, values []float64) domstats.ColumnSummary {
	mean, _ := stats.Mean(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	// Sample standard deviation; undefined below two records.
	sd := math.NaN()
	if len(values) >= 2 {
		sd, _ = stats.StandardDeviationSample(values)
	}

	return domstats.ColumnSummary{
		Column: name,
		N:      len(values),
		Mean:   mean,
		StdDev: sd,
		Min:    min,
		Max:    max,
	}
}
