package core

import (
	"iter"

	"github.com/cpheatmap/cpheatmap/schema"
)

// Aggregate folds comments into a sparse heatmap keyed by the row and column axes.
//
// Every comment resolves to one column key and to a set of row keys; the cell of each
// (row, column) pair is incremented once. Axes are validated before the first record is
// read, so a bad selection fails even on empty input. A comment without a rubric comment,
// or without an author when graders are selected, fails the whole call.
func Aggregate(records iter.Seq[schema.Comment], row, col schema.Axis, leaders map[string]string) (schema.HeatmapTable, error) {
	if err := ValidateAxes(row, col, leaders); err != nil {
		return nil, err
	}

	table := schema.HeatmapTable{}
	for c := range records {
		if c.RubricComment == nil {
			return nil, &schema.DataIntegrityError{CommentID: c.ID, Field: "rubricComment"}
		}

		cols, err := Resolve(col, c, leaders)
		if err != nil {
			return nil, err
		}
		rows, err := Resolve(row, c, leaders)
		if err != nil {
			return nil, err
		}

		for _, r := range rows {
			table.Add(r, cols[0])
		}
	}
	return table, nil
}
