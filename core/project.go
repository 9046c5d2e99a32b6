package core

import (
	"maps"
	"slices"
	"strings"

	"github.com/cpheatmap/cpheatmap/schema"
)

// Normalizer maps an axis key to the label displayed for it.
type Normalizer func(schema.AxisKey) string

// ProjectOption customizes a projection.
type ProjectOption func(*projectOptions)

type projectOptions struct {
	row Normalizer
	col Normalizer
}

// WithRowNormalizer sets the label function of the row axis. The default is RowNormalizer(row).
func WithRowNormalizer(fn Normalizer) ProjectOption {
	return func(o *projectOptions) {
		if fn != nil {
			o.row = fn
		}
	}
}

// WithColumnNormalizer sets the label function of the column axis. The default is Label.
func WithColumnNormalizer(fn Normalizer) ProjectOption {
	return func(o *projectOptions) {
		if fn != nil {
			o.col = fn
		}
	}
}

// Label displays a key unchanged.
func Label(k schema.AxisKey) string {
	return k.String()
}

// StripQualifier drops everything from the first '@', so "alice@school.edu" displays as "alice".
func StripQualifier(k schema.AxisKey) string {
	label := k.String()
	if i := strings.IndexByte(label, '@'); i >= 0 {
		return label[:i]
	}
	return label
}

// RowNormalizer is the default row label function of an axis. Only grader emails lose
// their qualifier; section names and rubric keys are shown as they are, so distinct
// rubric comments never share a row.
func RowNormalizer(axis schema.Axis) Normalizer {
	if axis == schema.GradersAxis {
		return StripQualifier
	}
	return Label
}

// Project converts a sparse heatmap into a dense table.
//
// Rows and columns are the unions of the normalized labels, sorted lexicographically, and
// every pair absent from the sparse table is zero. Keys that normalize to the same label
// have their counts summed. An empty heatmap projects to an empty table.
func Project(table schema.HeatmapTable, row, col schema.Axis, opts ...ProjectOption) schema.DenseTable {
	o := projectOptions{row: RowNormalizer(row), col: Label}
	for _, opt := range opts {
		opt(&o)
	}

	sums := make(map[string]map[string]int, len(table))
	colSet := make(map[string]struct{})
	for rk, inner := range table {
		rl := o.row(rk)
		cells, ok := sums[rl]
		if !ok {
			cells = make(map[string]int, len(inner))
			sums[rl] = cells
		}
		for ck, n := range inner {
			cl := o.col(ck)
			cells[cl] += n
			colSet[cl] = struct{}{}
		}
	}

	dense := schema.DenseTable{
		RowAxis:    row,
		ColumnAxis: col,
		Rows:       slices.Sorted(maps.Keys(sums)),
		Columns:    slices.Sorted(maps.Keys(colSet)),
	}
	dense.Counts = make([][]int, len(dense.Rows))
	for i, rl := range dense.Rows {
		dense.Counts[i] = make([]int, len(dense.Columns))
		for j, cl := range dense.Columns {
			dense.Counts[i][j] = sums[rl][cl]
		}
	}
	return dense
}
