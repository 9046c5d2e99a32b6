package schema

import "fmt"

// AxisKey is one bucket on a heatmap axis.
// Rubric comments carry their id so that identical texts stay distinct buckets.
type AxisKey struct {
	Label string
	ID    int64
	HasID bool
}

// ScalarKey returns a key identified by its label alone.
func ScalarKey(label string) AxisKey {
	return AxisKey{Label: label}
}

// RubricKey returns a key identified by the (text, id) pair of a rubric comment.
func RubricKey(text string, id int64) AxisKey {
	return AxisKey{Label: text, ID: id, HasID: true}
}

// String renders the key the way it is displayed on a heatmap axis.
func (k AxisKey) String() string {
	if k.HasID {
		return fmt.Sprintf("%s --- %d", k.Label, k.ID)
	}
	return k.Label
}

// HeatmapTable is a sparse cross tabulation: row key -> column key -> count.
// Cells that were never incremented are absent, so every stored count is at least 1.
type HeatmapTable map[AxisKey]map[AxisKey]int

// Add increments the cell (row, col) by one.
func (t HeatmapTable) Add(row, col AxisKey) {
	inner, ok := t[row]
	if !ok {
		inner = make(map[AxisKey]int)
		t[row] = inner
	}
	inner[col]++
}

// Get returns the count stored at (row, col), or zero.
func (t HeatmapTable) Get(row, col AxisKey) int {
	return t[row][col]
}

// Total returns the sum of all stored counts.
func (t HeatmapTable) Total() int {
	total := 0
	for _, inner := range t {
		for _, n := range inner {
			total += n
		}
	}
	return total
}

// DenseTable is the zero-filled, sorted projection of a HeatmapTable.
// Counts[i][j] is the count for (Rows[i], Columns[j]).
type DenseTable struct {
	RowAxis    Axis
	ColumnAxis Axis
	Rows       []string
	Columns    []string
	Counts     [][]int
}

// Empty reports whether the table has no cells.
func (d DenseTable) Empty() bool {
	return len(d.Rows) == 0 || len(d.Columns) == 0
}

// At returns the count for the displayed labels (row, col), or zero when either is unknown.
func (d DenseTable) At(row, col string) int {
	i := indexOf(d.Rows, row)
	j := indexOf(d.Columns, col)
	if i < 0 || j < 0 {
		return 0
	}
	return d.Counts[i][j]
}

// Max returns the largest cell value.
func (d DenseTable) Max() int {
	m := 0
	for _, row := range d.Counts {
		for _, n := range row {
			m = max(m, n)
		}
	}
	return m
}

// Total returns the sum of all cells.
func (d DenseTable) Total() int {
	total := 0
	for _, row := range d.Counts {
		for _, n := range row {
			total += n
		}
	}
	return total
}

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}
