// Package parquet exports heatmap cells to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/parquet-go/parquet-go"
)

// HeatmapCell is one (row, column) cell of a dense heatmap, zero cells included.
type HeatmapCell struct {
	// RunID identifies the heatmap run that produced the cell
	RunID string `parquet:"run_id,snappy"`

	// AssignmentID is the codePost assignment the comments belong to
	AssignmentID int64 `parquet:"assignment_id,snappy"`

	// RowAxis and ColumnAxis are the axis selectors, e.g. "graders" and "rubricComments"
	RowAxis    string `parquet:"row_axis,dict,snappy"`
	ColumnAxis string `parquet:"column_axis,dict,snappy"`

	// RowLabel and ColumnLabel are the displayed keys
	RowLabel    string `parquet:"row_label,dict,snappy"`
	ColumnLabel string `parquet:"column_label,snappy"`

	// Count is the number of comments in the cell
	Count int32 `parquet:"count,snappy"`

	// GeneratedAt is when the heatmap was projected
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// CellsFromDense flattens a dense table into row-major cells.
func CellsFromDense(dense schema.DenseTable, meta schema.RunMeta, generatedAt time.Time) []HeatmapCell {
	cells := make([]HeatmapCell, 0, len(dense.Rows)*len(dense.Columns))
	for i, row := range dense.Rows {
		for j, col := range dense.Columns {
			cells = append(cells, HeatmapCell{
				RunID:        meta.RunID,
				AssignmentID: meta.AssignmentID,
				RowAxis:      string(dense.RowAxis),
				ColumnAxis:   string(dense.ColumnAxis),
				RowLabel:     row,
				ColumnLabel:  col,
				Count:        int32(dense.Counts[i][j]),
				GeneratedAt:  generatedAt,
			})
		}
	}
	return cells
}

// WriteHeatmapCellsParquet writes cells to a Parquet file at outputPath.
func WriteHeatmapCellsParquet(data []HeatmapCell, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the HeatmapCell struct tags
	writer := parquet.NewGenericWriter[HeatmapCell](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ReadHeatmapCellsParquet reads back a file written by WriteHeatmapCellsParquet.
func ReadHeatmapCellsParquet(path string) ([]HeatmapCell, error) {
	rows, err := parquet.ReadFile[HeatmapCell](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}
