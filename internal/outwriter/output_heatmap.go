package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/internal/parquet"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ErrParquetNeedsFile is returned for parquet output without an output file.
var ErrParquetNeedsFile = errors.New("parquet output requires --output-file")

// PrintHeatmap outputs a dense heatmap, dispatching based on the output format configured.
func PrintHeatmap(dense schema.DenseTable, cfg *contract.Config, meta schema.RunMeta) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHeatmapJSON(w, dense, cfg, meta)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHeatmapCSV(w, dense, cfg)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeHeatmapParquet(dense, cfg, meta); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.HTMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHeatmapHTML(w, dense, cfg, meta)
		}, "Wrote HTML"); err != nil {
			return fmt.Errorf("error writing HTML output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHeatmapTable(w, dense, cfg, meta)
		}, "Wrote table")
	}
	return nil
}

// writeHeatmapTable renders the heatmap with row keys across and column keys down,
// matching the orientation of the plotted heatmap.
func writeHeatmapTable(w io.Writer, dense schema.DenseTable, cfg *contract.Config, meta schema.RunMeta) error {
	if dense.Empty() {
		_, err := fmt.Fprintf(w, "No rubric-linked comments found for assignment %d.\n", meta.AssignmentID)
		return err
	}

	table := tablewriter.NewWriter(w)

	headers := make([]string, 0, len(dense.Rows)+1)
	headers = append(headers, cfg.YLabel())
	for _, row := range dense.Rows {
		headers = append(headers, contract.TruncateLabel(row, rowLabelWidth))
	}
	table.Header(headers)

	// Headers are data labels, so they are printed as they are.
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := GetMaxLabelWidth(cfg, len(dense.Rows))
	peak := dense.Max()
	data := make([][]string, 0, len(dense.Columns))
	for j, col := range dense.Columns {
		line := make([]string, 0, len(dense.Rows)+1)
		line = append(line, contract.TruncateLabel(col, labelWidth))
		for i := range dense.Rows {
			n := dense.Counts[i][j]
			if cfg.UseColors {
				line = append(line, contract.CellLabel(n, peak))
			} else {
				line = append(line, strconv.Itoa(n))
			}
		}
		data = append(data, line)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d %s across %d %s (%s: %s, busiest cell: %d)\n",
		len(dense.Columns), cfg.YLabel(), len(dense.Rows), cfg.XLabel(),
		cfg.CountLabel(), humanize.Comma(int64(dense.Total())), peak); err != nil {
		return err
	}
	source := "codePost API"
	if meta.FromCache {
		source = "cache"
	}
	if _, err := fmt.Fprintf(w, "Built from %s records (%s) in %s. Cache backend: %s\n",
		humanize.Comma(int64(meta.Records)), source, formatDuration(meta.Duration), cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeHeatmapCSV writes the same grid as the table, without truncation or color.
func writeHeatmapCSV(w io.Writer, dense schema.DenseTable, cfg *contract.Config) error {
	header := make([]string, 0, len(dense.Rows)+1)
	header = append(header, cfg.YLabel())
	header = append(header, dense.Rows...)

	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for j, col := range dense.Columns {
			rec := make([]string, 0, len(dense.Rows)+1)
			rec = append(rec, col)
			for i := range dense.Rows {
				rec = append(rec, strconv.Itoa(dense.Counts[i][j]))
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// HeatmapDocument is the JSON document of one heatmap. Counts[i][j] belongs to (Rows[i], Columns[j]).
type HeatmapDocument struct {
	RunID        string      `json:"run_id"`
	AssignmentID int64       `json:"assignment_id"`
	XAxis        schema.Axis `json:"x_axis"`
	YAxis        schema.Axis `json:"y_axis"`
	XCaption     string      `json:"x_caption"`
	YCaption     string      `json:"y_caption"`
	CountCaption string      `json:"count_caption"`
	FromCache    bool        `json:"from_cache"`
	Total        int         `json:"total"`
	Rows         []string    `json:"rows"`
	Columns      []string    `json:"columns"`
	Counts       [][]int     `json:"counts"`
}

// NewHeatmapDocument assembles the JSON document of a heatmap; empty tables get empty arrays.
func NewHeatmapDocument(dense schema.DenseTable, cfg *contract.Config, meta schema.RunMeta) HeatmapDocument {
	doc := HeatmapDocument{
		RunID:        meta.RunID,
		AssignmentID: meta.AssignmentID,
		XAxis:        dense.RowAxis,
		YAxis:        dense.ColumnAxis,
		XCaption:     cfg.XLabel(),
		YCaption:     cfg.YLabel(),
		CountCaption: cfg.CountLabel(),
		FromCache:    meta.FromCache,
		Total:        dense.Total(),
		Rows:         nonNil(dense.Rows),
		Columns:      nonNil(dense.Columns),
		Counts:       dense.Counts,
	}
	if doc.Counts == nil {
		doc.Counts = [][]int{}
	}
	return doc
}

func writeHeatmapJSON(w io.Writer, dense schema.DenseTable, cfg *contract.Config, meta schema.RunMeta) error {
	return writeJSON(w, NewHeatmapDocument(dense, cfg, meta))
}

func writeHeatmapParquet(dense schema.DenseTable, cfg *contract.Config, meta schema.RunMeta) error {
	if cfg.OutputFile == "" {
		return ErrParquetNeedsFile
	}
	cells := parquet.CellsFromDense(dense, meta, time.Now().UTC())
	if err := parquet.WriteHeatmapCellsParquet(cells, cfg.OutputFile); err != nil {
		return err
	}
	reportSaved(fmt.Sprintf("Wrote %d Parquet cells", len(cells)), cfg.OutputFile)
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
