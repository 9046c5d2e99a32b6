// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteHeatmap prints a projected heatmap using the configured output format.
func (ow *OutWriter) WriteHeatmap(dense schema.DenseTable, cfg *contract.Config, meta schema.RunMeta) error {
	return PrintHeatmap(dense, cfg, meta)
}

// WriteIngestReport prints the summary of an ingestion pass.
func (ow *OutWriter) WriteIngestReport(report schema.IngestReport, cfg *contract.Config) error {
	return PrintIngestReport(report, cfg)
}

// WriteGrades prints the average grade of an assignment.
func (ow *OutWriter) WriteGrades(summary schema.GradeSummary, cfg *contract.Config) error {
	return PrintGradeSummary(summary, cfg)
}

// WriteAxes prints the available axis selectors.
func (ow *OutWriter) WriteAxes(cfg *contract.Config) error {
	return PrintAxes(cfg)
}
