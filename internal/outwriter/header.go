package outwriter

import (
	"fmt"

	"github.com/cpheatmap/cpheatmap/internal/contract"
)

// LogHeatmapHeader prints a concise, 2-line header for a heatmap run.
func LogHeatmapHeader(cfg *contract.Config) {
	// Line 1: What is being counted
	fmt.Printf("🔎 Assignment: %d (%s × %s)\n", cfg.AssignmentID, cfg.XAxis, cfg.YAxis)

	// Line 2: Where the records come from
	source := string(cfg.CacheBackend)
	if cfg.Refresh {
		source += ", refreshing from codePost"
	}
	fmt.Printf("🗄️  Records: %s\n", source)
}
