package outwriter

import (
	"os"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"golang.org/x/term"
)

const (
	defaultTermWidth = 80 // conservative default for narrow terminals and CI
	rowLabelWidth    = 12 // max width of a row label in the header
	rowColumnWidth   = rowLabelWidth + 3
	minLabelWidth    = 15
	maxLabelWidth    = 70
)

// terminalWidth returns the configured width, the detected terminal width, or the default.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return defaultTermWidth
	}
	return detected
}

// GetMaxLabelWidth returns the width left for the column-key labels of a text heatmap
// once rowCount count columns are laid out next to them.
func GetMaxLabelWidth(cfg *contract.Config, rowCount int) int {
	// Borders and padding of the label column itself
	available := terminalWidth(cfg) - rowCount*rowColumnWidth - 4
	if available < minLabelWidth {
		return minLabelWidth
	}
	if available > maxLabelWidth {
		return maxLabelWidth
	}
	return available
}
