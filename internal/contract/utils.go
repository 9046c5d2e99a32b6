package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	HeaderColor = color.New(color.FgGreen, color.Bold) // HeaderColor marks summary headers.
	ZeroColor   = color.New(color.FgHiBlack)           // ZeroColor dims empty heatmap cells.
	HotColor    = color.New(color.FgGreen, color.Bold) // HotColor marks the busiest cells.
	WarmColor   = color.New(color.FgGreen)             // WarmColor marks cells above half the maximum.
)

// CellLabel renders a count for console output, colored by its share of the table maximum.
func CellLabel(n, maxCount int) string {
	text := fmt.Sprintf("%d", n)
	switch {
	case n == 0:
		return ZeroColor.Sprint(text)
	case maxCount > 0 && n == maxCount:
		return HotColor.Sprint(text)
	case maxCount > 0 && n*2 > maxCount:
		return WarmColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// TruncateLabel shortens a label to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so that at least one character of content survives.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
