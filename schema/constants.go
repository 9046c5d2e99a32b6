package schema

import (
	"fmt"
	"strings"
)

// Custom string types for type safety.
type (
	// Axis selects which categorical dimension of a comment becomes a heatmap axis.
	Axis string

	// OutputMode represents the format of the output.
	OutputMode string

	// CacheBackend represents the storage backend for the record cache.
	CacheBackend string
)

// All axis selectors supported. The values match the names used by codePost tooling.
const (
	GradersAxis          Axis = "graders"          // comment author
	SectionsAxis         Axis = "sections"         // sections of the commented students
	LeadersAxis          Axis = "sectionsLeaders"  // leaders of those sections
	RubricCommentsAxis   Axis = "rubricComments"   // (text, id) of the rubric comment
	RubricCategoriesAxis Axis = "rubricCategories" // rubric category name
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	HTMLOut    OutputMode = "html"
)

// All cache backends supported.
const (
	FileBackend       CacheBackend = "file" // default
	SQLiteBackend     CacheBackend = "sqlite"
	MySQLBackend      CacheBackend = "mysql"
	PostgreSQLBackend CacheBackend = "postgresql"
	NoneBackend       CacheBackend = "none"
)

// CountCaption is the default caption of the heatmap cell values.
const CountCaption = "# of Comments"

// AllAxes lists every axis selector in display order.
var AllAxes = []Axis{GradersAxis, SectionsAxis, LeadersAxis, RubricCommentsAxis, RubricCategoriesAxis}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
	HTMLOut:    {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[CacheBackend]struct{}{
	FileBackend:       {},
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Caption returns the default human-readable label of the axis.
func (a Axis) Caption() string {
	switch a {
	case GradersAxis:
		return "Graders"
	case SectionsAxis:
		return "Sections"
	case LeadersAxis:
		return "Section Leaders"
	case RubricCommentsAxis:
		return "Rubric Comment Text --- ID"
	case RubricCategoriesAxis:
		return "Rubric Category"
	default:
		return string(a)
	}
}

// FanOut reports whether one comment can resolve to several keys on this axis.
func (a Axis) FanOut() bool {
	return a == SectionsAxis || a == LeadersAxis
}

// Valid reports whether a is one of the known selectors.
func (a Axis) Valid() bool {
	for _, known := range AllAxes {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAxis matches s against the known selectors, ignoring case and surrounding spaces.
func ParseAxis(s string) (Axis, error) {
	s = strings.TrimSpace(s)
	for _, known := range AllAxes {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown axis '%s'. must be one of %s", s, strings.Join(AxisNames(), ", "))
}

// AxisNames returns the wire names of all axes.
func AxisNames() []string {
	names := make([]string, len(AllAxes))
	for i, a := range AllAxes {
		names[i] = string(a)
	}
	return names
}
