package core

import (
	"slices"

	"github.com/cpheatmap/cpheatmap/schema"
)

// Resolve computes the set of keys a comment contributes on one axis.
//
// Scalar axes yield exactly one key. The sections and leaders axes yield zero or more
// keys, deduplicated and sorted by label. On the leaders axis, sections missing from
// the lookup are dropped without error; a nil lookup is a configuration error.
func Resolve(axis schema.Axis, c schema.Comment, leaders map[string]string) ([]schema.AxisKey, error) {
	switch axis {
	case schema.GradersAxis:
		if c.Author == "" {
			return nil, &schema.DataIntegrityError{CommentID: c.ID, Field: "author"}
		}
		return []schema.AxisKey{schema.ScalarKey(c.Author)}, nil

	case schema.SectionsAxis:
		return keySet(c.Sections), nil

	case schema.LeadersAxis:
		if leaders == nil {
			return nil, missingLeadersError()
		}
		mapped := make([]string, 0, len(c.Sections))
		for _, section := range c.Sections {
			if leader, ok := leaders[section]; ok {
				mapped = append(mapped, leader)
			}
		}
		return keySet(mapped), nil

	case schema.RubricCommentsAxis:
		if c.RubricComment == nil {
			return nil, &schema.DataIntegrityError{CommentID: c.ID, Field: "rubricComment"}
		}
		return []schema.AxisKey{schema.RubricKey(c.RubricComment.Text, c.RubricComment.ID)}, nil

	case schema.RubricCategoriesAxis:
		return []schema.AxisKey{schema.ScalarKey(c.Category)}, nil

	default:
		return nil, &schema.ConfigurationError{Axis: axis, Reason: "unknown axis"}
	}
}

// ValidateAxes checks a row/column selection before any record is read.
// The column axis must be scalar, and the leaders axis needs a lookup.
func ValidateAxes(row, col schema.Axis, leaders map[string]string) error {
	for _, axis := range []schema.Axis{row, col} {
		if !axis.Valid() {
			return &schema.ConfigurationError{Axis: axis, Reason: "unknown axis"}
		}
		if axis == schema.LeadersAxis && leaders == nil {
			return missingLeadersError()
		}
	}
	if col.FanOut() {
		return &schema.ConfigurationError{Axis: col, Reason: "column axis must resolve to a single value per comment"}
	}
	return nil
}

func missingLeadersError() error {
	return &schema.ConfigurationError{Axis: schema.LeadersAxis, Reason: "a section-to-leader lookup is required"}
}

// keySet turns labels into sorted, distinct scalar keys.
func keySet(labels []string) []schema.AxisKey {
	sorted := slices.Clone(labels)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	keys := make([]schema.AxisKey, len(sorted))
	for i, label := range sorted {
		keys[i] = schema.ScalarKey(label)
	}
	return keys
}
