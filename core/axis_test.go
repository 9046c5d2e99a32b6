package core

import (
	"testing"

	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	leaders := map[string]string{"S1": "lead1", "S2": "lead2", "S3": "lead1"}
	base := comment(1, "g1@x", rubric(7, "Off by one"), "Logic", "S3", "S1", "S9", "S1")

	tests := []struct {
		name     string
		axis     schema.Axis
		expected []schema.AxisKey
	}{
		{"graders", schema.GradersAxis, []schema.AxisKey{schema.ScalarKey("g1@x")}},
		{"sections sorted and distinct", schema.SectionsAxis, []schema.AxisKey{
			schema.ScalarKey("S1"), schema.ScalarKey("S3"), schema.ScalarKey("S9"),
		}},
		{"leaders drop unmapped and merge", schema.LeadersAxis, []schema.AxisKey{schema.ScalarKey("lead1")}},
		{"rubric comment carries id", schema.RubricCommentsAxis, []schema.AxisKey{schema.RubricKey("Off by one", 7)}},
		{"category", schema.RubricCategoriesAxis, []schema.AxisKey{schema.ScalarKey("Logic")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := Resolve(tt.axis, base, leaders)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, keys)
		})
	}
}

func TestResolveEmptyFanOut(t *testing.T) {
	c := comment(1, "g1", rubric(1, "T"), "")

	keys, err := Resolve(schema.SectionsAxis, c, nil)
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = Resolve(schema.LeadersAxis, comment(2, "g1", rubric(1, "T"), "", "unknown"), map[string]string{})
	require.NoError(t, err)
	assert.Empty(t, keys, "an empty lookup is valid and maps nothing")

	keys, err = Resolve(schema.RubricCategoriesAxis, c, nil)
	require.NoError(t, err)
	assert.Equal(t, []schema.AxisKey{schema.ScalarKey("")}, keys, "uncategorized comments share the empty category")
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name     string
		axis     schema.Axis
		c        schema.Comment
		leaders  map[string]string
		sentinel error
		field    string
	}{
		{"missing author", schema.GradersAxis, comment(3, "", rubric(1, "T"), ""), nil, schema.ErrDataIntegrity, "author"},
		{"missing rubric comment", schema.RubricCommentsAxis, comment(4, "g", nil, ""), nil, schema.ErrDataIntegrity, "rubricComment"},
		{"nil leader lookup", schema.LeadersAxis, comment(5, "g", rubric(1, "T"), "", "S1"), nil, schema.ErrConfiguration, ""},
		{"unknown axis", "students", comment(6, "g", rubric(1, "T"), ""), nil, schema.ErrConfiguration, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.axis, tt.c, tt.leaders)
			require.ErrorIs(t, err, tt.sentinel)
			if tt.field != "" {
				var die *schema.DataIntegrityError
				require.ErrorAs(t, err, &die)
				assert.Equal(t, tt.field, die.Field)
				assert.Equal(t, tt.c.ID, die.CommentID)
			}
		})
	}
}

func TestResolveAuthorOnlyCheckedForGraders(t *testing.T) {
	c := comment(8, "", rubric(1, "T"), "C", "S1")
	for _, axis := range []schema.Axis{schema.SectionsAxis, schema.RubricCommentsAxis, schema.RubricCategoriesAxis} {
		_, err := Resolve(axis, c, nil)
		assert.NoError(t, err, "axis %s must not require an author", axis)
	}
}

func TestValidateAxes(t *testing.T) {
	tests := []struct {
		name    string
		row     schema.Axis
		col     schema.Axis
		leaders map[string]string
		wantErr bool
	}{
		{"default selection", schema.GradersAxis, schema.RubricCommentsAxis, nil, false},
		{"sections as rows", schema.SectionsAxis, schema.RubricCategoriesAxis, nil, false},
		{"leaders with lookup", schema.LeadersAxis, schema.GradersAxis, map[string]string{}, false},
		{"leaders without lookup", schema.LeadersAxis, schema.GradersAxis, nil, true},
		{"fan-out column", schema.GradersAxis, schema.SectionsAxis, nil, true},
		{"leaders column", schema.GradersAxis, schema.LeadersAxis, map[string]string{"S": "L"}, true},
		{"unknown row", "nope", schema.GradersAxis, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAxes(tt.row, tt.col, tt.leaders)
			if tt.wantErr {
				assert.ErrorIs(t, err, schema.ErrConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
