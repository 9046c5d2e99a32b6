package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisCaption(t *testing.T) {
	tests := []struct {
		axis     Axis
		expected string
	}{
		{GradersAxis, "Graders"},
		{SectionsAxis, "Sections"},
		{LeadersAxis, "Section Leaders"},
		{RubricCommentsAxis, "Rubric Comment Text --- ID"},
		{RubricCategoriesAxis, "Rubric Category"},
		{Axis("mystery"), "mystery"},
	}

	for _, tt := range tests {
		t.Run(string(tt.axis), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.axis.Caption())
		})
	}
}

func TestAxisFanOut(t *testing.T) {
	assert.True(t, SectionsAxis.FanOut())
	assert.True(t, LeadersAxis.FanOut())
	assert.False(t, GradersAxis.FanOut())
	assert.False(t, RubricCommentsAxis.FanOut())
	assert.False(t, RubricCategoriesAxis.FanOut())
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    Axis
		expectError bool
	}{
		{"exact", "graders", GradersAxis, false},
		{"mixed case", "SectionsLeaders", LeadersAxis, false},
		{"padded", "  rubricCategories ", RubricCategoriesAxis, false},
		{"unknown", "students", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAxis(tt.input)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown axis")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestAxisKeyString(t *testing.T) {
	assert.Equal(t, "alice@school.edu", ScalarKey("alice@school.edu").String())
	assert.Equal(t, "Off by one --- 42", RubricKey("Off by one", 42).String())
	assert.Equal(t, "Zero --- 0", RubricKey("Zero", 0).String())

	// Same text, different ids are distinct buckets.
	assert.NotEqual(t, RubricKey("T", 1), RubricKey("T", 2))
	assert.NotEqual(t, ScalarKey("T"), RubricKey("T", 0))
}

func TestHeatmapTableAdd(t *testing.T) {
	table := HeatmapTable{}
	g := ScalarKey("g1")
	rc := RubricKey("T1", 1)

	table.Add(g, rc)
	table.Add(g, rc)
	table.Add(ScalarKey("g2"), rc)

	assert.Equal(t, 2, table.Get(g, rc))
	assert.Equal(t, 1, table.Get(ScalarKey("g2"), rc))
	assert.Equal(t, 0, table.Get(ScalarKey("g3"), rc))
	assert.Equal(t, 3, table.Total())
}

func TestDenseTableAccessors(t *testing.T) {
	dense := DenseTable{
		Rows:    []string{"a", "b"},
		Columns: []string{"x", "y", "z"},
		Counts:  [][]int{{1, 0, 4}, {0, 2, 0}},
	}

	assert.False(t, dense.Empty())
	assert.Equal(t, 4, dense.At("a", "z"))
	assert.Equal(t, 0, dense.At("b", "x"))
	assert.Equal(t, 0, dense.At("missing", "x"))
	assert.Equal(t, 4, dense.Max())
	assert.Equal(t, 7, dense.Total())
	assert.True(t, DenseTable{}.Empty())
}

func TestCommentJSONShape(t *testing.T) {
	raw := `{
  "id": 7,
  "text": "see rubric",
  "file": 3,
  "pointDelta": null,
  "author": "g1@x",
  "rubricComment": {"id": 1, "text": "T1", "pointDelta": 0.5, "category": 9, "comments": [7], "sortKey": 0},
  "category": "Style",
  "student": ["s1@x"],
  "sections": ["A"]
}`
	var c Comment
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, int64(7), c.ID)
	assert.Nil(t, c.PointDelta)
	require.NotNil(t, c.RubricComment)
	assert.Equal(t, int64(9), c.RubricComment.CategoryID)
	assert.Equal(t, []string{"s1@x"}, c.Students)
	assert.Equal(t, []string{"A"}, c.Sections)
}
