package core

import (
	"testing"

	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grade(v float64) *float64 { return &v }

func TestAverageGrade(t *testing.T) {
	tests := []struct {
		name     string
		subs     []schema.Submission
		expected schema.GradeSummary
		wantErr  error
	}{
		{
			name:     "all graded",
			subs:     []schema.Submission{{Grade: grade(10)}, {Grade: grade(20)}},
			expected: schema.GradeSummary{AssignmentID: 1, Submissions: 2, Graded: 2, Average: 15},
		},
		{
			name:     "ungraded skipped",
			subs:     []schema.Submission{{Grade: grade(0)}, {}, {Grade: grade(9)}},
			expected: schema.GradeSummary{AssignmentID: 1, Submissions: 3, Graded: 2, Average: 4.5},
		},
		{
			name:     "nothing graded",
			subs:     []schema.Submission{{}, {}},
			expected: schema.GradeSummary{AssignmentID: 1, Submissions: 2},
			wantErr:  ErrNoGradedSubmissions,
		},
		{
			name:     "no submissions",
			expected: schema.GradeSummary{AssignmentID: 1},
			wantErr:  ErrNoGradedSubmissions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := AverageGrade(1, tt.subs)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expected, summary)
		})
	}
}
