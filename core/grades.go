package core

import (
	"errors"

	"github.com/cpheatmap/cpheatmap/schema"
)

// ErrNoGradedSubmissions is returned when no submission of an assignment has a grade yet.
var ErrNoGradedSubmissions = errors.New("no graded submissions")

// AverageGrade averages the grades of the submissions that have one; ungraded submissions are skipped.
func AverageGrade(assignmentID int64, subs []schema.Submission) (schema.GradeSummary, error) {
	summary := schema.GradeSummary{AssignmentID: assignmentID, Submissions: len(subs)}
	total := 0.0
	for _, s := range subs {
		if s.Grade == nil {
			continue
		}
		total += *s.Grade
		summary.Graded++
	}
	if summary.Graded == 0 {
		return summary, ErrNoGradedSubmissions
	}
	summary.Average = total / float64(summary.Graded)
	return summary, nil
}
