// Package schema has the data shapes shared by the ingestion, aggregation and output layers.
package schema

// Comment is one grading comment enriched with its rubric and roster context.
// It is the unit record of every heatmap and the value stored in the record cache.
type Comment struct {
	ID            int64          `json:"id"`
	Text          string         `json:"text"`
	File          int64          `json:"file"`
	PointDelta    *float64       `json:"pointDelta"`
	Author        string         `json:"author"`
	RubricComment *RubricComment `json:"rubricComment"`
	Category      string         `json:"category"`
	Students      []string       `json:"student"`
	Sections      []string       `json:"sections"`
}

// RubricComment is a reusable, predefined comment from an assignment rubric.
type RubricComment struct {
	ID         int64   `json:"id"`
	Text       string  `json:"text"`
	PointDelta float64 `json:"pointDelta"`
	CategoryID int64   `json:"category"`
	Comments   []int64 `json:"comments"`
	SortKey    int     `json:"sortKey"`
}

// RubricCategory groups rubric comments under a name.
type RubricCategory struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	RubricComments []int64 `json:"rubricComments"`
}

// Rubric is the full rubric of one assignment.
type Rubric struct {
	RubricCategories []RubricCategory `json:"rubricCategories"`
	RubricComments   []RubricComment  `json:"rubricComments"`
}

// Section is a course section with its roster.
type Section struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Students []string `json:"students"`
}

// Assignment is the subset of the assignment resource used here.
type Assignment struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Course int64  `json:"course"`
}

// Course is the subset of the course resource used here.
type Course struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Period   string  `json:"period"`
	Sections []int64 `json:"sections"`
}

// APIComment is a comment as returned by the API, before enrichment.
type APIComment struct {
	ID            int64    `json:"id"`
	Text          string   `json:"text"`
	File          int64    `json:"file"`
	PointDelta    *float64 `json:"pointDelta"`
	Author        string   `json:"author"`
	RubricComment *int64   `json:"rubricComment"`
}

// File is the subset of the file resource used here.
type File struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Submission int64  `json:"submission"`
}

// Submission is the subset of the submission resource used here.
type Submission struct {
	ID         int64    `json:"id"`
	Assignment int64    `json:"assignment"`
	Students   []string `json:"students"`
	Grader     string   `json:"grader"`
	Grade      *float64 `json:"grade"`
}

// RecordSet maps a comment id, rendered as a decimal string, to its enriched comment.
// This is the persisted shape of an assignment cache.
type RecordSet map[string]Comment
