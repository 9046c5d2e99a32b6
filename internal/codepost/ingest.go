package codepost

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/google/uuid"
)

// Ingestor enriches the rubric-linked comments of an assignment with rubric and roster data.
type Ingestor struct {
	client *Client
	logger *slog.Logger
}

// NewIngestor returns an Ingestor that reads through client.
func NewIngestor(client *Client) *Ingestor {
	return &Ingestor{client: client, logger: client.logger}
}

// Ingest walks sections then rubric, one request at a time, and aborts on the first failure.
func (in *Ingestor) Ingest(ctx context.Context, assignmentID int64) (schema.RecordSet, schema.IngestReport, error) {
	start := time.Now()
	report := schema.IngestReport{
		RunID:        uuid.NewString(),
		AssignmentID: assignmentID,
	}

	roster, sections, err := in.processSections(ctx, assignmentID)
	if err != nil {
		return nil, report, err
	}
	report.Sections = sections
	report.Students = len(roster)

	records, rubricComments, err := in.processRubric(ctx, assignmentID, roster)
	if err != nil {
		return nil, report, err
	}
	report.RubricComments = rubricComments
	report.Comments = len(records)
	report.Duration = time.Since(start)
	report.Stats = in.client.Stats()

	in.logger.Info("ingested assignment", "assignment", assignmentID, "run_id", report.RunID,
		"comments", report.Comments, "duration", report.Duration)
	return records, report, nil
}

// processSections maps every enrolled student to the name of their section.
func (in *Ingestor) processSections(ctx context.Context, assignmentID int64) (map[string]string, int, error) {
	assignment, err := in.client.Assignment(ctx, assignmentID)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot access assignment %d: %w", assignmentID, err)
	}
	course, err := in.client.Course(ctx, assignment.Course)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot access course %d: %w", assignment.Course, err)
	}

	roster := make(map[string]string)
	for _, id := range course.Sections {
		section, err := in.client.Section(ctx, id)
		if err != nil {
			return nil, 0, fmt.Errorf("cannot access section %d: %w", id, err)
		}
		for _, student := range section.Students {
			roster[student] = section.Name
		}
	}
	in.logger.Debug("processed sections", "course", course.ID, "sections", len(course.Sections), "students", len(roster))
	return roster, len(course.Sections), nil
}

func (in *Ingestor) processRubric(ctx context.Context, assignmentID int64, roster map[string]string) (schema.RecordSet, int, error) {
	rubric, err := in.client.Rubric(ctx, assignmentID)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot access rubric of assignment %d: %w", assignmentID, err)
	}

	categories := make(map[int64]string)
	for _, category := range rubric.RubricCategories {
		for _, rcID := range category.RubricComments {
			categories[rcID] = category.Name
		}
	}

	records := make(schema.RecordSet)
	for i := range rubric.RubricComments {
		rc := rubric.RubricComments[i]
		for _, commentID := range rc.Comments {
			record, err := in.enrich(ctx, commentID, rc, categories[rc.ID], roster)
			if err != nil {
				return nil, 0, err
			}
			records[strconv.FormatInt(commentID, 10)] = record
		}
	}
	return records, len(rubric.RubricComments), nil
}

// enrich resolves comment -> file -> submission and attaches the students' sections.
func (in *Ingestor) enrich(ctx context.Context, commentID int64, rc schema.RubricComment, category string, roster map[string]string) (schema.Comment, error) {
	comment, err := in.client.Comment(ctx, commentID)
	if err != nil {
		return schema.Comment{}, fmt.Errorf("cannot access comment %d: %w", commentID, err)
	}
	if comment.ID == 0 {
		comment.ID = commentID
	}
	file, err := in.client.File(ctx, comment.File)
	if err != nil {
		return schema.Comment{}, fmt.Errorf("cannot access file %d of comment %d: %w", comment.File, commentID, err)
	}
	submission, err := in.client.Submission(ctx, file.Submission)
	if err != nil {
		return schema.Comment{}, fmt.Errorf("cannot access submission %d of comment %d: %w", file.Submission, commentID, err)
	}

	sections := make([]string, 0, len(submission.Students))
	for _, student := range submission.Students {
		if name, ok := roster[student]; ok {
			sections = append(sections, name)
		}
	}

	return schema.Comment{
		ID:            comment.ID,
		Text:          comment.Text,
		File:          comment.File,
		PointDelta:    comment.PointDelta,
		Author:        comment.Author,
		RubricComment: &rc,
		Category:      category,
		Students:      submission.Students,
		Sections:      sections,
	}, nil
}
