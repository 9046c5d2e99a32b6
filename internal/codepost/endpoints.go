package codepost

import (
	"context"
	"fmt"

	"github.com/cpheatmap/cpheatmap/schema"
)

// Assignment fetches /assignments/{id}/.
func (c *Client) Assignment(ctx context.Context, id int64) (schema.Assignment, error) {
	var a schema.Assignment
	err := c.GetJSON(ctx, fmt.Sprintf("/assignments/%d/", id), &a)
	return a, err
}

// Course fetches /courses/{id}/.
func (c *Client) Course(ctx context.Context, id int64) (schema.Course, error) {
	var course schema.Course
	err := c.GetJSON(ctx, fmt.Sprintf("/courses/%d/", id), &course)
	return course, err
}

// Section fetches /sections/{id}/.
func (c *Client) Section(ctx context.Context, id int64) (schema.Section, error) {
	var s schema.Section
	err := c.getMemo(ctx, fmt.Sprintf("/sections/%d/", id), &s)
	return s, err
}

// Rubric fetches /assignments/{id}/rubric/.
func (c *Client) Rubric(ctx context.Context, assignmentID int64) (schema.Rubric, error) {
	var r schema.Rubric
	err := c.GetJSON(ctx, fmt.Sprintf("/assignments/%d/rubric/", assignmentID), &r)
	return r, err
}

// Comment fetches /comments/{id}/.
func (c *Client) Comment(ctx context.Context, id int64) (schema.APIComment, error) {
	var cm schema.APIComment
	err := c.GetJSON(ctx, fmt.Sprintf("/comments/%d/", id), &cm)
	return cm, err
}

// File fetches /files/{id}/.
func (c *Client) File(ctx context.Context, id int64) (schema.File, error) {
	var f schema.File
	err := c.getMemo(ctx, fmt.Sprintf("/files/%d/", id), &f)
	return f, err
}

// Submission fetches /submissions/{id}/.
func (c *Client) Submission(ctx context.Context, id int64) (schema.Submission, error) {
	var s schema.Submission
	err := c.getMemo(ctx, fmt.Sprintf("/submissions/%d/", id), &s)
	return s, err
}

// AssignmentSubmissions fetches every submission of an assignment.
func (c *Client) AssignmentSubmissions(ctx context.Context, assignmentID int64) ([]schema.Submission, error) {
	var subs []schema.Submission
	err := c.GetJSON(ctx, fmt.Sprintf("/assignments/%d/submissions/", assignmentID), &subs)
	return subs, err
}
