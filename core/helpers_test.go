package core

import "github.com/cpheatmap/cpheatmap/schema"

// comment builds a fully populated record for tests.
func comment(id int64, author string, rc *schema.RubricComment, category string, sections ...string) schema.Comment {
	return schema.Comment{
		ID:            id,
		Author:        author,
		RubricComment: rc,
		Category:      category,
		Sections:      sections,
	}
}

func rubric(id int64, text string) *schema.RubricComment {
	return &schema.RubricComment{ID: id, Text: text}
}
