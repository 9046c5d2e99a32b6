package core

import (
	"errors"
	"iter"
	"slices"
	"strconv"

	"github.com/cpheatmap/cpheatmap/schema"
)

var errKeyMismatch = errors.New("cache key does not match record id")

// RecordStore holds the enriched comments of one assignment.
// It is read-only once built; All yields copies in ascending comment id order.
type RecordStore struct {
	ids      []int64
	comments map[int64]schema.Comment
}

// NewRecordStore builds a store from a persisted record set.
// A key that is not a decimal id, or that disagrees with the record id, is a data integrity error.
func NewRecordStore(records schema.RecordSet) (*RecordStore, error) {
	rs := &RecordStore{comments: make(map[int64]schema.Comment, len(records))}
	for key, c := range records {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, &schema.DataIntegrityError{CommentID: c.ID, Field: "id", Err: err}
		}
		if c.ID == 0 {
			c.ID = id
		}
		if c.ID != id {
			return nil, &schema.DataIntegrityError{CommentID: id, Field: "id", Err: errKeyMismatch}
		}
		rs.comments[id] = c
		rs.ids = append(rs.ids, id)
	}
	slices.Sort(rs.ids)
	return rs, nil
}

// All iterates over the comments in ascending id order.
func (rs *RecordStore) All() iter.Seq[schema.Comment] {
	return func(yield func(schema.Comment) bool) {
		for _, id := range rs.ids {
			if !yield(rs.comments[id]) {
				return
			}
		}
	}
}

// Len returns the number of comments.
func (rs *RecordStore) Len() int {
	return len(rs.ids)
}

// RecordSet returns the persisted form of the store.
func (rs *RecordStore) RecordSet() schema.RecordSet {
	out := make(schema.RecordSet, len(rs.ids))
	for _, id := range rs.ids {
		out[strconv.FormatInt(id, 10)] = rs.comments[id]
	}
	return out
}
