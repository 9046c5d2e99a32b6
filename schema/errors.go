package schema

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrDataIntegrity = errors.New("data integrity error")
)

// ConfigurationError reports an axis selection the caller cannot satisfy,
// such as a leader axis without a leader lookup. It is raised before any record is read.
type ConfigurationError struct {
	Axis   Axis
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Axis == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: axis %s: %s", e.Axis, e.Reason)
}

// Is matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// DataIntegrityError reports a record missing a field the aggregation needs.
type DataIntegrityError struct {
	CommentID int64
	Field     string
	Err       error
}

func (e *DataIntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data integrity error: comment %d: invalid %s: %v", e.CommentID, e.Field, e.Err)
	}
	return fmt.Sprintf("data integrity error: comment %d: missing %s", e.CommentID, e.Field)
}

// Is matches ErrDataIntegrity.
func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}
