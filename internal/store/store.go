// Package store owns the kiosk's knowledge base: the student identity
// table and the three question tables (general, group, series). The
// serving path only ever reads; rows are written by the record-ingest
// service fed by the data-entry client.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("store: not found")

// Category identifies which question table a record belongs to. Every
// record belongs to exactly one category; retrieval scans one category
// per spoken turn.
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryGroup   Category = "group"
	CategorySeries  Category = "series"
)

// IsValid reports whether c is a recognised category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryGroup, CategorySeries:
		return true
	}
	return false
}

// Student is an identity record. Lookups are by exact name match; the
// remaining columns describe the student's enrolment.
type Student struct {
	Name    string
	Group   string
	Series  string
	Faculty string
}

// Validate checks the fields required for insertion.
func (s *Student) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("store: student name is required")
	}
	return nil
}

// QuestionRecord is one question/answer row. Faculty and Scope carry the
// category-specific scoping columns: Scope holds the group name for
// group-category rows and the series name for series-category rows, and
// is empty for general rows.
type QuestionRecord struct {
	Category Category
	Question string
	Answer   string
	Faculty  string
	Scope    string
}

// Validate checks the fields required for insertion.
func (q *QuestionRecord) Validate() error {
	if !q.Category.IsValid() {
		return fmt.Errorf("store: category %q is invalid", q.Category)
	}
	if q.Question == "" {
		return fmt.Errorf("store: question text is required")
	}
	if q.Answer == "" {
		return fmt.Errorf("store: answer text is required")
	}
	return nil
}

// Store is the knowledge-base facade used by the rest of the system.
// Implementations must return rows from QuestionsByCategory in a stable
// insertion order so that fuzzy-match tie-breaking stays reproducible.
type Store interface {
	// FindStudent looks a student up by exact name. Returns [ErrNotFound]
	// when no row matches.
	FindStudent(ctx context.Context, name string) (*Student, error)

	// AddStudent inserts an identity row.
	AddStudent(ctx context.Context, s *Student) error

	// QuestionsByCategory returns every row of one category table in
	// insertion order.
	QuestionsByCategory(ctx context.Context, c Category) ([]QuestionRecord, error)

	// AddQuestion inserts a question row into its category table.
	AddQuestion(ctx context.Context, q *QuestionRecord) error

	// AllQuestionText returns every question and answer string across all
	// three categories, for dictionary maintenance.
	AllQuestionText(ctx context.Context) ([]string, error)

	// Close releases the underlying database handle.
	Close() error
}
