package core

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no record in a collection carries the requested name.
var ErrNotFound = errors.New("record not found")

// Record is a named score entry. The name is fixed at construction; the score
// changes only through SetScore.
type Record struct {
	name  string
	score int64
}

// NewRecord creates a record with the given name and initial score.
func NewRecord(name string, score int64) *Record {
	return &Record{name: name, score: score}
}

func (r *Record) Name() string { return r.name }

func (r *Record) Score() int64 { return r.score }

// SetScore overwrites the score. Callers holding the record inside a sorted
// collection must reposition it afterwards.
func (r *Record) SetScore(score int64) { r.score = score }

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	return &Record{name: r.name, score: r.score}
}

// String renders the record in a fixed-width "name : score" form.
func (r *Record) String() string {
	return fmt.Sprintf("%-15s : %3d", r.name, r.score)
}

// NotFound wraps ErrNotFound with the missing name.
func NotFound(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

// CloneAll deep-copies a collection, preserving order.
func CloneAll(records []*Record) []*Record {
	if records == nil {
		return nil
	}
	out := make([]*Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
