// Package sink defines where captured clipboard records go. The watcher
// holds a single Sink; fan-out to several destinations goes through Multi.
package sink

import (
	"errors"

	"go.veldt.dev/clipjot/internal/record"
)

// Sink consumes one record at a time. A sink failure must not stop the
// watch loop; callers log and carry on.
type Sink interface {
	Write(rec record.Record) error
}

// Func adapts a plain function to the Sink interface.
type Func func(rec record.Record) error

func (f Func) Write(rec record.Record) error { return f(rec) }

// Multi fans a record out to every sink, attempting all of them even when
// some fail, and returns the joined errors.
type Multi []Sink

func (m Multi) Write(rec record.Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
