package cassowary

import (
	"fmt"

	"github.com/rs/zerolog"
)

type Option func(*Solver) error

// WithLogger sets the logger used for solver diagnostics. The default
// logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Solver) error {
		s.logger = logger

		return nil
	}
}

// WithAutoSolve sets whether every AddConstraint/RemoveConstraint ends
// with an implicit Solve. Defaults to true.
func WithAutoSolve(enabled bool) Option {
	return func(s *Solver) error {
		s.autoSolve = enabled

		return nil
	}
}

// WithMaxPivots caps the number of pivots per optimization run.
// Exceeding the cap is reported as ErrInternal. Zero, the default,
// disables the cap.
func WithMaxPivots(n int) Option {
	return func(s *Solver) error {
		if n < 0 {
			return fmt.Errorf("negative pivot cap %d", n)
		}
		s.maxPivots = n

		return nil
	}
}
