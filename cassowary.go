/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

/*

Cassowary is an incremental solver for systems of weighted linear
equality and inequality constraints over real-valued variables, based
on the Cassowary linear-arithmetic algorithm. After every incremental
change it produces an assignment that exactly satisfies all required
constraints while minimizing a lexicographic cost over the
preferential ones.

As an example of the API, a point kept inside a segment while one
coordinate is dragged can be expressed like this:

	package main

	import (
		"fmt"

		"github.com/costela/cassowary"
	)

	func main() {
		solver, _ := cassowary.NewSolver()

		x := cassowary.NewVariableWithValue("x", 50)
		y := cassowary.NewVariableWithValue("y", 50)
		solver.AddStay(x, cassowary.Weak)
		solver.AddStay(y, cassowary.Weak)

		// x stays within [0, 100], y follows x at a fixed offset
		solver.AddConstraint(x.Expr().GreaterOrEqual(cassowary.NewExpr(0), cassowary.Required, 1))
		solver.AddConstraint(x.Expr().LessOrEqual(cassowary.NewExpr(100), cassowary.Required, 1))
		solver.AddConstraint(y.Expr().EqualTo(x.Expr().Plus(cassowary.NewExpr(100)), cassowary.Required, 1))

		solver.AddEditVar(x, cassowary.Strong)
		solver.BeginEdit()
		solver.SuggestValue(x, 75)
		solver.Resolve()
		solver.EndEdit()

		fmt.Printf("x = %f, y = %f\n", x.Value(), y.Value())
	}

The solver is single-threaded: all public methods run to completion
and concurrent callers are serialized by an internal mutex.

*/
package cassowary

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

/* Types */

// Solver maintains a simplex tableau over the enabled constraints and
// re-optimizes it incrementally on every change.
type Solver struct {
	mu  sync.Mutex
	tab *tableau

	autoSolve bool
	maxPivots int
	logger    zerolog.Logger

	markerVars map[*Constraint]*Variable
	errorVars  map[*Constraint][]*Variable

	editVars           []*Variable
	editConstraints    []*Constraint
	editPlusErrorVars  []*Variable
	editMinusErrorVars []*Variable
	prevEditConstants  []float64
	newEditConstants   []float64 // nil outside of an edit session

	stayPlusErrorVars  []*Variable
	stayMinusErrorVars []*Variable
}

/* Solver related functions */

// NewSolver instantiates a new, empty solver. By default every
// AddConstraint/RemoveConstraint ends with an implicit Solve
// (auto-solve); see WithAutoSolve.
func NewSolver(opts ...Option) (*Solver, error) {
	s := &Solver{
		tab:        newTableau(),
		autoSolve:  true,
		logger:     defaultLogger(),
		markerVars: make(map[*Constraint]*Variable),
		errorVars:  make(map[*Constraint][]*Variable),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("applying solver option: %w", err)
		}
	}

	return s, nil
}

// SetAutoSolve toggles the implicit re-optimization at the end of
// AddConstraint and RemoveConstraint. With auto-solve off, callers
// must invoke Solve themselves before reading variable values.
func (s *Solver) SetAutoSolve(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.autoSolve = enabled
}

// AddConstraint enables a constraint. Adding a required constraint
// that is inconsistent with the current system fails with
// ErrRequiredFailure, leaving the solver as it was.
func (s *Solver) AddConstraint(cn *Constraint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.add(cn)
}

// RemoveConstraint disables a previously added constraint. Removing a
// constraint that is not in the solver fails with
// ErrUnknownConstraint.
func (s *Solver) RemoveConstraint(cn *Constraint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remove(cn)
}

// Solve re-optimizes from the current tableau and refreshes the values
// of all external variables.
func (s *Solver) Solve() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.solve()
}

// ConstraintCount returns the number of currently enabled constraints.
func (s *Solver) ConstraintCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.markerVars)
}

// VariableCount returns the number of external variables currently
// known to the tableau.
func (s *Solver) VariableCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for v := range s.tab.rows {
		if v.isExternal() {
			n++
		}
	}
	for v := range s.tab.columns {
		if v.isExternal() {
			if _, basic := s.tab.rows[v]; !basic {
				n++
			}
		}
	}
	return n
}

func (s *Solver) add(cn *Constraint) error {
	if cn == nil {
		return fmt.Errorf("cannot add a nil constraint")
	}
	if _, dup := s.markerVars[cn]; dup {
		return fmt.Errorf("constraint %s is already in the solver", cn)
	}
	if (cn.kind == editConstraint || cn.kind == stayConstraint) && cn.strength.required {
		return fmt.Errorf("%s cannot be required", cn)
	}

	s.logger.Debug().Stringer("constraint", cn).Msg("adding constraint")

	expr := s.makeExpression(cn)
	added, err := s.tryAddingDirectly(expr)
	if err != nil {
		s.unregisterFailedAdd(cn)
		return err
	}
	if !added {
		if err := s.addWithArtificialVariable(expr); err != nil {
			s.unregisterFailedAdd(cn)
			return err
		}
	}

	if s.autoSolve {
		return s.solve()
	}
	return nil
}

// unregisterFailedAdd drops the bookkeeping makeExpression installed
// for a constraint whose insertion failed. Only required constraints
// can fail, and those carry no error variables and no objective
// contribution, so removing the marker registration restores the
// pre-call state.
func (s *Solver) unregisterFailedAdd(cn *Constraint) {
	delete(s.markerVars, cn)
	delete(s.errorVars, cn)
}

func (s *Solver) remove(cn *Constraint) error {
	marker, ok := s.markerVars[cn]
	if !ok {
		return fmt.Errorf("removing %s: %w", cn, ErrUnknownConstraint)
	}

	s.logger.Debug().Stringer("constraint", cn).Msg("removing constraint")

	s.resetStayConstants()

	// remove the constraint's contribution from the objective row,
	// substituting the defining expression of any basic error variable
	evs := s.errorVars[cn]
	if len(evs) > 0 {
		negWeight := cn.strength.weight.Times(cn.weight).Times(-1)
		for _, ev := range evs {
			if row, basic := s.tab.rows[ev]; basic {
				s.tab.zRow.addExpr(row, negWeight, s.tab)
			} else {
				s.tab.zRow.addVariable(ev, negWeight, s.tab)
			}
		}
	}

	delete(s.markerVars, cn)
	delete(s.errorVars, cn)

	if _, basic := s.tab.rows[marker]; !basic {
		if err := s.pivotMarkerIn(marker); err != nil {
			return err
		}
	}
	if _, basic := s.tab.rows[marker]; basic {
		s.tab.removeRow(marker)
	}

	for _, ev := range evs {
		if ev != marker {
			s.tab.removeColumn(ev)
		}
	}

	switch cn.kind {
	case stayConstraint:
		s.purgeStay(evs)
	case editConstraint:
		s.purgeEdit(cn)
	}

	if s.autoSolve {
		return s.solve()
	}
	return nil
}

func (s *Solver) solve() error {
	if err := s.optimize(s.tab.objective); err != nil {
		return err
	}
	s.setExternalVariables()
	return nil
}
