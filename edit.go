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

package cassowary

import (
	"fmt"
	"slices"
)

/* Edit & stay protocol */

// AddStay adds a preference for v to keep its current value. Weak is
// the usual strength; the required tier is not allowed.
func (s *Solver) AddStay(v *Variable, strength Strength) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.add(NewStayConstraint(v, strength, 1))
}

// AddEditVar registers v as editable at the given strength. The edit
// takes effect through the BeginEdit / SuggestValue / Resolve /
// EndEdit cycle.
func (s *Solver) AddEditVar(v *Variable, strength Strength) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.add(NewEditConstraint(v, strength, 1))
}

// BeginEdit opens an edit session over all currently registered edit
// variables. At least one edit variable must be registered, and
// sessions do not nest.
func (s *Solver) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.editVars) == 0 {
		return fmt.Errorf("BeginEdit without any edit variables")
	}
	if s.newEditConstants != nil {
		return fmt.Errorf("edit session already in progress")
	}
	s.newEditConstants = make([]float64, len(s.editVars))
	return nil
}

// SuggestValue records x as the next target value for the edit
// variable v. BeginEdit must have been called; the suggestion takes
// effect on the next Resolve.
func (s *Solver) SuggestValue(v *Variable, x float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.newEditConstants == nil || len(s.newEditConstants) != len(s.editVars) {
		return fmt.Errorf("SuggestValue for %s without BeginEdit", v)
	}
	found := false
	for i := range s.editVars {
		if s.editVars[i] == v {
			s.newEditConstants[i] = x
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%s is not an edit variable", v)
	}
	return nil
}

// Resolve applies all suggested values, restores feasibility through
// the dual simplex and refreshes the external variables.
func (s *Solver) Resolve() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.newEditConstants == nil {
		return fmt.Errorf("Resolve without BeginEdit")
	}
	return s.resolve()
}

// ResolveWith adopts the given constants as the target values of the
// active edits, in registration order, and resolves. It may be used
// without an explicit BeginEdit.
func (s *Solver) ResolveWith(constants []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(constants) != len(s.editVars) {
		return fmt.Errorf("got %d edit constants for %d edit variables", len(constants), len(s.editVars))
	}
	s.newEditConstants = slices.Clone(constants)
	return s.resolve()
}

// EndEdit closes the edit session, disabling every edit constraint.
func (s *Solver) EndEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.newEditConstants == nil {
		return fmt.Errorf("EndEdit without BeginEdit")
	}
	for len(s.editConstraints) > 0 {
		if err := s.remove(s.editConstraints[len(s.editConstraints)-1]); err != nil {
			return err
		}
	}
	s.newEditConstants = nil
	return nil
}

func (s *Solver) resolve() error {
	if len(s.newEditConstants) != len(s.editVars) {
		return fmt.Errorf("edit session is stale: %d targets for %d edit variables", len(s.newEditConstants), len(s.editVars))
	}
	s.tab.clearInfeasible()
	s.resetStayConstants()
	s.resetEditConstants()
	if err := s.dualOptimize(); err != nil {
		return err
	}
	s.setExternalVariables()
	return nil
}

// resetStayConstants pins every stay at its variable's current value
// by zeroing the constant of each basic stay-error row.
func (s *Solver) resetStayConstants() {
	for i := range s.stayPlusErrorVars {
		if row, basic := s.tab.rows[s.stayPlusErrorVars[i]]; basic {
			row.constant = 0
		} else if row, basic := s.tab.rows[s.stayMinusErrorVars[i]]; basic {
			row.constant = 0
		}
	}
}

// resetEditConstants applies the delta between the suggested and the
// previous target value of every active edit.
func (s *Solver) resetEditConstants() {
	for i := range s.editVars {
		delta := s.newEditConstants[i] - s.prevEditConstants[i]
		s.prevEditConstants[i] = s.newEditConstants[i]
		s.deltaEditConstant(delta, s.editPlusErrorVars[i], s.editMinusErrorVars[i])
	}
}

// deltaEditConstant shifts the tableau by delta along the edit error
// pair, realizing v = c - e⁺ + e⁻: the delta lands on whichever error
// variable is basic, or is propagated through e⁻'s column when both
// are parametric. Restricted rows whose constant turns negative are
// queued for dual re-optimization.
func (s *Solver) deltaEditConstant(delta float64, plus, minus *Variable) {
	if row, basic := s.tab.rows[plus]; basic {
		row.constant += delta
		if row.constant < 0 {
			s.tab.markInfeasible(plus)
		}
		return
	}
	if row, basic := s.tab.rows[minus]; basic {
		row.constant -= delta
		if row.constant < 0 {
			s.tab.markInfeasible(minus)
		}
		return
	}
	col, ok := s.tab.columns[minus]
	if !ok {
		return
	}
	objIdx := s.tab.indexOf(s.tab.objective)
	for i, ok := col.NextSet(0); ok; i, ok = col.NextSet(i + 1) {
		if i == objIdx {
			w := s.tab.zRow.coefficient(minus)
			s.tab.zRow.constant = s.tab.zRow.constant.Add(w.Times(delta))
			continue
		}
		v := s.tab.byIndex[i]
		row := s.tab.rows[v]
		row.constant += row.terms[minus] * delta
		if v.isRestricted() && row.constant < 0 {
			s.tab.markInfeasible(v)
		}
	}
}

// purgeStay drops the stay bookkeeping whose error variables belong to
// the removed constraint.
func (s *Solver) purgeStay(evs []*Variable) {
	for i := 0; i < len(s.stayPlusErrorVars); {
		if slices.Contains(evs, s.stayPlusErrorVars[i]) {
			s.stayPlusErrorVars = slices.Delete(s.stayPlusErrorVars, i, i+1)
			s.stayMinusErrorVars = slices.Delete(s.stayMinusErrorVars, i, i+1)
			continue
		}
		i++
	}
}

// purgeEdit drops the parallel edit bookkeeping of the removed edit
// constraint, keeping all lists aligned, including the target values
// of an active session.
func (s *Solver) purgeEdit(cn *Constraint) {
	i := slices.Index(s.editConstraints, cn)
	if i < 0 {
		return
	}
	s.editVars = slices.Delete(s.editVars, i, i+1)
	s.editConstraints = slices.Delete(s.editConstraints, i, i+1)
	s.editPlusErrorVars = slices.Delete(s.editPlusErrorVars, i, i+1)
	s.editMinusErrorVars = slices.Delete(s.editMinusErrorVars, i, i+1)
	s.prevEditConstants = slices.Delete(s.prevEditConstants, i, i+1)
	if s.newEditConstants != nil && i < len(s.newEditConstants) {
		s.newEditConstants = slices.Delete(s.newEditConstants, i, i+1)
	}
}
