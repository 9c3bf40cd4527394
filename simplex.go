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
	"math"
)

// makeExpression builds the row to insert for cn: the constraint's
// expression with every basic variable substituted by its defining
// row, plus the marker and error variables mandated by the
// constraint's kind and strength. Error variables are weighted into
// the objective row; stay and edit bookkeeping is recorded here.
func (s *Solver) makeExpression(cn *Constraint) *Expr {
	cnExpr := cn.expr
	expr := NewExpr(cnExpr.constant)
	for v, c := range cnExpr.terms {
		if row, basic := s.tab.rows[v]; basic {
			expr.addExpr(row, c, nil, nil)
		} else {
			expr.addVariable(v, c, nil, nil)
		}
	}

	if cn.isInequality() {
		// expr >= 0: convert to an equation with a slack, which doubles
		// as the constraint's marker
		slack := newVariable(Slack, "")
		expr.setVariable(slack, -1)
		s.markerVars[cn] = slack
		if !cn.strength.required {
			eminus := newVariable(Slack, "")
			expr.setVariable(eminus, 1)
			s.tab.zRow.addVariable(eminus, cn.strength.weight.Times(cn.weight), s.tab)
			s.errorVars[cn] = []*Variable{eminus}
		}
	} else if cn.strength.required {
		// a dummy marker: not pivotable, so optimization never moves it
		// off zero and the equation can only be satisfied exactly
		dummy := newVariable(Dummy, "")
		expr.setVariable(dummy, 1)
		s.markerVars[cn] = dummy
	} else {
		eplus := newVariable(Slack, "")
		eminus := newVariable(Slack, "")
		expr.setVariable(eplus, -1)
		expr.setVariable(eminus, 1)
		s.markerVars[cn] = eplus

		sw := cn.strength.weight.Times(cn.weight)
		s.tab.zRow.addVariable(eplus, sw, s.tab)
		s.tab.zRow.addVariable(eminus, sw, s.tab)
		s.errorVars[cn] = []*Variable{eplus, eminus}

		switch cn.kind {
		case stayConstraint:
			s.stayPlusErrorVars = append(s.stayPlusErrorVars, eplus)
			s.stayMinusErrorVars = append(s.stayMinusErrorVars, eminus)
		case editConstraint:
			s.editVars = append(s.editVars, cn.variable)
			s.editConstraints = append(s.editConstraints, cn)
			s.editPlusErrorVars = append(s.editPlusErrorVars, eplus)
			s.editMinusErrorVars = append(s.editMinusErrorVars, eminus)
			s.prevEditConstants = append(s.prevEditConstants, cnExpr.constant)
		}
	}

	if expr.constant < 0 {
		expr.multiplyMe(-1)
	}
	return expr
}

// tryAddingDirectly inserts expr as a new row if a subject can be
// chosen for it, reporting whether it did. A RequiredFailure from
// chooseSubject is passed through.
func (s *Solver) tryAddingDirectly(expr *Expr) (bool, error) {
	subject, err := s.chooseSubject(expr)
	if err != nil {
		return false, err
	}
	if subject == nil {
		return false, nil
	}
	expr.newSubject(subject)
	if s.tab.columnsHasKey(subject) {
		s.tab.substituteOut(subject, expr)
	}
	s.tab.addRow(subject, expr)
	return true, nil
}

// chooseSubject selects the variable of expr to become basic. In
// order of preference: an unrestricted variable new to the solver, any
// unrestricted variable, then a new restricted non-dummy variable with
// a negative coefficient. If every term is a dummy, the row is either
// trivially satisfiable through a new dummy or a RequiredFailure. Ties
// are broken by smallest identity throughout, so that insertion order
// determines the outcome rather than map traversal.
func (s *Solver) chooseSubject(expr *Expr) (*Variable, error) {
	var newUnrestricted, unrestricted, newRestricted *Variable
	for v, c := range expr.terms {
		if !v.isRestricted() {
			if !s.tab.columnsHasKey(v) {
				newUnrestricted = minByID(newUnrestricted, v)
			} else {
				unrestricted = minByID(unrestricted, v)
			}
			continue
		}
		if v.isDummy() || c >= 0 {
			continue
		}
		col, known := s.tab.columns[v]
		if !known || (col.Count() == 1 && col.Test(s.tab.indexOf(s.tab.objective))) {
			newRestricted = minByID(newRestricted, v)
		}
	}
	switch {
	case newUnrestricted != nil:
		return newUnrestricted, nil
	case unrestricted != nil:
		return unrestricted, nil
	case newRestricted != nil:
		return newRestricted, nil
	}

	var subject *Variable
	coeff := 0.0
	for v, c := range expr.terms {
		if !v.isDummy() {
			// not all dummies: punt to the artificial variable
			return nil, nil
		}
		if !s.tab.columnsHasKey(v) && (subject == nil || v.id < subject.id) {
			subject, coeff = v, c
		}
	}
	if !approx(expr.constant, 0) {
		return nil, fmt.Errorf("required equation with only dummy variables and constant %g: %w", expr.constant, ErrRequiredFailure)
	}
	if coeff > 0 {
		expr.multiplyMe(-1)
	}
	return subject, nil
}

func minByID(a, b *Variable) *Variable {
	if a == nil || b.id < a.id {
		return b
	}
	return a
}

// addWithArtificialVariable inserts expr by introducing an artificial
// slack av defined by expr and an auxiliary objective az equal to it,
// then minimizing az. The insertion succeeds iff az can be driven to
// zero; otherwise the required constraint is unsatisfiable and the
// temporary rows are withdrawn again.
func (s *Solver) addWithArtificialVariable(expr *Expr) error {
	av := newVariable(Slack, "")
	az := newVariable(Objective, "")
	azRow := expr.clone()

	s.logger.Debug().Stringer("row", expr).Msg("adding with artificial variable")

	s.tab.addRow(az, azRow)
	s.tab.addRow(av, expr)

	if err := s.optimize(az); err != nil {
		return err
	}

	if azMin := s.tab.rows[az]; !approx(azMin.constant, 0) {
		s.tab.removeRow(az)
		if _, basic := s.tab.rows[av]; basic {
			s.tab.removeRow(av)
		}
		s.tab.removeColumn(av)
		return fmt.Errorf("required constraint cannot be satisfied: %w", ErrRequiredFailure)
	}

	if e, basic := s.tab.rows[av]; basic {
		if e.isConstant() {
			s.tab.removeRow(av)
			s.tab.removeRow(az)
			return nil
		}
		entry := e.anyPivotableVariable()
		if entry == nil {
			return fmt.Errorf("artificial variable has no pivotable row: %w", ErrInternal)
		}
		if err := s.pivot(entry, av); err != nil {
			return err
		}
	}

	s.tab.removeColumn(av)
	s.tab.removeRow(az)
	return nil
}

// optimize runs the primal simplex on the objective row keyed by zv
// until no entering variable remains. Entering and leaving choices
// break ties by smallest identity (Bland's rule), which rules out
// cycling.
func (s *Solver) optimize(zv *Variable) error {
	pivots := 0
	for {
		entry := s.chooseEntering(zv)
		if entry == nil {
			if pivots > 0 {
				s.logger.Debug().Int("pivots", pivots).Msg("optimized")
			}
			return nil
		}
		exit := s.chooseLeaving(entry)
		if exit == nil {
			return fmt.Errorf("objective function is unbounded: %w", ErrInternal)
		}
		if err := s.pivot(entry, exit); err != nil {
			return err
		}
		pivots++
		if s.maxPivots > 0 && pivots > s.maxPivots {
			return fmt.Errorf("exceeded %d pivots: %w", s.maxPivots, ErrInternal)
		}
	}
}

// chooseEntering returns the pivotable variable with a definitely
// negative coefficient in zv's objective row, smallest identity first,
// or nil when the objective is at its minimum.
func (s *Solver) chooseEntering(zv *Variable) *Variable {
	var best *Variable
	if zv == s.tab.objective {
		for v, w := range s.tab.zRow.terms {
			if v.isPivotable() && w.DefinitelyNegative() {
				best = minByID(best, v)
			}
		}
		return best
	}
	row := s.tab.rows[zv]
	for v, c := range row.terms {
		if v.isPivotable() && c < -epsilon {
			best = minByID(best, v)
		}
	}
	return best
}

// chooseLeaving returns the basic pivotable variable bounding how far
// entry can increase: the row with a negative coefficient for entry
// minimizing -constant/coefficient, ties by smallest identity.
func (s *Solver) chooseLeaving(entry *Variable) *Variable {
	col, ok := s.tab.columns[entry]
	if !ok {
		return nil
	}
	var exit *Variable
	minRatio := math.Inf(1)
	for i, ok := col.NextSet(0); ok; i, ok = col.NextSet(i + 1) {
		v := s.tab.byIndex[i]
		if !v.isPivotable() {
			continue
		}
		row := s.tab.rows[v]
		c := row.terms[entry]
		if c >= 0 {
			continue
		}
		r := -row.constant / c
		if r < minRatio || (r == minRatio && (exit == nil || v.id < exit.id)) {
			minRatio = r
			exit = v
		}
	}
	return exit
}

// pivot exchanges the basic exit variable against the parametric entry
// variable, rewriting the exit row with entry as its subject and
// substituting entry out of every other row.
func (s *Solver) pivot(entry, exit *Variable) error {
	if entry == nil || exit == nil {
		return fmt.Errorf("pivot with missing variable: %w", ErrInternal)
	}
	pexpr := s.tab.removeRow(exit)
	pexpr.changeSubject(exit, entry)
	s.tab.substituteOut(entry, pexpr)
	s.tab.addRow(entry, pexpr)
	return nil
}

// dualOptimize restores feasibility after edit-driven constant changes
// by pivoting every queued infeasible row against the entering
// variable with the smallest symbolic cost ratio.
func (s *Solver) dualOptimize() error {
	pivots := 0
	for {
		exit := s.tab.popInfeasible()
		if exit == nil {
			if pivots > 0 {
				s.logger.Debug().Int("pivots", pivots).Msg("dual optimized")
			}
			return nil
		}
		row, basic := s.tab.rows[exit]
		if !basic || row.constant >= 0 {
			continue
		}
		var entry *Variable
		var minRatio SymbolicWeight
		for v, c := range row.terms {
			if c <= 0 || !v.isPivotable() {
				continue
			}
			r := s.tab.zRow.coefficient(v).DivideBy(c)
			if entry == nil || r.Less(minRatio) || (r.Cmp(minRatio) == 0 && v.id < entry.id) {
				minRatio = r
				entry = v
			}
		}
		if entry == nil {
			return fmt.Errorf("dual optimize found no pivot ratio: %w", ErrInternal)
		}
		if err := s.pivot(entry, exit); err != nil {
			return err
		}
		pivots++
		if s.maxPivots > 0 && pivots > s.maxPivots {
			return fmt.Errorf("exceeded %d pivots: %w", s.maxPivots, ErrInternal)
		}
	}
}

// pivotMarkerIn brings a parametric marker variable into the basis so
// that its row can be removed. Exit preference: a restricted row with
// a negative marker coefficient minimizing -constant/coefficient, then
// any restricted row minimizing constant/coefficient, then any
// non-objective basic row from the marker's column. A marker occurring
// only in the objective row is simply erased.
func (s *Solver) pivotMarkerIn(marker *Variable) error {
	col, ok := s.tab.columns[marker]
	if !ok {
		return nil
	}
	objIdx := s.tab.indexOf(s.tab.objective)

	var exit *Variable
	minRatio := 0.0
	for i, ok := col.NextSet(0); ok; i, ok = col.NextSet(i + 1) {
		if i == objIdx {
			continue
		}
		v := s.tab.byIndex[i]
		if !v.isRestricted() {
			continue
		}
		row := s.tab.rows[v]
		c := row.terms[marker]
		if c >= 0 {
			continue
		}
		r := -row.constant / c
		if exit == nil || r < minRatio || (r == minRatio && v.id < exit.id) {
			minRatio = r
			exit = v
		}
	}
	if exit == nil {
		for i, ok := col.NextSet(0); ok; i, ok = col.NextSet(i + 1) {
			if i == objIdx {
				continue
			}
			v := s.tab.byIndex[i]
			if !v.isRestricted() {
				continue
			}
			row := s.tab.rows[v]
			r := row.constant / row.terms[marker]
			if exit == nil || r < minRatio || (r == minRatio && v.id < exit.id) {
				minRatio = r
				exit = v
			}
		}
	}
	if exit == nil {
		for i, ok := col.NextSet(0); ok; i, ok = col.NextSet(i + 1) {
			if i != objIdx {
				exit = minByID(exit, s.tab.byIndex[i])
			}
		}
	}
	if exit == nil {
		// the marker occurs only in the objective row
		s.tab.removeColumn(marker)
		return nil
	}
	return s.pivot(marker, exit)
}

// setExternalVariables refreshes the observable value of every
// external variable: the row constant for basic variables, zero for
// parametric ones. External variables absent from the tableau keep
// their previous value.
func (s *Solver) setExternalVariables() {
	for v, row := range s.tab.rows {
		if v.isExternal() {
			v.value = row.constant
		}
	}
	for v := range s.tab.columns {
		if !v.isExternal() {
			continue
		}
		if _, basic := s.tab.rows[v]; !basic {
			v.value = 0
		}
	}
}
