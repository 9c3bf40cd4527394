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
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// columnIncidenceFromRows rebuilds the expected column index from the
// rows and the objective row.
func columnIncidenceFromRows(s *Solver) map[string][]string {
	want := make(map[string][]string)
	for basic, row := range s.tab.rows {
		for v := range row.terms {
			want[v.String()] = append(want[v.String()], basic.String())
		}
	}
	for v := range s.tab.zRow.terms {
		want[v.String()] = append(want[v.String()], s.tab.objective.String())
	}
	for _, members := range want {
		sort.Strings(members)
	}
	return want
}

func columnIncidenceActual(s *Solver) map[string][]string {
	got := make(map[string][]string)
	for v, col := range s.tab.columns {
		members := []string{}
		for i, ok := col.NextSet(0); ok; i, ok = col.NextSet(i + 1) {
			members = append(members, s.tab.byIndex[i].String())
		}
		sort.Strings(members)
		got[v.String()] = members
	}
	return got
}

// tableauInvariantsHold checks the structural invariants the solver
// promises between public operations: the column index matches the
// rows, no stored coefficient is approximately zero, every restricted
// basic variable is feasible or queued as infeasible, and the edit
// bookkeeping lists are aligned.
func tableauInvariantsHold(s *Solver) bool {
	if diff := cmp.Diff(columnIncidenceFromRows(s), columnIncidenceActual(s)); diff != "" {
		return false
	}
	for basic, row := range s.tab.rows {
		if _, parametric := s.tab.columns[basic]; parametric {
			return false
		}
		for _, c := range row.terms {
			if approx(c, 0) {
				return false
			}
		}
		if basic.isRestricted() && row.constant < -1e-6 && !s.tab.infeasible.Test(s.tab.indexOf(basic)) {
			return false
		}
	}
	n := len(s.editVars)
	return len(s.editConstraints) == n &&
		len(s.editPlusErrorVars) == n &&
		len(s.editMinusErrorVars) == n &&
		len(s.prevEditConstants) == n
}

func evalAtCurrentValues(e *Expr) float64 {
	val := e.constant
	for v, c := range e.terms {
		val += c * v.value
	}
	return val
}

func TestColumnIncidenceAfterAdds(t *testing.T) {
	solver, err := NewSolver()
	require.NoError(t, err)

	x := NewVariableWithValue("x", 5)
	y := NewVariableWithValue("y", 10)
	require.NoError(t, solver.AddStay(x, Weak))
	require.NoError(t, solver.AddStay(y, Weak))
	require.NoError(t, solver.AddConstraint(x.Expr().Plus(y.Expr()).EqualTo(NewExpr(20), Required, 1)))
	require.NoError(t, solver.AddConstraint(x.Expr().GreaterOrEqual(NewExpr(0), Required, 1)))

	if diff := cmp.Diff(columnIncidenceFromRows(solver), columnIncidenceActual(solver)); diff != "" {
		t.Errorf("column incidence mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, tableauInvariantsHold(solver))
}

func TestColumnIncidenceAfterRemoves(t *testing.T) {
	solver, err := NewSolver()
	require.NoError(t, err)

	x := NewVariableWithValue("x", 5)
	require.NoError(t, solver.AddStay(x, Weak))

	cns := []*Constraint{
		x.Expr().EqualTo(NewExpr(8), Medium, 1),
		x.Expr().GreaterOrEqual(NewExpr(2), Required, 1),
		x.Expr().LessOrEqual(NewExpr(100), Required, 1),
	}
	for _, cn := range cns {
		require.NoError(t, solver.AddConstraint(cn))
	}
	for _, cn := range cns {
		require.NoError(t, solver.RemoveConstraint(cn))
		assert.True(t, tableauInvariantsHold(solver))
	}
	assert.Equal(t, 1, solver.ConstraintCount()) // only the stay remains
}

func TestColumnIncidenceDuringEdits(t *testing.T) {
	solver, err := NewSolver()
	require.NoError(t, err)

	x := NewVariableWithValue("x", 10)
	y := NewVariableWithValue("y", 20)
	require.NoError(t, solver.AddStay(x, Weak))
	require.NoError(t, solver.AddStay(y, Weak))
	require.NoError(t, solver.AddConstraint(y.Expr().GreaterOrEqual(x.Expr(), Required, 1)))

	require.NoError(t, solver.AddEditVar(x, Strong))
	require.NoError(t, solver.BeginEdit())
	for _, target := range []float64{15, 30, 0, 30} {
		require.NoError(t, solver.SuggestValue(x, target))
		require.NoError(t, solver.Resolve())
		assert.True(t, tableauInvariantsHold(solver))
		assert.InDelta(t, target, x.Value(), delta)
		assert.GreaterOrEqual(t, y.Value(), x.Value()-delta)
	}
	require.NoError(t, solver.EndEdit())
	assert.True(t, tableauInvariantsHold(solver))
}

func TestExternalVariableValues(t *testing.T) {
	solver, err := NewSolver()
	require.NoError(t, err)

	x := NewVariable("x")
	require.NoError(t, solver.AddConstraint(x.Expr().EqualTo(NewExpr(4), Required, 1)))

	// a basic external variable's value equals its row constant
	row, basic := solver.tab.rows[x]
	require.True(t, basic)
	assert.InDelta(t, row.constant, x.Value(), delta)
	assert.False(t, math.IsNaN(x.Value()))
}
