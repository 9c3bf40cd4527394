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
	"github.com/bits-and-blooms/bitset"
)

// tableau maintains the row/column incidence of the simplex state:
// rows map every basic variable to its defining expression, columns
// map every parametric variable to the set of basic variables whose
// row mentions it. Column sets are bitsets over a per-tableau arena of
// dense variable indexes, which keeps their traversal deterministic.
//
// The objective row is held apart from the scalar rows because its
// coefficients are symbolic weights; its column membership is indexed
// under the objective variable like any other basic variable.
type tableau struct {
	rows    map[*Variable]*Expr
	columns map[*Variable]*bitset.BitSet

	index   map[*Variable]uint
	byIndex []*Variable

	infeasible *bitset.BitSet

	objective *Variable
	zRow      *objRow
}

func newTableau() *tableau {
	t := &tableau{
		rows:       make(map[*Variable]*Expr),
		columns:    make(map[*Variable]*bitset.BitSet),
		index:      make(map[*Variable]uint),
		infeasible: bitset.New(64),
		objective:  newVariable(Objective, "z"),
		zRow:       newObjRow(),
	}
	t.indexOf(t.objective)
	return t
}

// indexOf returns the variable's arena index, assigning one on first
// use.
func (t *tableau) indexOf(v *Variable) uint {
	if i, ok := t.index[v]; ok {
		return i
	}
	i := uint(len(t.byIndex))
	t.index[v] = i
	t.byIndex = append(t.byIndex, v)
	return i
}

func (t *tableau) columnsHasKey(v *Variable) bool {
	_, ok := t.columns[v]
	return ok
}

// noteAddedVariable records that subject's row now mentions v.
func (t *tableau) noteAddedVariable(v, subject *Variable) {
	col, ok := t.columns[v]
	if !ok {
		col = bitset.New(8)
		t.columns[v] = col
	}
	col.Set(t.indexOf(subject))
}

// noteRemovedVariable records that subject's row no longer mentions v,
// dropping the column entirely when it empties.
func (t *tableau) noteRemovedVariable(v, subject *Variable) {
	col, ok := t.columns[v]
	if !ok {
		return
	}
	col.Clear(t.indexOf(subject))
	if col.None() {
		delete(t.columns, v)
	}
}

// addRow inserts expr as the defining row of subject and indexes its
// parametric variables.
func (t *tableau) addRow(subject *Variable, expr *Expr) {
	t.rows[subject] = expr
	for v := range expr.terms {
		t.noteAddedVariable(v, subject)
	}
}

// removeRow removes subject's row, unindexing its parametric variables
// and clearing any pending infeasibility mark, and returns the row.
func (t *tableau) removeRow(subject *Variable) *Expr {
	expr, ok := t.rows[subject]
	if !ok {
		return nil
	}
	for v := range expr.terms {
		t.noteRemovedVariable(v, subject)
	}
	t.infeasible.Clear(t.indexOf(subject))
	delete(t.rows, subject)
	return expr
}

// removeColumn erases every occurrence of v on the right-hand side of
// the tableau, including the objective row.
func (t *tableau) removeColumn(v *Variable) {
	col, ok := t.columns[v]
	if !ok {
		return
	}
	delete(t.columns, v)
	objIdx := t.indexOf(t.objective)
	for i, ok := col.NextSet(0); ok; i, ok = col.NextSet(i + 1) {
		if i == objIdx {
			delete(t.zRow.terms, v)
			continue
		}
		delete(t.rows[t.byIndex[i]].terms, v)
	}
}

// substituteOut replaces every right-hand-side occurrence of outVar by
// expr, in the scalar rows and the objective row alike. Restricted
// rows whose constant turns negative are queued as infeasible.
func (t *tableau) substituteOut(outVar *Variable, expr *Expr) {
	col, ok := t.columns[outVar]
	if !ok {
		return
	}
	delete(t.columns, outVar)

	objIdx := t.indexOf(t.objective)
	var members []uint
	for i, ok := col.NextSet(0); ok; i, ok = col.NextSet(i + 1) {
		members = append(members, i)
	}
	for _, i := range members {
		if i == objIdx {
			t.zRow.substituteOut(outVar, expr, t)
			continue
		}
		basic := t.byIndex[i]
		row := t.rows[basic]
		row.substituteOut(outVar, expr, basic, t)
		if basic.isRestricted() && row.constant < 0 {
			t.markInfeasible(basic)
		}
	}
}

func (t *tableau) markInfeasible(v *Variable) {
	t.infeasible.Set(t.indexOf(v))
}

// popInfeasible removes and returns a queued infeasible basic
// variable, nil when the queue is empty. Entries are popped in arena
// order, which is deterministic.
func (t *tableau) popInfeasible() *Variable {
	i, ok := t.infeasible.NextSet(0)
	if !ok {
		return nil
	}
	t.infeasible.Clear(i)
	return t.byIndex[i]
}

func (t *tableau) clearInfeasible() {
	t.infeasible.ClearAll()
}
