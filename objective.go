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

// objRow is the objective row of the tableau. Unlike ordinary rows its
// constant and coefficients are symbolic weights, so that strength
// tiers compare lexicographically instead of being collapsed into one
// scalar. It is kept separate from the scalar rows map; its column
// membership is indexed under the tableau's objective variable.
type objRow struct {
	constant SymbolicWeight
	terms    map[*Variable]SymbolicWeight
}

func newObjRow() *objRow {
	return &objRow{terms: make(map[*Variable]SymbolicWeight)}
}

// coefficient returns the symbolic coefficient of v, the zero weight
// if v does not occur.
func (o *objRow) coefficient(v *Variable) SymbolicWeight {
	return o.terms[v]
}

// addVariable adds w to the coefficient of v, dropping the term if the
// result is approximately zero and keeping the column index in sync.
func (o *objRow) addVariable(v *Variable, w SymbolicWeight, tab *tableau) {
	if old, ok := o.terms[v]; ok {
		nw := old.Add(w)
		if nw.approxZero() {
			delete(o.terms, v)
			tab.noteRemovedVariable(v, tab.objective)
			return
		}
		o.terms[v] = nw
		return
	}
	if w.approxZero() {
		return
	}
	o.terms[v] = w
	tab.noteAddedVariable(v, tab.objective)
}

// addExpr adds k·e to the objective row, where e is a scalar row.
func (o *objRow) addExpr(e *Expr, k SymbolicWeight, tab *tableau) {
	o.constant = o.constant.Add(k.Times(e.constant))
	for v, c := range e.terms {
		o.addVariable(v, k.Times(c), tab)
	}
}

// substituteOut replaces every occurrence of outVar by the scalar row
// sub.
func (o *objRow) substituteOut(outVar *Variable, sub *Expr, tab *tableau) {
	m := o.terms[outVar]
	delete(o.terms, outVar)
	o.constant = o.constant.Add(m.Times(sub.constant))
	for v, c := range sub.terms {
		o.addVariable(v, m.Times(c), tab)
	}
}
