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
	"sort"
	"strings"
)

/* Types */

// Expr is a sparse linear form c + Σ cᵢ·vᵢ. The zero coefficient is
// never stored: terms whose coefficient becomes approximately zero are
// removed. Expr doubles as the solver's tableau row type.
type Expr struct {
	constant float64
	terms    map[*Variable]float64
}

// NewExpr returns a constant expression.
func NewExpr(constant float64) *Expr {
	return &Expr{constant: constant, terms: make(map[*Variable]float64)}
}

// Term returns the expression coeff·v.
func Term(v *Variable, coeff float64) *Expr {
	e := NewExpr(0)
	if coeff != 0 {
		e.terms[v] = coeff
	}
	return e
}

// Constant returns the expression's constant part.
func (e *Expr) Constant() float64 {
	return e.constant
}

// Coefficient returns the coefficient of v, zero if v does not occur.
func (e *Expr) Coefficient(v *Variable) float64 {
	return e.terms[v]
}

func (e *Expr) clone() *Expr {
	c := &Expr{constant: e.constant, terms: make(map[*Variable]float64, len(e.terms))}
	for v, coeff := range e.terms {
		c.terms[v] = coeff
	}
	return c
}

func (e *Expr) isConstant() bool {
	return len(e.terms) == 0
}

/* Arithmetic */

// Plus returns e + o as a new expression.
func (e *Expr) Plus(o *Expr) *Expr {
	r := e.clone()
	r.addExpr(o, 1, nil, nil)
	return r
}

// Minus returns e - o as a new expression.
func (e *Expr) Minus(o *Expr) *Expr {
	r := e.clone()
	r.addExpr(o, -1, nil, nil)
	return r
}

// Negate returns -e as a new expression.
func (e *Expr) Negate() *Expr {
	r := e.clone()
	r.multiplyMe(-1)
	return r
}

// Times returns e·o. At least one operand must be a constant
// expression; multiplying two non-constant expressions fails with
// ErrNonLinear.
func (e *Expr) Times(o *Expr) (*Expr, error) {
	switch {
	case e.isConstant():
		r := o.clone()
		r.multiplyMe(e.constant)
		return r, nil
	case o.isConstant():
		r := e.clone()
		r.multiplyMe(o.constant)
		return r, nil
	default:
		return nil, fmt.Errorf("product of two non-constant expressions: %w", ErrNonLinear)
	}
}

// DividedBy returns e/o. The divisor must be a constant expression
// with a non-zero constant; anything else fails with ErrNonLinear.
func (e *Expr) DividedBy(o *Expr) (*Expr, error) {
	if !o.isConstant() {
		return nil, fmt.Errorf("division by a non-constant expression: %w", ErrNonLinear)
	}
	if approx(o.constant, 0) {
		return nil, fmt.Errorf("division by zero: %w", ErrNonLinear)
	}
	r := e.clone()
	r.multiplyMe(1 / o.constant)
	return r, nil
}

func (e *Expr) multiplyMe(k float64) {
	e.constant *= k
	for v := range e.terms {
		e.terms[v] *= k
	}
}

// addVariable adds c to the coefficient of v. When a term's
// coefficient becomes approximately zero the term is removed. If a
// basic subject and tableau are supplied, the column index is kept in
// sync through the tableau's note hooks.
func (e *Expr) addVariable(v *Variable, c float64, subject *Variable, tab *tableau) {
	if old, ok := e.terms[v]; ok {
		nc := old + c
		if approx(nc, 0) {
			delete(e.terms, v)
			if tab != nil && subject != nil {
				tab.noteRemovedVariable(v, subject)
			}
			return
		}
		e.terms[v] = nc
		return
	}
	if approx(c, 0) {
		return
	}
	e.terms[v] = c
	if tab != nil && subject != nil {
		tab.noteAddedVariable(v, subject)
	}
}

// setVariable sets the coefficient of v unconditionally.
func (e *Expr) setVariable(v *Variable, c float64) {
	e.terms[v] = c
}

// addExpr adds k·o to e term by term, scaling o's constant as well.
func (e *Expr) addExpr(o *Expr, k float64, subject *Variable, tab *tableau) {
	e.constant += k * o.constant
	for v, c := range o.terms {
		e.addVariable(v, k*c, subject, tab)
	}
}

// substituteOut replaces every occurrence of outVar in e by sub,
// performing e ← e + m·sub - m·outVar where m is outVar's coefficient.
func (e *Expr) substituteOut(outVar *Variable, sub *Expr, subject *Variable, tab *tableau) {
	m := e.terms[outVar]
	delete(e.terms, outVar)
	e.constant += m * sub.constant
	for v, c := range sub.terms {
		e.addVariable(v, m*c, subject, tab)
	}
}

// newSubject rewrites e, currently representing "0 = e" with subject
// among its terms, into the defining expression of subject. It returns
// the reciprocal of subject's previous coefficient, for use by
// changeSubject.
func (e *Expr) newSubject(subject *Variable) float64 {
	c := e.terms[subject]
	delete(e.terms, subject)
	reciprocal := 1 / c
	e.multiplyMe(-reciprocal)
	return reciprocal
}

// changeSubject rewrites the row "old = e" into the row defining nv,
// moving old to the right-hand side.
func (e *Expr) changeSubject(old, nv *Variable) {
	e.setVariable(old, e.newSubject(nv))
}

// anyPivotableVariable returns the pivotable variable with the
// smallest identity, or nil if the expression has none.
func (e *Expr) anyPivotableVariable() *Variable {
	var best *Variable
	for v := range e.terms {
		if v.isPivotable() && (best == nil || v.id < best.id) {
			best = v
		}
	}
	return best
}

/* Constraint synthesis */

// EqualTo returns the constraint e == o with the given strength and
// weight.
func (e *Expr) EqualTo(o *Expr, strength Strength, weight float64) *Constraint {
	return NewEquation(e.Minus(o), strength, weight)
}

// GreaterOrEqual returns the constraint e ≥ o.
func (e *Expr) GreaterOrEqual(o *Expr, strength Strength, weight float64) *Constraint {
	return NewInequality(e.Minus(o), strength, weight)
}

// LessOrEqual returns the constraint e ≤ o.
func (e *Expr) LessOrEqual(o *Expr, strength Strength, weight float64) *Constraint {
	return NewInequality(o.Minus(e), strength, weight)
}

// GreaterThan returns the constraint e ≥ o + 1. The offset of one only
// makes sense for integer-valued domains; the behavior is kept for
// compatibility with the original operators.
func (e *Expr) GreaterThan(o *Expr, strength Strength, weight float64) *Constraint {
	return NewInequality(e.Minus(o).Minus(NewExpr(1)), strength, weight)
}

// LessThan returns the constraint e ≤ o - 1. See GreaterThan for the
// offset semantics.
func (e *Expr) LessThan(o *Expr, strength Strength, weight float64) *Constraint {
	return NewInequality(o.Minus(e).Minus(NewExpr(1)), strength, weight)
}

func (e *Expr) String() string {
	vars := make([]*Variable, 0, len(e.terms))
	for v := range e.terms {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].id < vars[j].id })

	var b strings.Builder
	fmt.Fprintf(&b, "%g", e.constant)
	for _, v := range vars {
		fmt.Fprintf(&b, " + %g*%s", e.terms[v], v)
	}
	return b.String()
}
