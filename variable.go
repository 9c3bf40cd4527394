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
	"sync/atomic"
)

/* Types */

// VariableKind discriminates the four variable variants handled by the
// solver. Only External variables are created by callers and carry an
// observable value; the remaining kinds are solver-internal.
type VariableKind uint8

const (
	External VariableKind = iota
	Slack
	Dummy
	Objective
)

// varCounter assigns every variable a process-wide creation-order
// identity. The identity induces the total order used for all
// deterministic tie-breaking (Bland's rule).
var varCounter atomic.Uint64

// Variable is a real-valued solver variable. Variables are compared by
// identity; two variables with the same name are still distinct.
type Variable struct {
	id    uint64
	name  string
	kind  VariableKind
	value float64
}

// NewVariable creates an external (user-visible) variable.
// Empty names will automatically be replaced by a unique name.
func NewVariable(name string) *Variable {
	return newVariable(External, name)
}

// NewVariableWithValue creates an external variable with an initial
// value, typically used as the anchor of a stay constraint.
func NewVariableWithValue(name string, value float64) *Variable {
	v := newVariable(External, name)
	v.value = value
	return v
}

func newVariable(kind VariableKind, name string) *Variable {
	id := varCounter.Add(1)
	if name == "" {
		name = fmt.Sprintf("%s%d", kindPrefix(kind), id)
	}
	return &Variable{id: id, name: name, kind: kind}
}

func kindPrefix(kind VariableKind) string {
	switch kind {
	case Slack:
		return "s"
	case Dummy:
		return "d"
	case Objective:
		return "z"
	default:
		return "v"
	}
}

// Name returns the name provided upon creation of the variable.
func (v *Variable) Name() string {
	return v.name
}

// Kind returns the variable's kind tag.
func (v *Variable) Kind() VariableKind {
	return v.kind
}

// Value returns the value last assigned by the solver. Only external
// variables are assigned values; for all other kinds Value is zero.
func (v *Variable) Value() float64 {
	return v.value
}

// SetValue overwrites the variable's current value. It is normally only
// useful before registering a stay or edit, to define their anchor.
func (v *Variable) SetValue(x float64) {
	v.value = x
}

// Expr returns a linear expression consisting of v with coefficient 1.
func (v *Variable) Expr() *Expr {
	return Term(v, 1)
}

func (v *Variable) isExternal() bool {
	return v.kind == External
}

func (v *Variable) isPivotable() bool {
	return v.kind == Slack
}

func (v *Variable) isRestricted() bool {
	return v.kind == Slack || v.kind == Dummy
}

func (v *Variable) isDummy() bool {
	return v.kind == Dummy
}

func (v *Variable) String() string {
	if v.kind == External {
		return v.name
	}
	return fmt.Sprintf("%s%d", kindPrefix(v.kind), v.id)
}

/* Variable factory */

// VariableFactory creates external variables bound to a solver,
// automatically registering a stay for each. It implements the host
// policy of keeping a stay on every numeric variable.
type VariableFactory struct {
	solver   *Solver
	strength Strength
}

// NewVariableFactory returns a factory registering stays of the given
// strength on every variable it creates. Weak is the usual choice.
func NewVariableFactory(s *Solver, strength Strength) *VariableFactory {
	return &VariableFactory{solver: s, strength: strength}
}

// New creates an external variable with an initial value and registers
// its stay with the factory's solver.
func (f *VariableFactory) New(name string, value float64) (*Variable, error) {
	v := NewVariableWithValue(name, value)
	if err := f.solver.AddStay(v, f.strength); err != nil {
		return nil, fmt.Errorf("registering stay for %s: %w", v, err)
	}
	return v, nil
}
