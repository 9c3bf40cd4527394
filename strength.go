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

// epsilon is the tolerance used for all approximate floating-point
// comparisons inside the solver.
const epsilon = 1e-8

// approx reports whether a and b are approximately equal. The test is
// relative to the magnitude of a when both a and b are nonzero and
// absolute otherwise.
func approx(a, b float64) bool {
	if a == 0 {
		return math.Abs(b) < epsilon
	}
	if b == 0 {
		return math.Abs(a) < epsilon
	}
	return math.Abs(a-b) < math.Abs(a)*epsilon
}

/* Types */

// SymbolicWeight is a lexicographic vector of three nonnegative reals.
// The first component corresponds to the strongest tier: any amount of
// error in a later component is preferable to the smallest error in an
// earlier one.
type SymbolicWeight [3]float64

// Add returns the componentwise sum of w and o.
func (w SymbolicWeight) Add(o SymbolicWeight) SymbolicWeight {
	return SymbolicWeight{w[0] + o[0], w[1] + o[1], w[2] + o[2]}
}

// Sub returns the componentwise difference of w and o.
func (w SymbolicWeight) Sub(o SymbolicWeight) SymbolicWeight {
	return SymbolicWeight{w[0] - o[0], w[1] - o[1], w[2] - o[2]}
}

// Times returns w scaled by k.
func (w SymbolicWeight) Times(k float64) SymbolicWeight {
	return SymbolicWeight{w[0] * k, w[1] * k, w[2] * k}
}

// DivideBy returns w divided by k.
func (w SymbolicWeight) DivideBy(k float64) SymbolicWeight {
	return SymbolicWeight{w[0] / k, w[1] / k, w[2] / k}
}

// Cmp compares w and o lexicographically, returning -1, 0 or 1.
func (w SymbolicWeight) Cmp(o SymbolicWeight) int {
	for i := range w {
		switch {
		case w[i] < o[i]:
			return -1
		case w[i] > o[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether w is lexicographically smaller than o.
func (w SymbolicWeight) Less(o SymbolicWeight) bool {
	return w.Cmp(o) < 0
}

// DefinitelyNegative reports whether the first nonzero component of w
// is smaller than -epsilon.
func (w SymbolicWeight) DefinitelyNegative() bool {
	for i := range w {
		if w[i] < -epsilon {
			return true
		}
		if w[i] > epsilon {
			return false
		}
	}
	return false
}

// ApproxEqual reports componentwise approximate equality.
func (w SymbolicWeight) ApproxEqual(o SymbolicWeight) bool {
	return approx(w[0], o[0]) && approx(w[1], o[1]) && approx(w[2], o[2])
}

func (w SymbolicWeight) approxZero() bool {
	return math.Abs(w[0]) < epsilon && math.Abs(w[1]) < epsilon && math.Abs(w[2]) < epsilon
}

// Strength is a named constraint tier. Required is distinguished: it
// carries no symbolic weight and participates as a hard equality or
// inequality; all other tiers contribute their weight to the objective
// function through the constraint's error variables.
type Strength struct {
	name     string
	weight   SymbolicWeight
	required bool
}

var (
	Required = Strength{name: "required", required: true}
	Strong   = Strength{name: "strong", weight: SymbolicWeight{1, 0, 0}}
	Medium   = Strength{name: "medium", weight: SymbolicWeight{0, 1, 0}}
	Weak     = Strength{name: "weak", weight: SymbolicWeight{0, 0, 1}}
)

// NewStrength creates a custom preferential strength tier with the
// given symbolic weight components.
func NewStrength(name string, a, b, c float64) Strength {
	return Strength{name: name, weight: SymbolicWeight{a, b, c}}
}

// IsRequired reports whether s is the distinguished required tier.
func (s Strength) IsRequired() bool {
	return s.required
}

// Name returns the tier name provided at creation.
func (s Strength) Name() string {
	return s.name
}

// Weight returns the tier's symbolic weight. The required tier has no
// meaningful weight.
func (s Strength) Weight() SymbolicWeight {
	return s.weight
}

func (s Strength) String() string {
	if s.required {
		return s.name
	}
	return fmt.Sprintf("%s%v", s.name, [3]float64(s.weight))
}
