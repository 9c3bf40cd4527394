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

// SolveError enumerates the error kinds surfaced by the solver. They
// are wrapped with call-site context and can be matched with
// errors.Is.
type SolveError int

const (
	// ErrRequiredFailure reports a required constraint that is
	// inconsistent with the current system. The attempted constraint is
	// not enabled; the solver remains usable.
	ErrRequiredFailure = SolveError(iota + 1)
	// ErrNonLinear reports expression arithmetic that would produce a
	// nonlinear form.
	ErrNonLinear
	// ErrNotEnoughStays reports a resolve requiring more stays than
	// available. It is reserved: the base algorithm never raises it.
	ErrNotEnoughStays
	// ErrUnknownConstraint reports the removal of a constraint that is
	// not in the solver.
	ErrUnknownConstraint
	// ErrInternal reports an invariant violation, an unbounded
	// objective or a missing pivot ratio. It indicates a programming
	// error; the solver state is undefined afterwards.
	ErrInternal
)

// Error returns a string representation of the given error value.
func (e SolveError) Error() string {
	switch e {
	case ErrRequiredFailure:
		return "required constraint cannot be satisfied"
	case ErrNonLinear:
		return "expression is not linear"
	case ErrNotEnoughStays:
		return "not enough stay constraints"
	case ErrUnknownConstraint:
		return "constraint is not in the solver"
	case ErrInternal:
		return "internal solver error"
	default:
		panic("unrecognized error")
	}
}
