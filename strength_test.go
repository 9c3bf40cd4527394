package cassowary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolicWeightOrdering(t *testing.T) {
	assert.True(t, Weak.Weight().Less(Medium.Weight()))
	assert.True(t, Medium.Weight().Less(Strong.Weight()))
	assert.True(t, Weak.Weight().Less(Strong.Weight()))

	// a later tier never outweighs an earlier one, whatever the scale
	assert.True(t, Medium.Weight().Times(1e9).Less(Strong.Weight()))
	assert.Equal(t, 0, Strong.Weight().Cmp(Strong.Weight()))
}

func TestSymbolicWeightArithmetic(t *testing.T) {
	w := SymbolicWeight{1, 2, 3}

	assert.Equal(t, SymbolicWeight{2, 4, 6}, w.Add(w))
	assert.Equal(t, SymbolicWeight{0, 0, 0}, w.Sub(w))
	assert.Equal(t, SymbolicWeight{2, 4, 6}, w.Times(2))
	assert.Equal(t, SymbolicWeight{0.5, 1, 1.5}, w.DivideBy(2))
	assert.True(t, w.ApproxEqual(w.Times(3).DivideBy(3)))
}

func TestDefinitelyNegative(t *testing.T) {
	assert.True(t, SymbolicWeight{-1, 0, 0}.DefinitelyNegative())
	assert.True(t, SymbolicWeight{0, 0, -1}.DefinitelyNegative())
	assert.False(t, SymbolicWeight{1, -5, 0}.DefinitelyNegative())
	assert.False(t, SymbolicWeight{0, 0, 0}.DefinitelyNegative())
	// a leading component within epsilon of zero is skipped over
	assert.True(t, SymbolicWeight{epsilon / 2, -1, 0}.DefinitelyNegative())
}

func TestStrengthTiers(t *testing.T) {
	assert.True(t, Required.IsRequired())
	assert.False(t, Strong.IsRequired())

	custom := NewStrength("headroom", 0, 0.5, 0)
	assert.False(t, custom.IsRequired())
	assert.True(t, custom.Weight().Less(Medium.Weight()))
	assert.Equal(t, "headroom", custom.Name())
}

func TestApprox(t *testing.T) {
	assert.True(t, approx(0, 0))
	assert.True(t, approx(1, 1+1e-12))
	assert.False(t, approx(1, 1.1))
	assert.True(t, approx(0, 1e-9))
	assert.False(t, approx(0, 1e-6))
	assert.True(t, approx(1e9, 1e9+1))
}
