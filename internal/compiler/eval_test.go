package compiler

import (
	"math"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluator_Arithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"2+2", 4},
		{"1+2*3", 7},
		{"(1+2)*3", 9},
		{"2^10", 1024},
		{"2**3**2", 512},
		{"-2^2", -4},
		{"10/4", 2.5},
		{"sqrt(16)", 4},
		{"log(1000)", 3},
		{"ln(e)", 1},
		{"Math.PI", math.Pi},
		{"Math.E", math.E},
	}
	e := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := e.Evaluate(tt.src, domain.AngleRadians)
			require.True(t, res.OK(), "unexpected error: %v", res.Err)
			assert.InDelta(t, tt.want, res.Value, 1e-12)
		})
	}
}

func TestEvaluator_AngleModes(t *testing.T) {
	e := NewEvaluator()

	deg := e.Evaluate("sin(90)", domain.AngleDegrees)
	require.True(t, deg.OK())
	assert.InDelta(t, 1, deg.Value, 1e-12)

	rad := e.Evaluate("sin(Math.PI/2)", domain.AngleRadians)
	require.True(t, rad.OK())
	assert.InDelta(t, 1, rad.Value, 1e-12)

	// Only the argument is scaled, not the whole expression.
	mixed := e.Evaluate("cos(60)*2+90", domain.AngleDegrees)
	require.True(t, mixed.OK())
	assert.InDelta(t, 91, mixed.Value, 1e-9)

	// Nested calls are converted independently.
	nested := e.Evaluate("sin(cos(0)*90)", domain.AngleDegrees)
	require.True(t, nested.OK())
	assert.InDelta(t, 1, nested.Value, 1e-12)
}

func TestEvaluator_HostSemantics(t *testing.T) {
	e := NewEvaluator()

	inf := e.Evaluate("1/0", domain.AngleDegrees)
	require.True(t, inf.OK())
	assert.True(t, math.IsInf(inf.Value, 1))
	assert.Equal(t, "Infinity", FormatNumber(inf.Value))

	nan := e.Evaluate("sqrt(-1)", domain.AngleDegrees)
	require.True(t, nan.OK())
	assert.Equal(t, "NaN", FormatNumber(nan.Value))
}

func TestEvaluator_Failure(t *testing.T) {
	res := NewEvaluator().Evaluate("2+", domain.AngleDegrees)
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, domain.ErrEvaluation)
}

func TestConvertAngles_RadiansIsIdentity(t *testing.T) {
	tree, err := NewParser().Parse("sin(1)")
	require.NoError(t, err)
	assert.Same(t, tree, ConvertAngles(tree, domain.AngleRadians))
	assert.Equal(t, "sin((1 * π/180))", ConvertAngles(tree, domain.AngleDegrees).String())
}
