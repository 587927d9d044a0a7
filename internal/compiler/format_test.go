package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{4, "4"},
		{0.5, "0.5"},
		{-2.5, "-2.5"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1e21, "1e+21"},
		{1e20, "100000000000000000000"},
		{1e-7, "1e-7"},
		{0.000001, "0.000001"},
		{1.5e-10, "1.5e-10"},
		{math.Copysign(0, -1), "0"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestHistoryText(t *testing.T) {
	assert.Equal(t, "sin(PI/2)", HistoryText("Math.sin(Math.PI/2)"))
	assert.Equal(t, "2^3", HistoryText("2**3"))
	assert.Equal(t, "2^3", HistoryText("2^3"))
}

func TestIsNumberLiteral(t *testing.T) {
	assert.True(t, IsNumberLiteral("12.5"))
	assert.True(t, IsNumberLiteral("-3"))
	assert.False(t, IsNumberLiteral("2+3"))
	assert.False(t, IsNumberLiteral("pi"))
	assert.False(t, IsNumberLiteral(""))
	assert.False(t, IsNumberLiteral("Error"))
}
