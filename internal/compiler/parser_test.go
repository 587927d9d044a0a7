package compiler

import (
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Precedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1+2*3", "(1 + (2 * 3))"},
		{"(1+2)*3", "((1 + 2) * 3)"},
		{"2^3^2", "(2 ^ (3 ^ 2))"},
		{"2**3", "(2 ^ 3)"},
		{"-2^2", "(-(2 ^ 2))"},
		{"2^-1", "(2 ^ (-1))"},
		{"8/4/2", "((8 / 4) / 2)"},
		{"Math.sqrt(16)+pi", "(sqrt(16) + pi)"},
		{"sin(π)", "sin(π)"},
	}
	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree, err := p.Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tree.String())
		})
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"2+",
		"(2+3",
		"2+3)",
		"sin 90",
		"foo(2)",
		"Error",
		"2 3",
		"*2",
	}
	p := NewParser()
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := p.Parse(src)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
			assert.ErrorIs(t, err, domain.ErrEvaluation)
		})
	}
}
