package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestLexer_Tokenize(t *testing.T) {
	tests := []struct {
		src  string
		want []TokenKind
	}{
		{"2+2", []TokenKind{TokenNumber, TokenPlus, TokenNumber, TokenEOF}},
		{"2**3", []TokenKind{TokenNumber, TokenCaret, TokenNumber, TokenEOF}},
		{"Math.sin(.5)", []TokenKind{TokenIdent, TokenLParen, TokenNumber, TokenRParen, TokenEOF}},
		{" π * 2 ", []TokenKind{TokenIdent, TokenStar, TokenNumber, TokenEOF}},
		{"1.5e3/2", []TokenKind{TokenNumber, TokenSlash, TokenNumber, TokenEOF}},
		{"2e", []TokenKind{TokenNumber, TokenIdent, TokenEOF}},
		{"", []TokenKind{TokenEOF}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens, err := NewLexer(tt.src).Tokenize()
			require.NoError(t, err)
			assert.Equal(t, tt.want, kinds(tokens))
		})
	}
}

func TestLexer_NumberValues(t *testing.T) {
	tokens, err := NewLexer("1.5e3 .25 7").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, 1500.0, tokens[0].Value)
	assert.Equal(t, 0.25, tokens[1].Value)
	assert.Equal(t, 7.0, tokens[2].Value)
}

func TestLexer_RejectsUnknownCharacters(t *testing.T) {
	for _, src := range []string{"2%3", "2;3", "a=1", "2$"} {
		t.Run(src, func(t *testing.T) {
			_, err := NewLexer(src).Tokenize()
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
		})
	}
}
