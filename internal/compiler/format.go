package compiler

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders f the way a JavaScript host converts a number to text:
// shortest round-trip digits, exponent form outside [1e-6, 1e21).
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// HistoryText is how an expression is shown in the history log:
// the "Math." qualifier is dropped and "**" is written as "^".
func HistoryText(expr string) string {
	out := strings.ReplaceAll(expr, "Math.", "")
	return strings.ReplaceAll(out, "**", "^")
}

// IsNumberLiteral reports whether s is a single, optionally signed, number.
func IsNumberLiteral(s string) bool {
	tokens, err := NewLexer(strings.TrimSpace(s)).Tokenize()
	if err != nil {
		return false
	}
	if len(tokens) > 0 && tokens[0].Kind == TokenMinus {
		tokens = tokens[1:]
	}
	return len(tokens) == 2 && tokens[0].Kind == TokenNumber
}
