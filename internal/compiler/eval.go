package compiler

import (
	"fmt"
	"math"

	"github.com/aretw0/abacus/pkg/domain"
)

// ConvertAngles returns a copy of n in which, for degree mode, the argument of
// every trigonometric call is scaled by π/180. Radian mode returns n unchanged.
func ConvertAngles(n Node, mode domain.AngleMode) Node {
	if mode != domain.AngleDegrees {
		return n
	}
	return convert(n)
}

func convert(n Node) Node {
	switch v := n.(type) {
	case *Unary:
		return &Unary{Op: v.Op, X: convert(v.X)}
	case *Binary:
		return &Binary{Op: v.Op, X: convert(v.X), Y: convert(v.Y)}
	case *Scale:
		return &Scale{X: convert(v.X), Factor: v.Factor}
	case *Call:
		arg := convert(v.Arg)
		if trigonometric[v.Func] {
			arg = &Scale{X: arg, Factor: degToRad}
		}
		return &Call{Func: v.Func, Arg: arg}
	}
	return n
}

// Eval computes the value of a tree using IEEE-754 semantics:
// division by zero is ±Inf and invalid domains are NaN, never errors.
func Eval(n Node) (float64, error) {
	switch v := n.(type) {
	case *Number:
		return v.Value, nil
	case *Constant:
		return v.Value, nil
	case *Unary:
		x, err := Eval(v.X)
		if err != nil {
			return 0, err
		}
		if v.Op == '-' {
			return -x, nil
		}
		return x, nil
	case *Scale:
		x, err := Eval(v.X)
		if err != nil {
			return 0, err
		}
		return x * v.Factor, nil
	case *Call:
		fn, ok := functions[v.Func]
		if !ok {
			return 0, &SyntaxError{Msg: fmt.Sprintf("undefined function %q", v.Func)}
		}
		x, err := Eval(v.Arg)
		if err != nil {
			return 0, err
		}
		return fn(x), nil
	case *Binary:
		x, err := Eval(v.X)
		if err != nil {
			return 0, err
		}
		y, err := Eval(v.Y)
		if err != nil {
			return 0, err
		}
		switch v.Op {
		case '+':
			return x + y, nil
		case '-':
			return x - y, nil
		case '*':
			return x * y, nil
		case '/':
			return x / y, nil
		case '^':
			return math.Pow(x, y), nil
		}
		return 0, &SyntaxError{Msg: fmt.Sprintf("unknown operator %q", v.Op)}
	}
	return 0, &SyntaxError{Msg: fmt.Sprintf("unknown node %T", n)}
}

// Evaluator parses and evaluates buffer text.
type Evaluator struct {
	parser *Parser
}

// NewEvaluator creates an evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{parser: NewParser()}
}

// Evaluate parses src, applies the angle transform for mode and computes the value.
func (e *Evaluator) Evaluate(src string, mode domain.AngleMode) domain.Result {
	tree, err := e.parser.Parse(src)
	if err != nil {
		return domain.Result{Err: err}
	}
	v, err := Eval(ConvertAngles(tree, mode))
	if err != nil {
		return domain.Result{Err: err}
	}
	return domain.Result{Value: v}
}
