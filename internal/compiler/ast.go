package compiler

import (
	"math"
	"strconv"
)

// Node is a typed expression tree element.
type Node interface {
	String() string
	node()
}

// Number is a numeric literal.
type Number struct {
	Value float64
}

// Constant is a named constant such as π.
type Constant struct {
	Name  string
	Value float64
}

// Unary is a sign applied to an operand.
type Unary struct {
	Op rune // '+' or '-'
	X  Node
}

// Binary is an arithmetic operation.
type Binary struct {
	Op   rune // '+', '-', '*', '/', '^'
	X, Y Node
}

// Call applies a named unary function.
type Call struct {
	Func string
	Arg  Node
}

// Scale multiplies its operand by a fixed factor.
// It is produced by ConvertAngles, never by the parser.
type Scale struct {
	X      Node
	Factor float64
}

func (*Number) node()   {}
func (*Constant) node() {}
func (*Unary) node()    {}
func (*Binary) node()   {}
func (*Call) node()     {}
func (*Scale) node()    {}

func (n *Number) String() string   { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *Constant) String() string { return n.Name }
func (n *Unary) String() string    { return "(" + string(n.Op) + n.X.String() + ")" }
func (n *Binary) String() string {
	return "(" + n.X.String() + " " + string(n.Op) + " " + n.Y.String() + ")"
}
func (n *Call) String() string { return n.Func + "(" + n.Arg.String() + ")" }
func (n *Scale) String() string {
	if n.Factor == degToRad {
		return "(" + n.X.String() + " * π/180)"
	}
	return "(" + n.X.String() + " * " + strconv.FormatFloat(n.Factor, 'g', -1, 64) + ")"
}

const degToRad = math.Pi / 180

// constants maps every accepted spelling to its value. "Math." is stripped first.
var constants = map[string]float64{
	"π":  math.Pi,
	"pi": math.Pi,
	"PI": math.Pi,
	"e":  math.E,
	"E":  math.E,
}

// functions are the named unary functions the grammar accepts.
var functions = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"log":  math.Log10,
	"ln":   math.Log,
	"sqrt": math.Sqrt,
}

// trigonometric functions take an angle argument.
var trigonometric = map[string]bool{
	"sin": true,
	"cos": true,
	"tan": true,
}
