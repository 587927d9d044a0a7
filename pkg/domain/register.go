package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Register is the memory slot value. It is a plain float64 that survives
// JSON round-trips even when poisoned with NaN or pushed to Infinity.
type Register float64

// Float returns the register as a float64.
func (r Register) Float() float64 {
	return float64(r)
}

// MarshalJSON encodes finite values as numbers and the rest as strings.
func (r Register) MarshalJSON() ([]byte, error) {
	f := float64(r)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Infinity"`), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON accepts what MarshalJSON produces.
func (r *Register) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "NaN":
			*r = Register(math.NaN())
		case "Infinity":
			*r = Register(math.Inf(1))
		case "-Infinity":
			*r = Register(math.Inf(-1))
		default:
			return fmt.Errorf("invalid register value %q", s)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid register value: %w", err)
	}
	*r = Register(f)
	return nil
}

// Result is the outcome of one evaluation. Exactly one of Value or Err is meaningful.
type Result struct {
	Value float64
	Err   error
}

// OK reports whether the evaluation produced a number.
func (r Result) OK() bool {
	return r.Err == nil
}
