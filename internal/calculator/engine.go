package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrorMarker is the display value shown after an invalid computation.
const ErrorMarker = "Error"

var (
	// ErrParse is returned when the display does not hold a number.
	ErrParse = errors.New("display is not a number")
	// ErrDomain is returned for undefined results: division by zero, log of a
	// non-positive value, sqrt of a negative value, or overflow.
	ErrDomain = errors.New("result is undefined")
	// ErrUnknownButton is returned for identifiers outside the keypad.
	ErrUnknownButton = errors.New("unknown button")
)

// Operator is a pending binary operator.
type Operator string

const (
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "*"
	OpDivide   Operator = "/"
)

// State is the complete calculator state. It is a value: Step never mutates
// its input.
type State struct {
	Display    string   `json:"display"`
	Operator   Operator `json:"operator"`
	Operand1   float64  `json:"operand1"`
	NewOperand bool     `json:"new_operand"`
}

// NewState returns the power-on state.
func NewState() State {
	return State{Display: "0", Operator: OpAdd, NewOperand: true}
}

// reset clears the operator, first operand and new-operand flag, keeping the display.
func (s State) reset() State {
	return State{Display: s.Display, Operator: OpAdd, NewOperand: true}
}

func (s State) fail() State {
	s.Display = ErrorMarker
	return s
}

// Press is Step without the error detail.
func Press(s State, b Button) State {
	next, _ := Step(s, b)
	return next
}

// Step feeds one button press through the engine and returns the next state.
//
// A parse or domain failure puts ErrorMarker on the display, leaves the other
// fields untouched, and is returned alongside the new state. An unknown button
// returns the state unchanged with ErrUnknownButton.
func Step(s State, b Button) (State, error) {
	cat := b.Category()
	if cat == CategoryUnknown {
		return s, fmt.Errorf("%w: %q", ErrUnknownButton, string(b))
	}

	if b == ButtonClear || s.Display == ErrorMarker {
		s = NewState()
		if cat != CategoryDigit {
			return s, nil
		}
	}

	switch {
	case cat == CategoryDigit:
		return enter(s, b), nil

	case b.IsOperator():
		result, err := s.evaluate()
		if err != nil {
			return s.fail(), err
		}
		s.Display = Format(result)
		s.Operator = Operator(b)
		s.Operand1 = result
		s.NewOperand = true
		return s, nil

	case b == ButtonEquals:
		result, err := s.evaluate()
		if err != nil {
			return s.fail(), err
		}
		s.Display = Format(result)
		return s.reset(), nil

	case b == ButtonPercent:
		v, err := ParseDisplay(s.Display)
		if err != nil {
			return s.fail(), err
		}
		s.Display = Format(v / 100)
		return s.reset(), nil

	case b == ButtonSign:
		v, err := ParseDisplay(s.Display)
		if err != nil {
			return s.fail(), err
		}
		s.Display = Format(-v)
		return s, nil

	case cat == CategoryScientific:
		v, err := ParseDisplay(s.Display)
		if err != nil {
			return s.fail(), err
		}
		result, err := Unary(Function(b), v)
		if err != nil {
			return s.fail(), err
		}
		s.Display = Format(result)
		return s, nil
	}

	return s, nil
}

// enter appends a digit or decimal point, or starts a new number. Repeated
// decimal points are accepted here and rejected at the next numeric operation.
func enter(s State, b Button) State {
	if s.Display == "0" || s.NewOperand {
		s.Display = string(b)
		if b == ButtonPoint {
			s.Display = "0."
		}
		s.NewOperand = false
		return s
	}
	s.Display += string(b)
	return s
}

// evaluate applies the pending operator to the first operand and the display.
func (s State) evaluate() (float64, error) {
	v, err := ParseDisplay(s.Display)
	if err != nil {
		return 0, err
	}
	return Apply(s.Operand1, v, s.Operator)
}

// Apply computes a op b.
func Apply(a, b float64, op Operator) (float64, error) {
	var result float64
	switch op {
	case OpAdd:
		result = a + b
	case OpSubtract:
		result = a - b
	case OpMultiply:
		result = a * b
	case OpDivide:
		if b == 0 {
			return 0, fmt.Errorf("%w: division by zero: %g / %g", ErrDomain, a, b)
		}
		result = a / b
	default:
		return 0, fmt.Errorf("unknown operator %q", string(op))
	}
	return finite(result)
}

// Function is one of the scientific keys.
type Function string

const (
	FuncSin  Function = "sin"
	FuncCos  Function = "cos"
	FuncTan  Function = "tan"
	FuncLog  Function = "log"
	FuncSqrt Function = "sqrt"
)

// Unary applies a scientific function. Trigonometric inputs are degrees and
// log is base 10.
func Unary(fn Function, x float64) (float64, error) {
	var result float64
	switch fn {
	case FuncSin:
		result = math.Sin(radians(x))
	case FuncCos:
		result = math.Cos(radians(x))
	case FuncTan:
		result = math.Tan(radians(x))
	case FuncLog:
		if x <= 0 {
			return 0, fmt.Errorf("%w: log of %g", ErrDomain, x)
		}
		result = math.Log10(x)
	case FuncSqrt:
		if x < 0 {
			return 0, fmt.Errorf("%w: sqrt of %g", ErrDomain, x)
		}
		result = math.Sqrt(x)
	default:
		return 0, fmt.Errorf("unknown function %q", string(fn))
	}
	return finite(result)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func finite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %g", ErrDomain, v)
	}
	return v, nil
}

// ParseDisplay reads a display value as a finite number.
func ParseDisplay(display string) (float64, error) {
	v, err := strconv.ParseFloat(display, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, display)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrParse, display)
	}
	return v, nil
}

// Format renders v the way the display shows numbers: the shortest decimal
// that round-trips, switching to exponent form only for very large or very
// small magnitudes. Negative zero renders as "0".
func Format(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-7 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
