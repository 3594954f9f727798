package calculator

import (
	"errors"
	"math"
	"testing"
)

func pressAll(t *testing.T, s State, buttons ...Button) State {
	t.Helper()
	for _, b := range buttons {
		s = Press(s, b)
	}
	return s
}

func assertDisplayNear(t *testing.T, s State, want float64) {
	t.Helper()
	got, err := ParseDisplay(s.Display)
	if err != nil {
		t.Fatalf("expected numeric display, got %q: %v", s.Display, err)
	}
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected display ≈ %g, got %q", want, s.Display)
	}
}

func TestNewState(t *testing.T) {
	s := NewState()
	want := State{Display: "0", Operator: OpAdd, Operand1: 0, NewOperand: true}
	if s != want {
		t.Fatalf("expected %+v, got %+v", want, s)
	}
}

func TestDigitsConcatenate(t *testing.T) {
	tests := []struct {
		name    string
		buttons []Button
		want    string
	}{
		{name: "single digit replaces zero", buttons: []Button{"7"}, want: "7"},
		{name: "several digits", buttons: []Button{"1", "2", "3"}, want: "123"},
		{name: "leading zero replaced", buttons: []Button{"0", "0", "4"}, want: "4"},
		{name: "decimal", buttons: []Button{"3", ".", "1", "4"}, want: "3.14"},
		{name: "point on fresh display", buttons: []Button{".", "5"}, want: "0.5"},
		{name: "repeated points accepted", buttons: []Button{"1", ".", ".", "2"}, want: "1..2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := pressAll(t, NewState(), tc.buttons...)
			if s.Display != tc.want {
				t.Fatalf("expected display %q, got %q", tc.want, s.Display)
			}
			if s.NewOperand {
				t.Fatal("expected new-operand flag to be cleared after digit entry")
			}
		})
	}
}

func TestSequences(t *testing.T) {
	tests := []struct {
		name    string
		buttons []Button
		want    string
	}{
		{name: "chained left to right", buttons: []Button{"5", "+", "3", "*", "2", "="}, want: "16"},
		{name: "subtraction", buttons: []Button{"9", "-", "1", "2", "="}, want: "-3"},
		{name: "division", buttons: []Button{"7", "/", "2", "="}, want: "3.5"},
		{name: "operator shows running total", buttons: []Button{"2", "+", "3", "+"}, want: "5"},
		{name: "consecutive operators apply stale operator", buttons: []Button{"5", "*", "-", "2", "="}, want: "23"},
		{name: "equals on fresh state", buttons: []Button{"="}, want: "0"},
		{name: "digit after equals starts new number", buttons: []Button{"2", "+", "3", "=", "4"}, want: "4"},
		{name: "percent", buttons: []Button{"5", "0", "%"}, want: "0.5"},
		{name: "sign flip", buttons: []Button{"1", "2", "+/-"}, want: "-12"},
		{name: "sign flip of zero", buttons: []Button{"+/-"}, want: "0"},
		{name: "float noise is kept", buttons: []Button{".", "1", "+", ".", "2", "="}, want: "0.30000000000000004"},
		{name: "large numbers stay decimal", buttons: []Button{"1", "0", "0", "0", "*", "1", "0", "0", "0", "="}, want: "1000000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := pressAll(t, NewState(), tc.buttons...)
			if s.Display != tc.want {
				t.Fatalf("expected display %q, got %q", tc.want, s.Display)
			}
		})
	}
}

func TestOperatorStoresPendingState(t *testing.T) {
	s := pressAll(t, NewState(), "5", "+", "3", "*")

	want := State{Display: "8", Operator: OpMultiply, Operand1: 8, NewOperand: true}
	if s != want {
		t.Fatalf("expected %+v, got %+v", want, s)
	}
}

func TestEqualsAndPercentReset(t *testing.T) {
	for _, last := range []Button{ButtonEquals, ButtonPercent} {
		t.Run(string(last), func(t *testing.T) {
			s := pressAll(t, NewState(), "5", "0", "*", "2", last)
			if s.Operator != OpAdd || s.Operand1 != 0 || !s.NewOperand {
				t.Fatalf("expected reset fields, got %+v", s)
			}
		})
	}
}

func TestClearFromAnyState(t *testing.T) {
	starts := [][]Button{
		{},
		{"1", "2"},
		{"5", "*", "3"},
		{"8", "/", "0", "="},
		{"4", "sqrt", "+/-"},
	}

	for _, seq := range starts {
		s := pressAll(t, NewState(), seq...)
		s = Press(s, ButtonClear)
		if s != NewState() {
			t.Fatalf("after %v AC: expected %+v, got %+v", seq, NewState(), s)
		}
	}
}

func TestSignFlipIsInvolution(t *testing.T) {
	for _, seq := range [][]Button{{"1", "2"}, {"1", ".", "5"}, {"0"}, {"9", "+/-"}} {
		s := pressAll(t, NewState(), seq...)
		before, err := ParseDisplay(s.Display)
		if err != nil {
			t.Fatalf("parse %q: %v", s.Display, err)
		}

		s = pressAll(t, s, ButtonSign, ButtonSign)

		after, err := ParseDisplay(s.Display)
		if err != nil {
			t.Fatalf("parse %q: %v", s.Display, err)
		}
		if before != after {
			t.Fatalf("expected %g after double flip, got %g", before, after)
		}
	}
}

func TestScientificFunctions(t *testing.T) {
	tests := []struct {
		name    string
		buttons []Button
		want    float64
	}{
		{name: "sqrt", buttons: []Button{"4", "sqrt"}, want: 2},
		{name: "log", buttons: []Button{"1", "0", "0", "log"}, want: 2},
		{name: "sin degrees", buttons: []Button{"3", "0", "sin"}, want: 0.5},
		{name: "cos degrees", buttons: []Button{"6", "0", "cos"}, want: 0.5},
		{name: "tan degrees", buttons: []Button{"4", "5", "tan"}, want: 1},
		{name: "sqrt of zero", buttons: []Button{"0", "sqrt"}, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertDisplayNear(t, pressAll(t, NewState(), tc.buttons...), tc.want)
		})
	}
}

func TestScientificDoesNotReset(t *testing.T) {
	s := pressAll(t, NewState(), "3", "+", "4", "sqrt")
	if s.Operator != OpAdd || s.Operand1 != 3 {
		t.Fatalf("expected pending operation to survive, got %+v", s)
	}
	s = Press(s, ButtonEquals)
	assertDisplayNear(t, s, 5)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		buttons []Button
		last    Button
		wantErr error
	}{
		{name: "division by zero", buttons: []Button{"8", "/", "0"}, last: ButtonEquals, wantErr: ErrDomain},
		{name: "division by zero on operator", buttons: []Button{"8", "/", "0"}, last: ButtonAdd, wantErr: ErrDomain},
		{name: "log of zero", buttons: []Button{"0"}, last: ButtonLog, wantErr: ErrDomain},
		{name: "log of negative", buttons: []Button{"5", "+/-"}, last: ButtonLog, wantErr: ErrDomain},
		{name: "sqrt of negative", buttons: []Button{"4", "+/-"}, last: ButtonSqrt, wantErr: ErrDomain},
		{name: "malformed number", buttons: []Button{"1", ".", ".", "2"}, last: ButtonAdd, wantErr: ErrParse},
		{name: "malformed number percent", buttons: []Button{"1", ".", ".", "2"}, last: ButtonPercent, wantErr: ErrParse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := pressAll(t, NewState(), tc.buttons...)

			got, err := Step(before, tc.last)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if got.Display != ErrorMarker {
				t.Fatalf("expected display %q, got %q", ErrorMarker, got.Display)
			}
			if got.Operator != before.Operator || got.Operand1 != before.Operand1 || got.NewOperand != before.NewOperand {
				t.Fatalf("expected other fields untouched: before %+v, after %+v", before, got)
			}
		})
	}
}

func TestErrorRecovery(t *testing.T) {
	errored := pressAll(t, NewState(), "8", "/", "0", "=")
	if errored.Display != ErrorMarker {
		t.Fatalf("expected error display, got %q", errored.Display)
	}

	t.Run("digit resets then enters", func(t *testing.T) {
		s := Press(errored, "7")
		if s.Display != "7" {
			t.Fatalf("expected display %q, got %q", "7", s.Display)
		}
		if s.Operator != OpAdd || s.Operand1 != 0 {
			t.Fatalf("expected reset fields, got %+v", s)
		}
	})

	t.Run("point resets then enters", func(t *testing.T) {
		if s := Press(errored, ButtonPoint); s.Display != "0." {
			t.Fatalf("expected display %q, got %q", "0.", s.Display)
		}
	})

	t.Run("other buttons only reset", func(t *testing.T) {
		for _, b := range []Button{ButtonAdd, ButtonEquals, ButtonSqrt, ButtonSign, ButtonPercent} {
			if s := Press(errored, b); s != NewState() {
				t.Fatalf("%s: expected %+v, got %+v", b, NewState(), s)
			}
		}
	})
}

func TestUnknownButtonIsIgnored(t *testing.T) {
	before := pressAll(t, NewState(), "4", "*")

	got, err := Step(before, "pow")
	if !errors.Is(err, ErrUnknownButton) {
		t.Fatalf("expected ErrUnknownButton, got %v", err)
	}
	if got != before {
		t.Fatalf("expected state unchanged, got %+v", got)
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	s := pressAll(t, NewState(), "1", "2")
	snapshot := s

	_ = Press(s, "3")
	_ = Press(s, ButtonAdd)

	if s != snapshot {
		t.Fatalf("expected input state unchanged, got %+v", s)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		a, b    float64
		op      Operator
		want    float64
		wantErr error
	}{
		{a: 2, b: 3, op: OpAdd, want: 5},
		{a: 2, b: 3, op: OpSubtract, want: -1},
		{a: 2, b: 3, op: OpMultiply, want: 6},
		{a: 3, b: 2, op: OpDivide, want: 1.5},
		{a: 3, b: 0, op: OpDivide, wantErr: ErrDomain},
		{a: math.MaxFloat64, b: 2, op: OpMultiply, wantErr: ErrDomain},
	}

	for _, tc := range tests {
		got, err := Apply(tc.a, tc.b, tc.op)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("%g %s %g: expected %v, got %v", tc.a, tc.op, tc.b, tc.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%g %s %g: unexpected error %v", tc.a, tc.op, tc.b, err)
		}
		if got != tc.want {
			t.Fatalf("%g %s %g: expected %g, got %g", tc.a, tc.op, tc.b, tc.want, got)
		}
	}

	if _, err := Apply(1, 1, "^"); err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 16, want: "16"},
		{in: 0.5, want: "0.5"},
		{in: -3, want: "-3"},
		{in: math.Copysign(0, -1), want: "0"},
		{in: 1e6, want: "1000000"},
		{in: 1e21, want: "1e+21"},
		{in: 1e-8, want: "1e-08"},
	}

	for _, tc := range tests {
		if got := Format(tc.in); got != tc.want {
			t.Fatalf("Format(%g): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestParseDisplayRejectsNonFinite(t *testing.T) {
	for _, in := range []string{"", "Error", "NaN", "Inf", "-inf", "1..2", "."} {
		if _, err := ParseDisplay(in); !errors.Is(err, ErrParse) {
			t.Fatalf("ParseDisplay(%q): expected ErrParse, got %v", in, err)
		}
	}
}
