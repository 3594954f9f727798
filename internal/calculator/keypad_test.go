package calculator

import (
	"errors"
	"testing"
)

func TestParseButton(t *testing.T) {
	valid := []string{"0", "9", ".", "+", "-", "*", "/", "=", "AC", "+/-", "%", "sin", "cos", "tan", "log", "sqrt", " 7 "}
	for _, in := range valid {
		if _, err := ParseButton(in); err != nil {
			t.Fatalf("ParseButton(%q): unexpected error %v", in, err)
		}
	}

	for _, in := range []string{"", "ac", "10", "pow", "x"} {
		if _, err := ParseButton(in); !errors.Is(err, ErrUnknownButton) {
			t.Fatalf("ParseButton(%q): expected ErrUnknownButton, got %v", in, err)
		}
	}
}

func TestButtonCategory(t *testing.T) {
	tests := []struct {
		button Button
		want   Category
	}{
		{button: "5", want: CategoryDigit},
		{button: ButtonPoint, want: CategoryDigit},
		{button: ButtonDivide, want: CategoryAction},
		{button: ButtonEquals, want: CategoryAction},
		{button: ButtonClear, want: CategoryExtra},
		{button: ButtonPercent, want: CategoryExtra},
		{button: ButtonSqrt, want: CategoryScientific},
		{button: "?", want: CategoryUnknown},
	}

	for _, tc := range tests {
		if got := tc.button.Category(); got != tc.want {
			t.Fatalf("%q: expected category %q, got %q", tc.button, tc.want, got)
		}
	}

	if ButtonEquals.IsOperator() {
		t.Fatal("did not expect = to be a binary operator")
	}
}

func TestKeypadCoversEveryButtonOnce(t *testing.T) {
	seen := make(map[Button]int)
	for _, row := range Keypad() {
		width := 0
		for _, k := range row {
			seen[k.Label]++
			width += k.Span

			if k.Category == CategoryUnknown {
				t.Fatalf("key %q has no category", k.Label)
			}
			if k.Style != Styles[k.Category] {
				t.Fatalf("key %q: expected style %+v, got %+v", k.Label, Styles[k.Category], k.Style)
			}
		}
		if width != 5 {
			t.Fatalf("expected every row to span 5 columns, got %d", width)
		}
	}

	if len(seen) != 24 {
		t.Fatalf("expected 24 distinct keys, got %d", len(seen))
	}
	for b, n := range seen {
		if n != 1 {
			t.Fatalf("key %q appears %d times", b, n)
		}
	}
}
