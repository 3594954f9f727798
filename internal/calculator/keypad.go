package calculator

import (
	"fmt"
	"strings"
)

// Button identifies a key on the calculator keypad.
type Button string

const (
	ButtonPoint    Button = "."
	ButtonAdd      Button = "+"
	ButtonSubtract Button = "-"
	ButtonMultiply Button = "*"
	ButtonDivide   Button = "/"
	ButtonEquals   Button = "="
	ButtonClear    Button = "AC"
	ButtonSign     Button = "+/-"
	ButtonPercent  Button = "%"
	ButtonSin      Button = Button(FuncSin)
	ButtonCos      Button = Button(FuncCos)
	ButtonTan      Button = Button(FuncTan)
	ButtonLog      Button = Button(FuncLog)
	ButtonSqrt     Button = Button(FuncSqrt)
)

// Category groups buttons by role. It drives both engine dispatch and how a
// display surface styles the key.
type Category string

const (
	CategoryUnknown    Category = ""
	CategoryDigit      Category = "digit"
	CategoryAction     Category = "action"
	CategoryExtra      Category = "extra"
	CategoryScientific Category = "scientific"
)

// Category reports the button's category, or CategoryUnknown for identifiers
// that are not on the keypad.
func (b Button) Category() Category {
	switch b {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ButtonPoint:
		return CategoryDigit
	case ButtonAdd, ButtonSubtract, ButtonMultiply, ButtonDivide, ButtonEquals:
		return CategoryAction
	case ButtonClear, ButtonSign, ButtonPercent:
		return CategoryExtra
	case ButtonSin, ButtonCos, ButtonTan, ButtonLog, ButtonSqrt:
		return CategoryScientific
	}
	return CategoryUnknown
}

// IsOperator reports whether b is one of the four binary operators.
func (b Button) IsOperator() bool {
	switch b {
	case ButtonAdd, ButtonSubtract, ButtonMultiply, ButtonDivide:
		return true
	}
	return false
}

// ParseButton validates a button identifier.
func ParseButton(s string) (Button, error) {
	b := Button(strings.TrimSpace(s))
	if b.Category() == CategoryUnknown {
		return b, fmt.Errorf("%w: %q", ErrUnknownButton, s)
	}
	return b, nil
}

// Style is the colour pair a display surface uses for a key.
type Style struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// Styles maps each category to its key colours.
var Styles = map[Category]Style{
	CategoryDigit:      {Background: "white24", Foreground: "white"},
	CategoryAction:     {Background: "orange", Foreground: "white"},
	CategoryExtra:      {Background: "bluegrey100", Foreground: "black"},
	CategoryScientific: {Background: "blueaccent200", Foreground: "black"},
}

// Key is one rendered keypad position.
type Key struct {
	Label    Button   `json:"label"`
	Category Category `json:"category"`
	Style
	Span int `json:"span"`
}

// layout is the keypad grid, top row first.
var layout = [][]Button{
	{ButtonSin, ButtonClear, ButtonSign, ButtonPercent, ButtonDivide},
	{ButtonCos, "7", "8", "9", ButtonMultiply},
	{ButtonTan, "4", "5", "6", ButtonSubtract},
	{ButtonLog, "1", "2", "3", ButtonAdd},
	{ButtonSqrt, "0", ButtonPoint, ButtonEquals},
}

// Keypad returns the keypad rows with styling resolved. The zero key spans
// two columns so that every row has the same width.
func Keypad() [][]Key {
	rows := make([][]Key, 0, len(layout))
	for _, row := range layout {
		keys := make([]Key, 0, len(row))
		for _, b := range row {
			span := 1
			if b == "0" {
				span = 2
			}
			cat := b.Category()
			keys = append(keys, Key{Label: b, Category: cat, Style: Styles[cat], Span: span})
		}
		rows = append(rows, keys)
	}
	return rows
}
