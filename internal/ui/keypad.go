package ui

import (
	"github.com/charmbracelet/lipgloss"

	"go-calculator/internal/input"
)

const (
	buttonWidth  = 7
	buttonHeight = 3
	buttonGap    = 1
	gridColumns  = 4
)

type buttonKind int

const (
	digitButton buttonKind = iota
	operatorButton
	commandButton
)

// button is one keypad key. key is the name fed to input.Translate.
type button struct {
	label string
	key   string
	span  int
	kind  buttonKind
}

var keypad = [][]button{
	{
		{label: "AC", key: input.KeyDelete, span: 2, kind: commandButton},
		{label: "DEL", key: input.KeyBackspace, span: 1, kind: commandButton},
		{label: "÷", key: "÷", span: 1, kind: operatorButton},
	},
	{
		{label: "1", key: "1", span: 1},
		{label: "2", key: "2", span: 1},
		{label: "3", key: "3", span: 1},
		{label: "×", key: "×", span: 1, kind: operatorButton},
	},
	{
		{label: "4", key: "4", span: 1},
		{label: "5", key: "5", span: 1},
		{label: "6", key: "6", span: 1},
		{label: "+", key: "+", span: 1, kind: operatorButton},
	},
	{
		{label: "7", key: "7", span: 1},
		{label: "8", key: "8", span: 1},
		{label: "9", key: "9", span: 1},
		{label: "−", key: "−", span: 1, kind: operatorButton},
	},
	{
		{label: ".", key: ".", span: 1},
		{label: "0", key: "0", span: 1},
		{label: "=", key: "=", span: 2, kind: operatorButton},
	},
}

// keypadWidth is the width of a full row in cells.
var keypadWidth = gridColumns*buttonWidth + (gridColumns-1)*buttonGap

// placed is a button with its cell rectangle relative to the keypad origin.
type placed struct {
	button
	x, y, w, h int
}

func (p placed) contains(x, y int) bool {
	return x >= p.x && x < p.x+p.w && y >= p.y && y < p.y+p.h
}

// layoutKeypad positions every button. View and mouse hit testing share it.
func layoutKeypad() []placed {
	var out []placed
	for row, buttons := range keypad {
		col := 0
		for _, b := range buttons {
			out = append(out, placed{
				button: b,
				x:      col * (buttonWidth + buttonGap),
				y:      row * buttonHeight,
				w:      b.span*buttonWidth + (b.span-1)*buttonGap,
				h:      buttonHeight,
			})
			col += b.span
		}
	}
	return out
}

// buttonAt returns the button under keypad-relative cell (x, y).
func buttonAt(x, y int) (button, bool) {
	for _, p := range layoutKeypad() {
		if p.contains(x, y) {
			return p.button, true
		}
	}
	return button{}, false
}

func renderKeypad(st Styles, pressed string) string {
	rows := make([]string, 0, len(keypad))
	for _, buttons := range keypad {
		cells := make([]string, 0, 2*len(buttons))
		for i, b := range buttons {
			if i > 0 {
				cells = append(cells, lipgloss.NewStyle().Width(buttonGap).Render(""))
			}
			style := st.Digit
			switch {
			case b.key == pressed:
				style = st.Pressed
			case b.kind == operatorButton:
				style = st.Operator
			case b.kind == commandButton:
				style = st.Command
			}
			w := b.span*buttonWidth + (b.span-1)*buttonGap
			cells = append(cells, style.Width(w).Render(b.label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
