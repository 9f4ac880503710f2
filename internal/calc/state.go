// Package calc holds the keypad calculator core: the state value, the action
// variants, the reducer and the display formatter. Nothing here performs I/O.
package calc

// Operand is an optional digit string. The zero value is absent.
type Operand struct {
	value   string
	present bool
}

// NewOperand returns a present operand, which may be empty.
func NewOperand(s string) Operand {
	return Operand{value: s, present: true}
}

// IsSet reports whether the operand is present.
func (o Operand) IsSet() bool {
	return o.present
}

// Value returns the digits and whether the operand is present.
func (o Operand) Value() (string, bool) {
	return o.value, o.present
}

// String returns the raw digits, or "" when absent.
func (o Operand) String() string {
	return o.value
}

// Operation is one of the four binary operators. The empty Operation is absent.
type Operation string

const (
	Add      Operation = "+"
	Subtract Operation = "−"
	Multiply Operation = "×"
	Divide   Operation = "÷"
)

// Valid reports whether o is one of the four operators.
func (o Operation) Valid() bool {
	switch o {
	case Add, Subtract, Multiply, Divide:
		return true
	}
	return false
}

// ParseOperation accepts the display symbols and their ASCII spellings.
func ParseOperation(s string) (Operation, bool) {
	switch s {
	case "+":
		return Add, true
	case "−", "-":
		return Subtract, true
	case "×", "*", "x":
		return Multiply, true
	case "÷", "/":
		return Divide, true
	}
	return "", false
}

// State is the whole calculator. The zero value is the empty initial state.
type State struct {
	Current   Operand
	Previous  Operand
	Operation Operation
	Overwrite bool
}

// IsEmpty reports whether s equals the cleared state.
func (s State) IsEmpty() bool {
	return s == State{}
}
