package calc

import "fmt"

// Kind is the stable wire name of an action.
type Kind string

const (
	KindAddDigit        Kind = "add-digit"
	KindChooseOperation Kind = "choose-operation"
	KindClear           Kind = "clear"
	KindDeleteDigit     Kind = "delete-digit"
	KindEvaluate        Kind = "evaluate"
)

// Kinds lists every action kind in dispatch order.
var Kinds = []Kind{KindAddDigit, KindChooseOperation, KindClear, KindDeleteDigit, KindEvaluate}

// ParseKind maps a wire name to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Action is a sealed sum type: only the types in this file implement it.
type Action interface {
	Kind() Kind
	action()
}

// AddDigit appends a digit or the decimal point to the current operand.
type AddDigit struct {
	Digit rune
}

// ChooseOperation records the pending operator, chaining if both operands are set.
type ChooseOperation struct {
	Operation Operation
}

// Clear resets to the empty state.
type Clear struct{}

// DeleteDigit removes the last character of the current operand.
type DeleteDigit struct{}

// Evaluate applies the pending operation.
type Evaluate struct{}

func (AddDigit) Kind() Kind        { return KindAddDigit }
func (ChooseOperation) Kind() Kind { return KindChooseOperation }
func (Clear) Kind() Kind           { return KindClear }
func (DeleteDigit) Kind() Kind     { return KindDeleteDigit }
func (Evaluate) Kind() Kind        { return KindEvaluate }

func (AddDigit) action()        {}
func (ChooseOperation) action() {}
func (Clear) action()           {}
func (DeleteDigit) action()     {}
func (Evaluate) action()        {}

func (a AddDigit) String() string        { return fmt.Sprintf("%s(%c)", a.Kind(), a.Digit) }
func (a ChooseOperation) String() string { return fmt.Sprintf("%s(%s)", a.Kind(), a.Operation) }

// NewAction builds an action from its wire form. digit is read for add-digit and
// operation for choose-operation; both are ignored otherwise.
func NewAction(kind, digit, operation string) (Action, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	switch k {
	case KindAddDigit:
		r := []rune(digit)
		if len(r) != 1 || !IsDigit(r[0]) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDigit, digit)
		}
		return AddDigit{Digit: r[0]}, nil
	case KindChooseOperation:
		op, ok := ParseOperation(operation)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOperation, operation)
		}
		return ChooseOperation{Operation: op}, nil
	case KindClear:
		return Clear{}, nil
	case KindDeleteDigit:
		return DeleteDigit{}, nil
	case KindEvaluate:
		return Evaluate{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
}

// IsDigit reports whether r may be entered with AddDigit.
func IsDigit(r rune) bool {
	return r == '.' || ('0' <= r && r <= '9')
}
