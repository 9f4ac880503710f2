package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrUnknownAction    = errors.New("unknown action")
	ErrInvalidDigit     = errors.New("invalid digit")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Reduce returns the state that follows s after a. Out-of-sequence actions return
// s unchanged with a nil error; malformed or unknown actions return s unchanged
// with an error wrapping one of the sentinels above.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case AddDigit:
		return addDigit(s, a)
	case ChooseOperation:
		return chooseOperation(s, a)
	case Evaluate:
		return evaluate(s), nil
	case DeleteDigit:
		return deleteDigit(s), nil
	case Clear:
		return State{}, nil
	}
	return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
}

// Changed reports whether a transition altered the state.
func Changed(before, after State) bool {
	return before != after
}

func addDigit(s State, a AddDigit) (State, error) {
	if !IsDigit(a.Digit) {
		return s, fmt.Errorf("%w: %q", ErrInvalidDigit, a.Digit)
	}
	digit := string(a.Digit)

	if s.Overwrite {
		next := s
		next.Current = NewOperand(digit)
		next.Overwrite = false
		return next, nil
	}

	current, _ := s.Current.Value()
	if digit == "0" && current == "0" {
		return s, nil
	}
	if digit == "." && strings.Contains(current, ".") {
		return s, nil
	}

	next := s
	next.Current = NewOperand(current + digit)
	return next, nil
}

func chooseOperation(s State, a ChooseOperation) (State, error) {
	if !a.Operation.Valid() {
		return s, fmt.Errorf("%w: %q", ErrInvalidOperation, a.Operation)
	}
	if !s.Current.IsSet() && !s.Previous.IsSet() {
		return s, nil
	}
	if isPositiveInfinity(s.Current) {
		return s, nil
	}

	next := s
	switch {
	case !s.Current.IsSet():
		next.Operation = a.Operation
	case !s.Previous.IsSet():
		next.Operation = a.Operation
		next.Previous = s.Current
		next.Current = Operand{}
	default:
		next.Previous = NewOperand(Compute(s))
		next.Operation = a.Operation
		next.Current = Operand{}
	}
	return next, nil
}

func evaluate(s State) State {
	if s.Operation == "" || !s.Current.IsSet() || !s.Previous.IsSet() {
		return s
	}

	next := s
	next.Overwrite = true
	next.Operation = ""
	next.Previous = Operand{}
	next.Current = NewOperand(Compute(s))
	return next
}

func deleteDigit(s State) State {
	if s.Overwrite {
		next := s
		next.Overwrite = false
		next.Current = Operand{}
		return next
	}

	current, ok := s.Current.Value()
	if !ok {
		return s
	}

	next := s
	switch len(current) {
	case 0:
		// A present-empty operand has nothing to drop and stays present.
		return s
	case 1:
		next.Current = Operand{}
	default:
		next.Current = NewOperand(current[:len(current)-1])
	}
	return next
}

// Compute applies the pending operation of s and returns the result as a
// string. Either operand failing to parse yields "".
func Compute(s State) string {
	prev, ok := parseOperand(s.Previous)
	if !ok {
		return ""
	}
	current, ok := parseOperand(s.Current)
	if !ok {
		return ""
	}

	var result float64
	switch s.Operation {
	case Add:
		result = prev + current
	case Subtract:
		result = prev - current
	case Multiply:
		result = prev * current
	case Divide:
		result = prev / current
	default:
		return ""
	}
	return FormatResult(result)
}

// FormatResult renders a computed value in shortest decimal form. Non-finite
// values render as Infinity, -Infinity and NaN.
func FormatResult(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseOperand parses o as a float64. NaN counts as a failure; overflow
// saturates to an infinity.
func parseOperand(o Operand) (float64, bool) {
	raw, ok := o.Value()
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func isPositiveInfinity(o Operand) bool {
	v, ok := parseOperand(o)
	return ok && math.IsInf(v, 1)
}
