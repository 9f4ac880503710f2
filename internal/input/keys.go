// Package input maps key names from any front end onto calculator actions.
package input

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go-calculator/internal/calc"
)

// Key names for the non-printing keys. Printing keys are their own names.
const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
	KeyEscape    = "Escape"
)

// Binding documents one row of the key table.
type Binding struct {
	Keys   []string
	Action calc.Kind
	Help   string
}

var bindings = []Binding{
	{Keys: []string{"0-9", "."}, Action: calc.KindAddDigit, Help: "enter a digit or the decimal point"},
	{Keys: []string{"+", "-", "*", "/"}, Action: calc.KindChooseOperation, Help: "choose an operator (chains left to right)"},
	{Keys: []string{KeyEnter, "="}, Action: calc.KindEvaluate, Help: "evaluate the pending operation"},
	{Keys: []string{KeyBackspace}, Action: calc.KindDeleteDigit, Help: "delete the last digit"},
	{Keys: []string{KeyDelete, KeyEscape}, Action: calc.KindClear, Help: "clear everything"},
}

// Bindings returns the key table in display order.
func Bindings() []Binding {
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	return out
}

// Translate maps a key name to an action. Unknown keys return false.
func Translate(key string) (calc.Action, bool) {
	switch key {
	case KeyEnter, "=":
		return calc.Evaluate{}, true
	case KeyBackspace:
		return calc.DeleteDigit{}, true
	case KeyDelete, KeyEscape:
		return calc.Clear{}, true
	}

	if op, ok := calc.ParseOperation(key); ok {
		return calc.ChooseOperation{Operation: op}, true
	}

	r := []rune(key)
	if len(r) == 1 && calc.IsDigit(r[0]) {
		return calc.AddDigit{Digit: r[0]}, true
	}
	return nil, false
}

var scriptTokens = map[string]string{
	"<enter>": KeyEnter,
	"<bs>":    KeyBackspace,
	"<del>":   KeyDelete,
	"<esc>":   KeyEscape,
}

// Sequence splits a compact key script such as "12+3*4=" or "9<bs>8<enter>"
// into key names. Whitespace is ignored.
func Sequence(script string) ([]string, error) {
	var keys []string
	for i := 0; i < len(script); {
		if script[i] == '<' {
			end := strings.IndexByte(script[i:], '>')
			if end < 0 {
				return nil, fmt.Errorf("unterminated key name at offset %d", i)
			}
			token := strings.ToLower(script[i : i+end+1])
			key, ok := scriptTokens[token]
			if !ok {
				return nil, fmt.Errorf("unknown key name %q", token)
			}
			keys = append(keys, key)
			i += end + 1
			continue
		}

		r, size := utf8.DecodeRuneInString(script[i:])
		i += size
		if r == ' ' || r == '\t' || r == '\n' {
			continue
		}
		keys = append(keys, string(r))
	}
	return keys, nil
}

// Replay drives the reducer through keys starting at s. Keys without a binding
// are skipped; a reducer error stops the replay.
func Replay(s calc.State, keys []string) (calc.State, error) {
	for _, key := range keys {
		a, ok := Translate(key)
		if !ok {
			continue
		}
		next, err := calc.Reduce(s, a)
		if err != nil {
			return s, fmt.Errorf("key %q: %w", key, err)
		}
		s = next
	}
	return s, nil
}
