package input

import (
	"testing"

	"go-calculator/internal/calc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		key  string
		want calc.Action
	}{
		{"7", calc.AddDigit{Digit: '7'}},
		{".", calc.AddDigit{Digit: '.'}},
		{"+", calc.ChooseOperation{Operation: calc.Add}},
		{"-", calc.ChooseOperation{Operation: calc.Subtract}},
		{"*", calc.ChooseOperation{Operation: calc.Multiply}},
		{"/", calc.ChooseOperation{Operation: calc.Divide}},
		{"÷", calc.ChooseOperation{Operation: calc.Divide}},
		{KeyEnter, calc.Evaluate{}},
		{"=", calc.Evaluate{}},
		{KeyBackspace, calc.DeleteDigit{}},
		{KeyDelete, calc.Clear{}},
		{KeyEscape, calc.Clear{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := Translate(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateIgnoresUnboundKeys(t *testing.T) {
	for _, key := range []string{"a", "%", "Tab", "", "12"} {
		_, ok := Translate(key)
		assert.False(t, ok, "key %q", key)
	}
}

func TestSequence(t *testing.T) {
	keys, err := Sequence("12 + 3<BS>4<enter><esc>")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "+", "3", KeyBackspace, "4", KeyEnter, KeyEscape}, keys)

	keys, err = Sequence("5÷0=")
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "÷", "0", "="}, keys)

	_, err = Sequence("1<enter")
	assert.Error(t, err)

	_, err = Sequence("<tab>")
	assert.Error(t, err)
}

func TestReplay(t *testing.T) {
	keys, err := Sequence("2+3*4=")
	require.NoError(t, err)

	s, err := Replay(calc.State{}, keys)
	require.NoError(t, err)
	assert.Equal(t, "20", s.Current.String())
	assert.True(t, s.Overwrite)
}

func TestReplaySkipsUnknownKeys(t *testing.T) {
	s, err := Replay(calc.State{}, []string{"9", "Tab", "9"})
	require.NoError(t, err)
	assert.Equal(t, "99", s.Current.String())
}

func TestBindingsCoverEveryKind(t *testing.T) {
	seen := map[calc.Kind]bool{}
	for _, b := range Bindings() {
		seen[b.Action] = true
	}
	for _, k := range calc.Kinds {
		assert.True(t, seen[k], "no binding for %s", k)
	}
}
