package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"go-calculator/internal/input"
)

// keyMap feeds the help footer. Calculator keys are documented from the
// input binding table so the two never drift apart.
type keyMap struct {
	calc []key.Binding
	Help key.Binding
	Quit key.Binding
}

func newKeyMap() keyMap {
	km := keyMap{
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	for _, b := range input.Bindings() {
		km.calc = append(km.calc, key.NewBinding(
			key.WithKeys(b.Keys...),
			key.WithHelp(strings.ToLower(strings.Join(b.Keys, " ")), b.Help),
		))
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.calc, {k.Help, k.Quit}}
}
