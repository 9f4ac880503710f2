// Package ui is the terminal keypad: a bubbletea model that renders the
// calculator display and a clickable button grid.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the keypad colour scheme.
type Theme struct {
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Digit      lipgloss.Color
	Operator   lipgloss.Color
	Command    lipgloss.Color
	Pressed    lipgloss.Color
	Error      lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#101F38"),
		Muted:      lipgloss.Color("#6b7685"),
		Border:     lipgloss.Color("#c4cad3"),
		Digit:      lipgloss.Color("#e1e4e8"),
		Operator:   lipgloss.Color("#8BC34A"),
		Command:    lipgloss.Color("#d6dae0"),
		Pressed:    lipgloss.Color("#FFC107"),
		Error:      lipgloss.Color("#e53935"),
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#f2f2f2"),
		Muted:      lipgloss.Color("#8a97ab"),
		Border:     lipgloss.Color("#2a3850"),
		Digit:      lipgloss.Color("#1e2a3d"),
		Operator:   lipgloss.Color("#4d7a1f"),
		Command:    lipgloss.Color("#2a3850"),
		Pressed:    lipgloss.Color("#a07800"),
		Error:      lipgloss.Color("#e57373"),
		IsDark:     true,
	}
}

// DetectTheme guesses the terminal background from CALC_DARK_MODE or
// COLORFGBG ("foreground;background") and falls back to light.
func DetectTheme() Theme {
	if os.Getenv("CALC_DARK_MODE") == "1" {
		return DarkTheme()
	}

	if fgbg := os.Getenv("COLORFGBG"); fgbg != "" {
		parts := strings.Split(fgbg, ";")
		if bg, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			// ANSI 0-6 and 8 are the dark backgrounds.
			if (bg >= 0 && bg <= 6) || bg == 8 {
				return DarkTheme()
			}
		}
	}

	return LightTheme()
}

// ThemeFor resolves a ui.theme config value.
func ThemeFor(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds the rendered components.
type Styles struct {
	Theme Theme

	Display  lipgloss.Style
	Previous lipgloss.Style
	Current  lipgloss.Style
	Digit    lipgloss.Style
	Operator lipgloss.Style
	Command  lipgloss.Style
	Pressed  lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds the keypad styles for theme.
func NewStyles(theme Theme) Styles {
	button := lipgloss.NewStyle().
		Padding(1, 0).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.Foreground)

	return Styles{
		Theme: theme,

		Display: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			Align(lipgloss.Right),
		Previous: lipgloss.NewStyle().Foreground(theme.Muted),
		Current:  lipgloss.NewStyle().Foreground(theme.Foreground).Bold(true),

		Digit:    button.Background(theme.Digit),
		Operator: button.Background(theme.Operator),
		Command:  button.Background(theme.Command),
		Pressed:  button.Background(theme.Pressed),

		Error: lipgloss.NewStyle().Foreground(theme.Error),
		Help:  lipgloss.NewStyle().Foreground(theme.Muted).MarginTop(1),
	}
}
