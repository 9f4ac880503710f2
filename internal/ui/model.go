package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"go-calculator/internal/calc"
	"go-calculator/internal/config"
	"go-calculator/internal/input"
)

// Options configures a keypad Model.
type Options struct {
	Formatter *calc.Formatter
	Theme     Theme
	ShowHelp  bool
	Logger    *zap.Logger

	// Updates, when set, delivers reloaded configs (see config.Watcher).
	Updates <-chan *config.Config
}

// Model is the bubbletea model for the keypad.
type Model struct {
	state     calc.State
	formatter *calc.Formatter
	styles    Styles
	keys      keyMap
	help      help.Model
	logger    *zap.Logger
	updates   <-chan *config.Config

	// pressed highlights the last key until the next input.
	pressed string
	err     error
}

// configMsg carries a reloaded config into Update.
type configMsg struct {
	cfg *config.Config
}

// New returns a keypad in the empty state.
func New(opts Options) Model {
	if opts.Formatter == nil {
		opts.Formatter = calc.NewFormatter(calc.DefaultLocale)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	h := help.New()
	h.ShowAll = opts.ShowHelp

	return Model{
		formatter: opts.Formatter,
		styles:    NewStyles(opts.Theme),
		keys:      newKeyMap(),
		help:      h,
		logger:    opts.Logger,
		updates:   opts.Updates,
	}
}

// State returns the calculator state.
func (m Model) State() calc.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return waitForConfig(m.updates)
}

func waitForConfig(updates <-chan *config.Config) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-updates
		if !ok {
			return nil
		}
		return configMsg{cfg: cfg}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		return m.press(keyName(msg)), nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if b, ok := buttonAt(msg.X, msg.Y-m.keypadTop()); ok {
			return m.press(b.key), nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case configMsg:
		m = m.applyConfig(msg.cfg)
		return m, waitForConfig(m.updates)
	}

	return m, nil
}

// keyName maps bubbletea key strings onto input key names.
func keyName(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyEnter:
		return input.KeyEnter
	case tea.KeyBackspace:
		return input.KeyBackspace
	case tea.KeyDelete:
		return input.KeyDelete
	case tea.KeyEsc:
		return input.KeyEscape
	}
	return msg.String()
}

func (m Model) press(name string) Model {
	a, ok := input.Translate(name)
	if !ok {
		return m
	}

	next, err := calc.Reduce(m.state, a)
	if err != nil {
		m.err = err
		m.logger.Warn("keypad action rejected", zap.String("key", name), zap.Error(err))
		return m
	}

	m.logger.Debug("keypad action",
		zap.String("key", name),
		zap.String("action", string(a.Kind())),
		zap.Bool("changed", calc.Changed(m.state, next)),
	)
	m.state = next
	m.pressed = name
	m.err = nil
	return m
}

func (m Model) applyConfig(cfg *config.Config) Model {
	if tag, err := cfg.LocaleTag(); err == nil {
		m.formatter = calc.NewFormatter(tag)
	}
	m.styles = NewStyles(ThemeFor(cfg.UI.Theme))
	m.help.ShowAll = cfg.UI.ShowHelp
	m.logger.Info("keypad config applied",
		zap.String("locale", cfg.Locale),
		zap.String("theme", cfg.UI.Theme),
	)
	return m
}

func (m Model) renderDisplay() string {
	d := m.formatter.Render(m.state)
	body := lipgloss.JoinVertical(lipgloss.Right,
		m.styles.Previous.Render(d.Previous),
		m.styles.Current.Render(d.Current),
	)
	return m.styles.Display.Width(keypadWidth - 2).Render(body)
}

// keypadTop is the screen row the keypad starts on.
func (m Model) keypadTop() int {
	return lipgloss.Height(m.renderDisplay())
}

func (m Model) View() string {
	parts := []string{
		m.renderDisplay(),
		renderKeypad(m.styles, m.pressed),
	}
	if m.err != nil {
		parts = append(parts, m.styles.Error.Render(m.err.Error()))
	}
	parts = append(parts, m.styles.Help.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run starts the keypad on the terminal and blocks until it quits or ctx ends.
func Run(ctx context.Context, m Model, mouse bool) (Model, error) {
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	return m, err
}
