package tui

import (
	"strings"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/Veraticus/glyphmatch/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the current state of the TUI.
type State int

const (
	// StateIdle waits for the next unknown glyph.
	StateIdle State = iota
	// StateLabeling shows a glyph and reads its label.
	StateLabeling
)

// Model holds the TUI state.
type Model struct {
	theme      themes.Theme
	lastError  error
	resultChan chan<- model.LabelResponse
	request    *labelRequestMsg
	keymap     KeyMap
	help       help.Model
	input      textinput.Model
	width      int
	height     int
	prompted   int
	state      State
	quitting   bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config, resultChan chan<- model.LabelResponse) Model {
	input := textinput.New()
	input.Placeholder = "label"
	input.Prompt = "› "
	input.CharLimit = 32

	return Model{
		theme:      cfg.Theme,
		resultChan: resultChan,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		input:      input,
		width:      cfg.Width,
		height:     cfg.Height,
		state:      StateIdle,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case labelRequestMsg:
		m.request = &msg
		m.state = StateLabeling
		m.prompted++
		m.lastError = nil
		m.input.Reset()
		return m, m.input.Focus()

	case errorMsg:
		m.lastError = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == StateLabeling {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		if m.state == StateLabeling {
			m = m.respond(model.CancelLabel())
		}
		m.quitting = true
		return m, tea.Quit
	}

	if m.state != StateLabeling {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Cancel):
		return m.respond(model.CancelLabel()), nil
	case key.Matches(msg, m.keymap.Skip):
		return m.respond(model.SkipLabel()), nil
	case key.Matches(msg, m.keymap.Accept):
		return m.respond(model.AcceptLabel(strings.TrimSpace(m.input.Value()))), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// respond hands the answer to the waiting labeler and returns to idle.
func (m Model) respond(response model.LabelResponse) Model {
	if m.resultChan != nil {
		m.resultChan <- response
	}
	m.request = nil
	m.state = StateIdle
	m.input.Blur()
	m.input.Reset()
	return m
}

// State returns the current state.
func (m Model) State() State {
	return m.state
}
