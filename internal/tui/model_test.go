package tui

import (
	"bytes"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/Veraticus/glyphmatch/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGlyph = model.MustParseBitPattern(
	"###",
	"..#",
	".#.",
	".#.",
	".#.",
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func testModel() (Model, chan model.LabelResponse) {
	results := make(chan model.LabelResponse, 1)
	cfg := defaultConfig()
	for _, opt := range []Option{WithTheme(themes.Monochrome), WithSize(80, 24)} {
		opt(&cfg)
	}
	return newModel(cfg, results), results
}

func TestModel_LabelPrompt(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.Msg
		want model.LabelResponse
	}{
		{
			name: "typed label",
			keys: []tea.Msg{runes("7"), tea.KeyMsg{Type: tea.KeyEnter}},
			want: model.AcceptLabel("7"),
		},
		{
			name: "multi character label",
			keys: []tea.Msg{runes("LEV"), runes("EL"), tea.KeyMsg{Type: tea.KeyEnter}},
			want: model.AcceptLabel("LEVEL"),
		},
		{
			name: "backspace edits label",
			keys: []tea.Msg{runes("71"), tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyEnter}},
			want: model.AcceptLabel("7"),
		},
		{
			name: "empty enter skips",
			keys: []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}},
			want: model.SkipLabel(),
		},
		{
			name: "blank enter skips",
			keys: []tea.Msg{runes("  "), tea.KeyMsg{Type: tea.KeyEnter}},
			want: model.SkipLabel(),
		},
		{
			name: "tab skips",
			keys: []tea.Msg{runes("7"), tea.KeyMsg{Type: tea.KeyTab}},
			want: model.SkipLabel(),
		},
		{
			name: "escape cancels",
			keys: []tea.Msg{runes("7"), tea.KeyMsg{Type: tea.KeyEsc}},
			want: model.CancelLabel(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, results := testModel()
			m = update(t, m, labelRequestMsg{glyph: testGlyph})
			require.Equal(t, StateLabeling, m.State())

			m = update(t, m, tt.keys...)

			require.Len(t, results, 1)
			assert.Equal(t, tt.want, <-results)
			assert.Equal(t, StateIdle, m.State())
			assert.Empty(t, m.input.Value())
		})
	}
}

func TestModel_KeysIgnoredWhileIdle(t *testing.T) {
	m, results := testModel()
	m = update(t, m, runes("7"), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Empty(t, results)
	assert.Equal(t, StateIdle, m.State())
}

func TestModel_ForceQuit(t *testing.T) {
	t.Run("while labeling answers cancel", func(t *testing.T) {
		m, results := testModel()
		m = update(t, m, labelRequestMsg{glyph: testGlyph})

		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.Equal(t, model.CancelLabel(), <-results)
		assert.Empty(t, next.View())
	})

	t.Run("while idle only quits", func(t *testing.T) {
		m, results := testModel()
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Empty(t, results)
	})
}

func TestModel_View(t *testing.T) {
	m, _ := testModel()
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, m.View(), "Recognizing glyphs...")

	m = update(t, m, labelRequestMsg{glyph: testGlyph, source: image.NewGray(image.Rect(0, 0, 40, 12))})
	view := m.View()
	assert.Contains(t, view, "Unknown glyph 3x5")
	assert.Contains(t, view, "source image 40x12")
	assert.Contains(t, view, setCell)
	assert.Contains(t, view, unsetCell)
	assert.Contains(t, view, "stop training")

	m = update(t, m, errorMsg{err: errors.New("disk full")})
	assert.Contains(t, m.View(), "disk full")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, m.View(), "1 glyph(s) labeled this session")
}

func TestOptions(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("")

	cfg := defaultConfig()
	assert.True(t, cfg.AltScreen)

	for _, opt := range []Option{WithIO(in, &out), WithInline(), WithSize(120, 40)} {
		opt(&cfg)
	}
	assert.Same(t, in, cfg.Input)
	assert.Same(t, &out, cfg.Output)
	assert.False(t, cfg.AltScreen)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 40, cfg.Height)
}
