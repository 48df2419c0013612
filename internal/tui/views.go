package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Glyph cell renderings, two columns per cell.
const (
	setCell   = "██"
	unsetCell = "··"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state != StateLabeling || m.request == nil {
		return m.renderIdle()
	}
	return m.renderPrompt()
}

func (m Model) renderIdle() string {
	content := lipgloss.NewStyle().
		Foreground(m.theme.Muted).
		Render("Recognizing glyphs...")

	if m.prompted > 0 {
		content += "\n" + m.theme.Subtitle.Render(fmt.Sprintf("%d glyph(s) labeled this session", m.prompted))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderPrompt() string {
	glyph := m.request.glyph

	title := m.theme.Title.Render(fmt.Sprintf("Unknown glyph %dx%d", glyph.Width(), glyph.Height()))
	parts := []string{title, m.renderGlyph(glyph)}

	if m.request.source != nil {
		b := m.request.source.Bounds()
		parts = append(parts, m.theme.Subtitle.Render(fmt.Sprintf("source image %dx%d", b.Dx(), b.Dy())))
	}

	parts = append(parts, "", m.input.View())
	if m.lastError != nil {
		parts = append(parts, m.theme.StatusError.Render(m.lastError.Error()))
	}

	box := m.theme.BorderedBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.JoinVertical(lipgloss.Left,
		box,
		m.theme.Help.Render(m.help.View(m.keymap)),
	)
}

func (m Model) renderGlyph(glyph model.BitPattern) string {
	rows := make([]string, 0, glyph.Height())
	for y := 0; y < glyph.Height(); y++ {
		var b strings.Builder
		for x := 0; x < glyph.Width(); x++ {
			if glyph.At(x, y) {
				b.WriteString(m.theme.Pixel.Render(setCell))
			} else {
				b.WriteString(m.theme.EmptyPixel.Render(unsetCell))
			}
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}
