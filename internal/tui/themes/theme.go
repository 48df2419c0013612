// Package themes holds the visual styles of the training TUI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Help        lipgloss.Style
	Pixel       lipgloss.Style
	EmptyPixel  lipgloss.Style
	BorderedBox lipgloss.Style
	StatusError lipgloss.Style
	Primary     lipgloss.Color
	Muted       lipgloss.Color
	Border      lipgloss.Color
	Foreground  lipgloss.Color
	Error       lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary:    lipgloss.Color("#7c3aed"),
	Error:      lipgloss.Color("#ef4444"),
	Foreground: lipgloss.Color("#fafafa"),
	Border:     lipgloss.Color("#404040"),
	Muted:      lipgloss.Color("#737373"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		MarginTop(1),

	// Glyph cells
	Pixel: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a78bfa")),
	EmptyPixel: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#404040")),

	// Containers
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7c3aed")).
		Padding(1, 2),

	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")),
}

// Monochrome renders without colors, for terminals that lack them and for golden output.
var Monochrome = Theme{
	Title:       lipgloss.NewStyle().Bold(true).MarginBottom(1),
	Subtitle:    lipgloss.NewStyle(),
	Normal:      lipgloss.NewStyle(),
	Help:        lipgloss.NewStyle().MarginTop(1),
	Pixel:       lipgloss.NewStyle(),
	EmptyPixel:  lipgloss.NewStyle(),
	BorderedBox: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2),
	StatusError: lipgloss.NewStyle().Bold(true),
}
