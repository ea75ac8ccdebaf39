// Package tui renders CLI output: styled key/value panels, tables and
// status lines, or indented JSON.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the color palette
type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color

	Text      lipgloss.Color
	TextMuted lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Border lipgloss.Color
}

// DefaultTheme returns the gcouch palette, warm reds after the CouchDB logo
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#E42528"),
		Accent:  lipgloss.Color("#F4A261"),

		Text:      lipgloss.Color("#ECEFF4"),
		TextMuted: lipgloss.Color("#7B8394"),

		Success: lipgloss.Color("#6CC070"),
		Warning: lipgloss.Color("#E9C46A"),
		Error:   lipgloss.Color("#FF5F56"),
		Info:    lipgloss.Color("#7FB4CA"),

		Border: lipgloss.Color("#7B8394"),
	}
}

// Styles holds the styles built from a Theme
type Styles struct {
	Theme *Theme

	Title lipgloss.Style
	Text  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	Key    lipgloss.Style
	Value  lipgloss.Style
	Secret lipgloss.Style
	URL    lipgloss.Style
}

// DefaultStyles returns styles for the default theme
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// NewStyles creates styles from a theme
func NewStyles(theme *Theme) *Styles {
	s := &Styles{Theme: theme}

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Primary)

	s.Text = lipgloss.NewStyle().Foreground(theme.Text)
	s.Muted = lipgloss.NewStyle().Foreground(theme.TextMuted)
	s.Bold = lipgloss.NewStyle().Bold(true).Foreground(theme.Text)

	s.Success = lipgloss.NewStyle().Foreground(theme.Success)
	s.Warning = lipgloss.NewStyle().Foreground(theme.Warning)
	s.Error = lipgloss.NewStyle().Foreground(theme.Error)
	s.Info = lipgloss.NewStyle().Foreground(theme.Info)

	// Wide enough for "authentication:"
	s.Key = lipgloss.NewStyle().
		Foreground(theme.TextMuted).
		Width(18)

	s.Value = lipgloss.NewStyle().Foreground(theme.Text)

	s.Secret = lipgloss.NewStyle().
		Foreground(theme.Warning).
		Italic(true)

	s.URL = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Underline(true)

	return s
}

// StatusStyle returns the style for a status word
func (s *Styles) StatusStyle(status string) lipgloss.Style {
	switch status {
	case "ok", "connected", "yes", "found":
		return s.Success
	case "absent", "no", "cached":
		return s.Muted
	case "error", "unauthorized", "unavailable", "missing":
		return s.Error
	case "remote":
		return s.Warning
	default:
		return s.Text
	}
}

// StatusIcon returns an icon for a status word
func StatusIcon(status string) string {
	switch status {
	case "ok", "connected", "found":
		return "●"
	case "absent", "cached":
		return "○"
	case "error", "unauthorized", "unavailable", "missing":
		return "✕"
	case "yes":
		return "✓"
	default:
		return "•"
	}
}
