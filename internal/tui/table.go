package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableBuilder builds a bordered table
type TableBuilder struct {
	styles  *Styles
	headers []string
	rows    [][]string
}

// NewTable creates a table builder with default styles
func NewTable() *TableBuilder {
	return &TableBuilder{styles: DefaultStyles()}
}

// Headers sets the table headers
func (tb *TableBuilder) Headers(headers ...string) *TableBuilder {
	tb.headers = headers
	return tb
}

// Row adds a row
func (tb *TableBuilder) Row(cells ...string) *TableBuilder {
	tb.rows = append(tb.rows, cells)
	return tb
}

// Rows adds rows
func (tb *TableBuilder) Rows(rows [][]string) *TableBuilder {
	tb.rows = append(tb.rows, rows...)
	return tb
}

// String renders the table
func (tb *TableBuilder) String() string {
	if len(tb.headers) == 0 && len(tb.rows) == 0 {
		return ""
	}

	theme := tb.styles.Theme
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().
					Foreground(theme.Primary).
					Bold(true).
					Padding(0, 1)
			}
			style := lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
			if col == 0 {
				style = style.Bold(true)
			}
			return style
		}).
		Headers(tb.headers...).
		Rows(tb.rows...)

	return t.String()
}

// SimpleTable renders headers and rows with the default styles
func SimpleTable(headers []string, rows [][]string) string {
	return NewTable().Headers(headers...).Rows(rows).String()
}

// Panel renders aligned "key: value" lines
type Panel struct {
	styles *Styles
	lines  []string
}

// NewPanel creates an empty panel
func NewPanel() *Panel {
	return &Panel{styles: DefaultStyles()}
}

// Add adds a plain field
func (p *Panel) Add(key, value string) *Panel {
	return p.add(key, p.styles.Value.Render(value))
}

// AddOptional adds a field whose absence is shown as "(absent)", which
// keeps an empty value distinguishable from a missing one.
func (p *Panel) AddOptional(key, value string, present bool) *Panel {
	if !present {
		return p.add(key, p.styles.Muted.Render("(absent)"))
	}
	if value == "" {
		return p.add(key, p.styles.Muted.Render(`""`))
	}
	return p.Add(key, value)
}

// AddSecret adds a field rendered in the secret style
func (p *Panel) AddSecret(key, value string) *Panel {
	return p.add(key, p.styles.Secret.Render(value))
}

// AddURL adds a field rendered in the link style
func (p *Panel) AddURL(key, url string) *Panel {
	return p.add(key, p.styles.URL.Render(url))
}

// AddStatus adds a field with an icon and status coloring
func (p *Panel) AddStatus(key, status string) *Panel {
	style := p.styles.StatusStyle(status)
	return p.add(key, style.Render(StatusIcon(status)+" "+status))
}

func (p *Panel) add(key, rendered string) *Panel {
	p.lines = append(p.lines, p.styles.Key.Render(key+":")+" "+rendered)
	return p
}

// String renders the panel, one field per line
func (p *Panel) String() string {
	if len(p.lines) == 0 {
		return ""
	}
	return strings.Join(p.lines, "\n") + "\n"
}

// SuccessMessage renders a success line
func SuccessMessage(message string) string {
	styles := DefaultStyles()
	return styles.Success.Render("✓ " + message)
}

// ErrorMessage renders an error line
func ErrorMessage(message string) string {
	styles := DefaultStyles()
	return styles.Error.Render("✕ " + message)
}

// WarningMessage renders a warning line
func WarningMessage(message string) string {
	styles := DefaultStyles()
	return styles.Warning.Render("! " + message)
}

// InfoMessage renders an info line
func InfoMessage(message string) string {
	styles := DefaultStyles()
	return styles.Info.Render("ℹ " + message)
}

// Title renders a heading
func Title(text string) string {
	return DefaultStyles().Title.Render(text)
}
