package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	LabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
)

// Field is one "Label: value" line of a panel.
type Field struct {
	Label string
	Value string
}

// Panel renders a bordered box with a bold title followed by fields.
func Panel(title string, fields ...Field) string {
	lines := []string{TitleStyle.Render(title)}
	for _, f := range fields {
		lines = append(lines, LabelStyle.Render(f.Label+":")+" "+f.Value)
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// Table renders rows under headers. A width of 0 lets the table size itself.
func Table(width int, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.String()
}

func Success(msg string) string {
	return SuccessStyle.Render("✓ " + msg)
}

func Failure(msg string) string {
	return ErrorStyle.Render("✗ " + msg)
}

func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
