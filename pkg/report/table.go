package report

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorApplied = lipgloss.Color("#8BC34A")
	colorSkipped = lipgloss.Color("#2196F3")
	colorFailed  = lipgloss.Color("#e53935")
	colorMuted   = lipgloss.Color("#6b7280")

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

const outcomeColumn = 3

func outcomeStyle(o Outcome) lipgloss.Style {
	switch {
	case o == Applied:
		return cellStyle.Foreground(colorApplied)
	case o.Blocking():
		return cellStyle.Foreground(colorFailed).Bold(true)
	case o == AlreadyApplied, o == Pending:
		return cellStyle.Foreground(colorSkipped)
	default:
		return cellStyle
	}
}

// Table renders the entries as a bordered terminal table followed by the
// summary line.
func (r Report) Table() string {
	rows := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		position := "-"
		if e.Position >= 0 && (e.Outcome == Applied || e.Outcome == Pending) {
			position = strconv.Itoa(e.Position)
		}
		detail := e.Detail
		if detail == "" && e.Err != nil {
			detail = e.Err.Error()
		}
		rows = append(rows, []string{e.Document, e.Site, e.Field, string(e.Outcome), position, detail})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("DOCUMENT", "SITE", "FIELD", "OUTCOME", "POS", "DETAIL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == outcomeColumn && row >= 0 && row < len(r.Entries) {
				return outcomeStyle(r.Entries[row].Outcome)
			}
			return cellStyle
		})

	footer := r.Summary().String()
	if r.DryRun {
		footer += " (dry run)"
	}
	return t.String() + "\n" + footer + "\n"
}
