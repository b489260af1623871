package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Styles.Muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return Styles.Header
			}
			return Styles.Cell
		})
	return t.String()
}

// PageTitle joins a screen title with the configured suffix, as in
// "Delete transaction | InvestDesk Admin".
func PageTitle(title, suffix string) string {
	if suffix == "" {
		return title
	}
	return title + " | " + suffix
}

// Empty renders the empty-state line for a list.
func Empty(what string) string {
	return Styles.Muted.Render("No " + what + " found.")
}
