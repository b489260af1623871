package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmDialog asks a yes/no question before a destructive action.
// y or Enter confirms; n or Esc cancels.
type ConfirmDialog struct {
	Title   string
	Label   string
	Details string

	answered  bool
	confirmed bool
}

var _ tea.Model = (*ConfirmDialog)(nil)

// NewConfirmDialog creates a dialog.
func NewConfirmDialog(title, label string) *ConfirmDialog {
	return &ConfirmDialog{Title: title, Label: label}
}

// WithDetails adds warning details.
func (m *ConfirmDialog) WithDetails(details string) *ConfirmDialog {
	m.Details = details
	return m
}

// Confirmed reports whether the operator said yes.
func (m *ConfirmDialog) Confirmed() bool {
	return m.confirmed
}

// Answered reports whether the dialog was closed by a key.
func (m *ConfirmDialog) Answered() bool {
	return m.answered
}

// Init implements tea.Model.
func (m *ConfirmDialog) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *ConfirmDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y", "enter":
			m.answered, m.confirmed = true, true
			return m, tea.Quit
		case "n", "N", "esc", "ctrl+c", "q":
			m.answered, m.confirmed = true, false
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *ConfirmDialog) View() string {
	if m.answered {
		return ""
	}
	content := Styles.TitleWarning.Render(m.Title) + "\n\n"
	content += Styles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + Styles.Details.Render(m.Details)
	}
	content += "\n\n" + Styles.Hint.Render("y/Enter: confirm  n/Esc: cancel")
	return Styles.BoxDanger.Render(content)
}

// Confirm runs a dialog as its own program and returns the answer.
func Confirm(title, label string, opts ...tea.ProgramOption) (bool, error) {
	m := NewConfirmDialog(title, label)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return false, fmt.Errorf("running confirm dialog: %w", err)
	}
	return m.Confirmed(), nil
}
