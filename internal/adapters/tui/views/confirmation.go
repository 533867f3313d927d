package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"browsetree/internal/adapters/tui/styles"
	"browsetree/internal/application"
)

// ConfirmKeyMap holds the answer keys of a confirmation
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys answers with y, or n/esc
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel is embedded by views that ask before acting on a tree
type ConfirmationModel struct {
	ViewState
	Target *application.TreeSummary
	Keys   ConfirmKeyMap
}

// NewConfirmationModel creates a confirmation with the default keys
func NewConfirmationModel() ConfirmationModel {
	return ConfirmationModel{
		Keys: DefaultConfirmKeys,
	}
}

// SetTarget sets the tree the confirmation is about
func (m *ConfirmationModel) SetTarget(summary application.TreeSummary) {
	m.Target = &summary
}

// HandleKeyMsg maps y and n/esc onto the given messages. The bool is false
// for any other key.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Msg) (bool, tea.Cmd) {
	if key.Matches(msg, m.Keys.Confirm) {
		return true, onConfirm
	}
	if key.Matches(msg, m.Keys.Cancel) {
		return true, onCancel
	}
	return false, nil
}

// RenderPrompt renders question followed by the confirm and cancel keys
func (m *ConfirmationModel) RenderPrompt(question string) string {
	parts := []string{question}
	for _, b := range []key.Binding{m.Keys.Confirm, m.Keys.Cancel} {
		h := b.Help()
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// RenderTargetInfo renders the tree a confirmation acts on
func RenderTargetInfo(summary *application.TreeSummary, action string) string {
	if summary == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.InputLabel.Render(action + " tree:"))
	b.WriteString("\n  ")
	b.WriteString(summary.ID.String())
	b.WriteString("\n  ")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%s, %d nodes", summary.Kind, summary.NodeCount)))
	return b.String()
}
