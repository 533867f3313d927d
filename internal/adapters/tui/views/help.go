package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"browsetree/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return CloseHelpMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	v := NewViewBuilder().Title("browsetree help", "Browsing trees and link scores")

	section(v, "Tree list", TreeListKeys.Up, TreeListKeys.Down, TreeListKeys.PageUp, TreeListKeys.PageDown,
		TreeListKeys.Open, TreeListKeys.Delete, TreeListKeys.Reload)
	section(v, "Tree browser", BrowserKeys.Left, BrowserKeys.Right, BrowserKeys.Enter, BrowserKeys.Current,
		BrowserKeys.Details, BrowserKeys.Copy, BrowserKeys.Open, BrowserKeys.Back)

	v.Line(styles.InputLabel.Render("Outline"))
	v.Muted("  " + styles.TreeExpanded + "/ " + styles.TreeCollapsed + "  expanded / collapsed node")
	v.Line("  " + styles.NodeCurrent.Render("current") + styles.MutedText.Render("   the page the tree is on"))
	v.Line("  " + styles.NodeActivation.Render("link") + styles.MutedText.Render("      reached by following a link"))
	v.Line("  " + styles.NodeLegacy.Render("legacy") + styles.MutedText.Render("    node imported with a numeric link"))
	v.BlankLine()

	return v.Help(HelpKeys.Close).String()
}

func section(v *ViewBuilder, title string, bindings ...key.Binding) {
	v.Line(styles.InputLabel.Render(title))
	for _, b := range bindings {
		h := b.Help()
		v.Line("  " + styles.HelpKey.Render(padRight(h.Key, 10)) + styles.HelpDesc.Render(h.Desc))
	}
	v.BlankLine()
}
