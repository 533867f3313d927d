package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"browsetree/internal/adapters/tui/styles"
	"browsetree/internal/application"
	"browsetree/internal/application/commands"
)

// TreeListKeyMap defines key bindings for the tree list
type TreeListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Open     key.Binding
	Delete   key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var TreeListKeys = TreeListKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "l", "right"),
		key.WithHelp("enter", "open"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// TreeListModel lists the stored browsing trees, newest first
type TreeListModel struct {
	ViewState
	deps      Deps
	summaries []application.TreeSummary
	pager     *Paginator
	loaded    bool
}

// NewTreeListModel creates a new tree list model
func NewTreeListModel(deps Deps) *TreeListModel {
	return &TreeListModel{
		deps:  deps,
		pager: NewPaginator(20),
	}
}

type treesLoadedMsg struct {
	summaries []application.TreeSummary
}

// Init loads the listing
func (m *TreeListModel) Init() tea.Cmd {
	return m.load
}

func (m *TreeListModel) load() tea.Msg {
	summaries, err := commands.NewListTreesCommand(m.deps.Trees).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return treesLoadedMsg{summaries}
}

// Reload refreshes the listing, keeping the cursor where possible
func (m *TreeListModel) Reload() tea.Cmd {
	return m.load
}

// Selected returns the summary under the cursor
func (m *TreeListModel) Selected() (application.TreeSummary, bool) {
	i := m.pager.Cursor()
	if i < 0 || i >= len(m.summaries) {
		return application.TreeSummary{}, false
	}
	return m.summaries[i], true
}

// Update handles messages for the tree list
func (m *TreeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treesLoadedMsg:
		m.summaries = msg.summaries
		m.loaded = true
		m.pager.SetTotal(len(m.summaries))
		return m, nil

	case errMsg:
		m.loaded = true
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, TreeListKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, TreeListKeys.Up):
			m.pager.CursorUp()
		case key.Matches(msg, TreeListKeys.Down):
			m.pager.CursorDown()
		case key.Matches(msg, TreeListKeys.PageUp):
			m.pager.PageUp()
		case key.Matches(msg, TreeListKeys.PageDown):
			m.pager.PageDown()
		case key.Matches(msg, TreeListKeys.Reload):
			return m, m.Reload()
		case key.Matches(msg, TreeListKeys.Open):
			if s, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SwitchToBrowserMsg{TreeID: s.ID.String()} }
			}
		case key.Matches(msg, TreeListKeys.Delete):
			if s, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SwitchToDeleteMsg{Summary: s} }
			}
		case key.Matches(msg, TreeListKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		}
	}

	return m, nil
}

// SetSize updates the view dimensions and the page height
func (m *TreeListModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(m.visibleRows(8))
}

// View renders the tree list
func (m *TreeListModel) View() string {
	if !m.loaded {
		return styles.App.Render("Loading...")
	}

	v := NewViewBuilder().Title("browsetree", fmt.Sprintf("%d browsing trees", len(m.summaries)))
	if len(m.summaries) == 0 {
		v.Muted("No trees stored yet. Import history or replay a script with browsetree-cli.")
	}

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderRow(m.summaries[i], i == m.pager.Cursor()))
	}

	return v.Message(m.Message, m.MessageErr).
		Help(TreeListKeys.Open, TreeListKeys.Delete, TreeListKeys.Reload, TreeListKeys.Help, TreeListKeys.Quit).
		String()
}

func (m *TreeListModel) renderRow(s application.TreeSummary, selected bool) string {
	created := "-"
	if !s.CreatedAt.IsZero() {
		created = s.CreatedAt.Local().Format("2006-01-02 15:04")
	}
	kind := padRight(string(s.Kind), 16)
	pin := " "
	if s.IsPinned {
		pin = "⚲"
	}
	text := fmt.Sprintf("%s %s  %s %4d nodes  %s", pin, created, kind, s.NodeCount, s.ID.String()[:8])

	if selected {
		return styles.NodeSelected.Render(text)
	}
	return lipgloss.NewStyle().Foreground(styles.OriginColor(s.Kind)).Render(text)
}
