package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"browsetree/internal/adapters/tui/styles"
	"browsetree/internal/application/commands"
	"browsetree/internal/browsing"
)

// BrowserKeyMap defines key bindings for the tree browser
type BrowserKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Current key.Binding
	Details key.Binding
	Copy    key.Binding
	Open    key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	Current: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "go to current"),
	),
	Details: key.NewBinding(
		key.WithKeys("i", "tab"),
		key.WithHelp("i", "details"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c", "y"),
		key.WithHelp("c", "copy url"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open url"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
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

type row struct {
	node  *browsing.Node
	depth int
}

// BrowserModel shows one browsing tree as a collapsible outline with the
// score of the selected page beside it.
type BrowserModel struct {
	ViewState
	deps        Deps
	treeID      string
	tree        *browsing.Tree
	collapsed   map[browsing.NodeIndex]bool
	rows        []row
	pager       *Paginator
	showDetails bool
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(deps Deps) *BrowserModel {
	return &BrowserModel{
		deps:        deps,
		collapsed:   make(map[browsing.NodeIndex]bool),
		pager:       NewPaginator(20),
		showDetails: true,
	}
}

type treeLoadedMsg struct {
	tree *browsing.Tree
}

type statusMsg struct {
	message string
}

// Open loads the tree with the given id, resetting the outline state
func (m *BrowserModel) Open(treeID string) tea.Cmd {
	m.treeID = treeID
	m.tree = nil
	m.rows = nil
	m.collapsed = make(map[browsing.NodeIndex]bool)
	m.pager.Reset()
	m.ClearMessage()
	return m.load
}

// Init loads the tree
func (m *BrowserModel) Init() tea.Cmd {
	return m.load
}

func (m *BrowserModel) load() tea.Msg {
	tree, err := commands.NewShowTreeCommand(m.deps.Trees, m.deps.Env, m.treeID).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return treeLoadedMsg{tree}
}

// SetTree shows an already decoded tree
func (m *BrowserModel) SetTree(tree *browsing.Tree) {
	m.tree = tree
	m.treeID = tree.ID().String()
	m.refreshRows()
	m.selectNode(tree.Current().Index())
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.SetTree(msg.tree)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case statusMsg:
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Back):
			return m, func() tea.Msg { return SwitchToTreesMsg{} }

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		}

		if m.tree == nil {
			return m, nil
		}

		switch {
		case key.Matches(msg, BrowserKeys.Up):
			m.pager.CursorUp()

		case key.Matches(msg, BrowserKeys.Down):
			m.pager.CursorDown()

		case key.Matches(msg, BrowserKeys.Left):
			if node := m.SelectedNode(); node != nil {
				if node.ChildCount() > 0 && !m.collapsed[node.Index()] {
					m.collapsed[node.Index()] = true
					m.refreshRows()
				} else if parent := node.Parent(); parent != nil {
					m.selectNode(parent.Index())
				}
			}

		case key.Matches(msg, BrowserKeys.Right):
			if node := m.SelectedNode(); node != nil && m.collapsed[node.Index()] {
				delete(m.collapsed, node.Index())
				m.refreshRows()
			}

		case key.Matches(msg, BrowserKeys.Enter):
			if node := m.SelectedNode(); node != nil && node.ChildCount() > 0 {
				m.collapsed[node.Index()] = !m.collapsed[node.Index()]
				m.refreshRows()
			}

		case key.Matches(msg, BrowserKeys.Current):
			m.revealNode(m.tree.Current())

		case key.Matches(msg, BrowserKeys.Details):
			m.showDetails = !m.showDetails

		case key.Matches(msg, BrowserKeys.Copy):
			return m, m.copySelected()

		case key.Matches(msg, BrowserKeys.Open):
			return m, m.openSelected()
		}
	}

	return m, nil
}

// SelectedNode returns the node under the cursor
func (m *BrowserModel) SelectedNode() *browsing.Node {
	i := m.pager.Cursor()
	if i < 0 || i >= len(m.rows) {
		return nil
	}
	return m.rows[i].node
}

// selectedURL resolves the page of the selected node, empty for the root
// or a link the store does not know.
func (m *BrowserModel) selectedURL() string {
	node := m.SelectedNode()
	if node == nil || node.IsRoot() || m.deps.Links == nil {
		return ""
	}
	link, err := m.deps.Links.LinkFor(node.Link())
	if err != nil || link == nil {
		return ""
	}
	return link.URL
}

func (m *BrowserModel) copySelected() tea.Cmd {
	url := m.selectedURL()
	if url == "" {
		return func() tea.Msg { return errMsg{fmt.Errorf("no URL for the selected node")} }
	}
	if m.deps.CopyText == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("clipboard is not available")} }
	}
	return func() tea.Msg {
		if err := m.deps.CopyText(url); err != nil {
			return errMsg{fmt.Errorf("copy to clipboard: %w", err)}
		}
		return statusMsg{"Copied " + url}
	}
}

func (m *BrowserModel) openSelected() tea.Cmd {
	url := m.selectedURL()
	if url == "" {
		return func() tea.Msg { return errMsg{fmt.Errorf("no URL for the selected node")} }
	}
	if m.deps.Opener == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("no URL opener configured")} }
	}
	return func() tea.Msg {
		if err := m.deps.Opener.OpenURL(url); err != nil {
			return errMsg{err}
		}
		return statusMsg{"Opened " + url}
	}
}

// revealNode expands the ancestors of node and moves the cursor onto it
func (m *BrowserModel) revealNode(node *browsing.Node) {
	for p := node.Parent(); p != nil; p = p.Parent() {
		delete(m.collapsed, p.Index())
	}
	m.refreshRows()
	m.selectNode(node.Index())
}

func (m *BrowserModel) selectNode(index browsing.NodeIndex) {
	for i, r := range m.rows {
		if r.node.Index() == index {
			m.pager.SetCursor(i)
			return
		}
	}
}

// refreshRows rebuilds the visible outline, keeping the selected node
func (m *BrowserModel) refreshRows() {
	selected := browsing.NoNode
	if node := m.SelectedNode(); node != nil {
		selected = node.Index()
	}

	m.rows = m.rows[:0]
	type frame struct {
		node  *browsing.Node
		depth int
	}
	stack := []frame{{m.tree.Root(), 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m.rows = append(m.rows, row{node: f.node, depth: f.depth})
		if m.collapsed[f.node.Index()] {
			continue
		}
		children := f.node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], f.depth + 1})
		}
	}

	m.pager.SetTotal(len(m.rows))
	if selected != browsing.NoNode {
		m.selectNode(selected)
	}
}

// SetSize updates the view dimensions and the page height
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(m.visibleRows(8))
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.tree == nil {
		return NewViewBuilder().
			Line("Loading...").
			Message(m.Message, m.MessageErr).
			Help(BrowserKeys.Back, BrowserKeys.Quit).
			String()
	}

	origin := m.tree.Origin()
	subtitle := lipgloss.NewStyle().Foreground(styles.OriginColor(origin.Kind)).Render(origin.String())
	subtitle += styles.MutedText.Render(fmt.Sprintf("  %d nodes  lifetime %s", m.tree.Len(), commands.FormatSeconds(m.tree.Lifetime())))

	var outline strings.Builder
	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		outline.WriteString(m.renderRow(m.rows[i], i == m.pager.Cursor()))
		outline.WriteString("\n")
	}

	body := outline.String()
	if m.showDetails {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.renderDetails())
	}

	return NewViewBuilder().
		Title(m.tree.ID().String(), subtitle).
		Line(body).
		Message(m.Message, m.MessageErr).
		Help(BrowserKeys.Enter, BrowserKeys.Copy, BrowserKeys.Open, BrowserKeys.Details, BrowserKeys.Back, BrowserKeys.Help).
		String()
}

func (m *BrowserModel) renderRow(r row, selected bool) string {
	node := r.node
	indent := strings.Repeat("  ", r.depth)

	prefix := styles.TreeLeaf
	if node.ChildCount() > 0 {
		if m.collapsed[node.Index()] {
			prefix = styles.TreeCollapsed
		} else {
			prefix = styles.TreeExpanded
		}
	}

	text := m.nodeLabel(node)
	if rt := node.ReadingTime(); rt > 0 {
		text += "  " + commands.FormatSeconds(rt)
	}
	if width := m.outlineWidth() - len(indent) - 2; width > 0 {
		text = truncate(text, width)
	}

	var style lipgloss.Style
	switch {
	case selected:
		style = styles.NodeSelected
	case node.IsRoot():
		style = styles.NodeRoot
	case node == m.tree.Current():
		style = styles.NodeCurrent
	case node.Legacy():
		style = styles.NodeLegacy
	case node.IsLinkActivation():
		style = styles.NodeActivation
	default:
		style = styles.NodePage
	}

	return indent + styles.TreeBranch.Render(prefix) + style.Render(text)
}

func (m *BrowserModel) nodeLabel(node *browsing.Node) string {
	if node.IsRoot() {
		return "(root)"
	}
	if m.deps.Links != nil {
		if link, err := m.deps.Links.LinkFor(node.Link()); err == nil && link != nil && link.Title != "" {
			return link.Title
		}
	}
	return commands.NodeLabel(node.Link(), m.deps.Links)
}

func (m *BrowserModel) outlineWidth() int {
	if m.Width <= 0 {
		return 0
	}
	if m.showDetails {
		return m.Width*3/5 - 4
	}
	return m.Width - 4
}

func (m *BrowserModel) renderDetails() string {
	node := m.SelectedNode()
	if node == nil {
		return ""
	}

	lines := []string{
		RenderDetailRow("visit", string(node.VisitType())),
		RenderDetailRow("events", fmt.Sprintf("%d", len(node.Events()))),
		RenderDetailRow("reading time", commands.FormatSeconds(node.ReadingTime())),
	}
	if last := node.LastEvent(); last != nil {
		lines = append(lines, RenderDetailRow("last event", fmt.Sprintf("%s %s", last.Type, last.Date.Local().Format("15:04:05"))))
	}
	if node.IsRoot() {
		return styles.Detail.Render(strings.Join(lines, "\n"))
	}

	if url := m.selectedURL(); url != "" {
		lines = append([]string{RenderDetailRow("url", truncate(url, 40))}, lines...)
	}

	score, ok := m.tree.Scores()[node.Link()]
	if !ok || score == nil {
		lines = append(lines, "", styles.MutedText.Render("not scored"))
		return styles.Detail.Render(strings.Join(lines, "\n"))
	}

	asOf := m.deps.now()
	state := "open"
	if score.IsClosed() {
		state = styles.Closed.Render("closed")
	}
	lines = append(lines, "",
		RenderDetailRow("state", state),
		RenderDetailRow("visits", fmt.Sprintf("%d", score.VisitCount)),
		RenderDetailRow("read to last", commands.FormatSeconds(score.ReadingTimeToLastEvent)),
		RenderDetailRow("total", fmt.Sprintf("%.3f", score.Total(asOf))),
		RenderDetailRow("clustering", fmt.Sprintf("%.3f", score.ClusteringScore(asOf))),
		RenderDetailRow("removal", fmt.Sprintf("%.3f", score.ClusteringRemovalScore(asOf))),
	)
	return styles.Detail.Render(strings.Join(lines, "\n"))
}
