package styles

import (
	"github.com/charmbracelet/lipgloss"

	"browsetree/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	Link      = lipgloss.Color("#60A5FA") // Blue
	White     = lipgloss.Color("#FFFFFF")

	// Origin colors
	OriginSearch = lipgloss.Color("#6366F1") // Indigo
	OriginNode   = lipgloss.Color("#8B5CF6") // Violet
	OriginNote   = lipgloss.Color("#EC4899") // Pink
	OriginImport = lipgloss.Color("#F97316") // Orange

	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree node styles
	NodeRoot = lipgloss.NewStyle().
			Bold(true)

	NodePage = lipgloss.NewStyle()

	NodeActivation = lipgloss.NewStyle().
			Foreground(Link)

	NodeCurrent = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	NodeLegacy = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	// Tree indicators
	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "

	// Detail pane
	Detail = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)

	DetailLabel = lipgloss.NewStyle().
			Foreground(Muted).
			Width(18)

	DetailValue = lipgloss.NewStyle()

	Closed = lipgloss.NewStyle().
		Foreground(Warning)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Foreground(Muted).
			MarginTop(1)

	StatusKey = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	// Input
	InputLabel = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Help
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Messages
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// OriginColor returns the color for a tree origin kind
func OriginColor(kind domain.OriginKind) lipgloss.Color {
	switch kind {
	case domain.OriginSearchBar:
		return OriginSearch
	case domain.OriginBrowsingNode, domain.OriginPinnedTab:
		return OriginNode
	case domain.OriginSearchFromNode, domain.OriginLinkFromNote:
		return OriginNote
	case domain.OriginHistoryImport:
		return OriginImport
	default:
		return Muted
	}
}
