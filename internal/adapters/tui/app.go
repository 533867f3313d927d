package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"browsetree/internal/adapters/tui/views"
)

// ViewState represents the current view
type ViewState int

const (
	ViewTrees ViewState = iota
	ViewBrowser
	ViewDelete
	ViewHelp
)

// App is the main TUI application model
type App struct {
	state     ViewState
	prevState ViewState

	trees   *views.TreeListModel
	browser *views.BrowserModel
	delete  *views.DeleteModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(deps views.Deps) *App {
	return &App{
		state:   ViewTrees,
		trees:   views.NewTreeListModel(deps),
		browser: views.NewBrowserModel(deps),
		delete:  views.NewDeleteModel(deps),
		help:    views.NewHelpModel(),
	}
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.trees.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.trees.SetSize(msg.Width, msg.Height)
		a.browser.SetSize(msg.Width, msg.Height)
		a.delete.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToTreesMsg:
		a.state = ViewTrees
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, a.browser.Open(msg.TreeID)

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.delete.SetTarget(msg.Summary)
		return a, nil

	case views.SwitchToHelpMsg:
		a.prevState = a.state
		a.state = ViewHelp
		return a, nil

	case views.CloseHelpMsg:
		a.state = a.prevState
		return a, nil

	// Delete view messages
	case views.DeleteSuccessMsg:
		a.state = ViewTrees
		a.trees.SetMessage(msg.Message, false)
		return a, a.trees.Reload()

	case views.DeleteErrMsg:
		a.state = ViewTrees
		a.trees.SetMessage(msg.Err.Error(), true)
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewTrees:
		_, cmd = a.trees.Update(msg)
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewDelete:
		_, cmd = a.delete.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewBrowser:
		return a.browser.View()
	case ViewDelete:
		return a.delete.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.trees.View()
	}
}
