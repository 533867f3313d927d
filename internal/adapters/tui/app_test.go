package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"browsetree/internal/adapters/memory"
	"browsetree/internal/adapters/tui/views"
	"browsetree/internal/logging"
)

func TestApp_ViewSwitching(t *testing.T) {
	app := NewApp(views.Deps{
		Trees:  memory.NewTreeRepository(),
		Links:  memory.NewLinkStore(),
		Logger: logging.Discard(),
	})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	steps := []struct {
		msg  tea.Msg
		want ViewState
	}{
		{views.SwitchToBrowserMsg{TreeID: "8f0e2c4a-5b1d-4c3e-9a7f-1d2e3f4a5b6c"}, ViewBrowser},
		{views.SwitchToHelpMsg{}, ViewHelp},
		{views.CloseHelpMsg{}, ViewBrowser},
		{views.SwitchToTreesMsg{}, ViewTrees},
		{views.DeleteErrMsg{Err: errString("gone")}, ViewTrees},
	}
	for _, s := range steps {
		app.Update(s.msg)
		if app.State() != s.want {
			t.Errorf("after %T state = %v, want %v", s.msg, app.State(), s.want)
		}
	}

	if app.View() == "" {
		t.Error("View should render the tree list")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
