package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"browsetree/internal/adapters/tui/styles"
	"browsetree/internal/application/commands"
)

// DeleteModel asks for confirmation before deleting a stored tree
type DeleteModel struct {
	ConfirmationModel
	deps Deps
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(deps Deps) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		deps:              deps,
	}
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			m.doDelete,
			func() tea.Msg { return SwitchToTreesMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	if m.Target == nil {
		return DeleteErrMsg{Err: fmt.Errorf("no tree selected")}
	}

	id := m.Target.ID.String()
	if err := commands.NewDeleteTreeCommand(m.deps.Trees, id).Execute(context.Background()); err != nil {
		return DeleteErrMsg{Err: err}
	}
	m.deps.logger().Info("tree deleted", "tree", id)

	return DeleteSuccessMsg{
		Message: fmt.Sprintf("Deleted tree %s", id),
	}
}

// DeleteSuccessMsg indicates successful deletion
type DeleteSuccessMsg struct {
	Message string
}

// DeleteErrMsg indicates an error during deletion
type DeleteErrMsg struct {
	Err error
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	return NewViewBuilder().
		Title("Delete Confirmation", "").
		Line(styles.ErrorMsg.Render("This action cannot be undone!")).
		BlankLine().
		Line(RenderTargetInfo(m.Target, "Delete")).
		BlankLine().
		Muted("  Its scores no longer count towards link rankings.").
		BlankLine().
		Line(m.RenderPrompt("Delete this tree and its events?")).
		String()
}
