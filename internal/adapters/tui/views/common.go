package views

import (
	"log/slog"
	"time"

	"browsetree/internal/application"
	"browsetree/internal/browsing"
	"browsetree/internal/ports"
)

// Deps are the collaborators shared by every view
type Deps struct {
	Trees  ports.TreeRepository
	Links  ports.LinkStore
	Env    browsing.Env
	Opener ports.URLOpener
	Clock  ports.Clock
	Logger *slog.Logger

	// CopyText writes to the system clipboard. Nil disables copying.
	CopyText func(string) error
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock.Now()
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// visibleRows is how many list rows fit once chrome lines are taken
func (s *ViewState) visibleRows(chrome int) int {
	if s.Height <= 0 {
		return 20
	}
	return max(s.Height-chrome, 3)
}

// Messages for view switching
type (
	SwitchToTreesMsg   struct{}
	SwitchToBrowserMsg struct{ TreeID string }
	SwitchToDeleteMsg  struct{ Summary application.TreeSummary }
	SwitchToHelpMsg    struct{}
	CloseHelpMsg       struct{}
)

type errMsg struct {
	err error
}
