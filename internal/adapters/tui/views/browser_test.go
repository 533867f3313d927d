package views

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"browsetree/internal/adapters/clock"
	"browsetree/internal/adapters/memory"
	"browsetree/internal/browsing"
	"browsetree/internal/domain"
	"browsetree/internal/logging"
)

const (
	pageA = "https://go.dev/doc/"
	pageB = "https://go.dev/tour/"
)

type fakeOpener struct {
	opened []string
	err    error
}

func (o *fakeOpener) OpenURL(rawURL string) error {
	if o.err != nil {
		return o.err
	}
	o.opened = append(o.opened, rawURL)
	return nil
}

type viewFixture struct {
	deps   Deps
	repo   *memory.TreeRepository
	opener *fakeOpener
	copied []string
	tree   *browsing.Tree
}

func newViewFixture(t *testing.T) *viewFixture {
	t.Helper()

	f := &viewFixture{
		repo:   memory.NewTreeRepository(),
		opener: &fakeOpener{},
	}
	links := memory.NewLinkStore()
	clk := clock.NewManual(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	env := browsing.Env{Links: links, Clock: clk, Logger: logging.Discard()}

	f.deps = Deps{
		Trees:  f.repo,
		Links:  links,
		Env:    env,
		Opener: f.opener,
		Clock:  clk,
		Logger: logging.Discard(),
		CopyText: func(s string) error {
			f.copied = append(f.copied, s)
			return nil
		},
	}

	// root -> A -> B
	f.tree = browsing.NewTree(domain.SearchBarOrigin("go", nil), env)
	clk.Advance(10 * time.Second)
	f.tree.NavigateTo(pageA, "Documentation", true, false)
	clk.Advance(100 * time.Second)
	f.tree.NavigateTo(pageB, "A Tour of Go", true, true)
	clk.Advance(time.Second)
	f.tree.CloseTab()

	if err := f.repo.Save(context.Background(), f.tree.Document()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return f
}

func press(m tea.Model, keys string) tea.Cmd {
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestPaginator_ScrollsToCursor(t *testing.T) {
	p := NewPaginator(3)
	p.SetTotal(10)

	for range 4 {
		p.CursorDown()
	}
	start, end := p.VisibleRange()
	if p.Cursor() != 4 || start != 2 || end != 5 {
		t.Errorf("cursor=%d range=[%d,%d), want cursor=4 range=[2,5)", p.Cursor(), start, end)
	}

	p.PageDown()
	p.PageDown()
	if p.Cursor() != 9 {
		t.Errorf("cursor = %d, want clamped to 9", p.Cursor())
	}

	p.SetTotal(2)
	if p.Cursor() != 1 {
		t.Errorf("cursor = %d after shrinking, want 1", p.Cursor())
	}
	if p.CursorDown() {
		t.Error("CursorDown should fail on the last row")
	}
}

func TestBrowser_CollapseAndExpand(t *testing.T) {
	f := newViewFixture(t)
	m := NewBrowserModel(f.deps)
	m.SetTree(f.tree)

	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.rows))
	}

	a := m.tree.Root().Children()[0]
	m.selectNode(a.Index())

	press(m, "h")
	if len(m.rows) != 2 {
		t.Errorf("rows after collapse = %d, want 2", len(m.rows))
	}
	if m.SelectedNode() != a {
		t.Error("collapsing should keep the node selected")
	}

	press(m, "h")
	if m.SelectedNode() != m.tree.Root() {
		t.Error("h on a collapsed node should move to its parent")
	}

	m.selectNode(a.Index())
	press(m, "l")
	if len(m.rows) != 3 {
		t.Errorf("rows after expand = %d, want 3", len(m.rows))
	}

	press(m, "enter")
	if len(m.rows) != 2 {
		t.Errorf("rows after enter = %d, want 2", len(m.rows))
	}

	press(m, "g")
	if m.SelectedNode() != m.tree.Current() || len(m.rows) != 3 {
		t.Error("g should reveal and select the current node")
	}
}

func TestBrowser_CopyAndOpen(t *testing.T) {
	f := newViewFixture(t)
	m := NewBrowserModel(f.deps)
	m.SetTree(f.tree)
	m.selectNode(m.tree.Root().Children()[0].Index())

	msg := press(m, "c")()
	if _, ok := msg.(statusMsg); !ok {
		t.Fatalf("copy returned %T, want statusMsg", msg)
	}
	if len(f.copied) != 1 || f.copied[0] != pageA {
		t.Errorf("copied = %v, want [%s]", f.copied, pageA)
	}

	msg = press(m, "o")()
	if _, ok := msg.(statusMsg); !ok {
		t.Fatalf("open returned %T, want statusMsg", msg)
	}
	if len(f.opener.opened) != 1 || f.opener.opened[0] != pageA {
		t.Errorf("opened = %v, want [%s]", f.opener.opened, pageA)
	}

	f.opener.err = errors.New("no browser")
	if _, ok := press(m, "o")().(errMsg); !ok {
		t.Error("a failing opener should surface an error")
	}

	m.selectNode(m.tree.Root().Index())
	if _, ok := press(m, "c")().(errMsg); !ok {
		t.Error("copying the root should fail")
	}
}

func TestBrowser_LoadsAndRenders(t *testing.T) {
	f := newViewFixture(t)
	m := NewBrowserModel(f.deps)

	cmd := m.Open(f.tree.ID().String())
	m.Update(cmd())
	if m.tree == nil {
		t.Fatalf("tree not loaded, message %q", m.Message)
	}

	view := m.View()
	for _, want := range []string{"(root)", "Documentation", "A Tour of Go", "clustering"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	press(m, "i")
	if strings.Contains(m.View(), "clustering") {
		t.Error("details pane should be hidden after toggling")
	}
}

func TestBrowser_UnknownTree(t *testing.T) {
	f := newViewFixture(t)
	m := NewBrowserModel(f.deps)

	m.Update(m.Open("not-a-uuid")())
	if !m.MessageErr {
		t.Error("expected an error message for an invalid id")
	}
	if _, ok := press(m, "esc")().(SwitchToTreesMsg); !ok {
		t.Error("esc should return to the tree list")
	}
}

func TestTreeList_OpenAndDelete(t *testing.T) {
	f := newViewFixture(t)
	m := NewTreeListModel(f.deps)
	m.Update(m.Init()())

	if len(m.summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(m.summaries))
	}
	if !strings.Contains(m.View(), "3 nodes") {
		t.Errorf("view does not show the node count:\n%s", m.View())
	}

	msg, ok := press(m, "enter")().(SwitchToBrowserMsg)
	if !ok || msg.TreeID != f.tree.ID().String() {
		t.Errorf("enter returned %+v, want SwitchToBrowserMsg for %s", msg, f.tree.ID())
	}

	del, ok := press(m, "d")().(SwitchToDeleteMsg)
	if !ok || del.Summary.ID != f.tree.ID() {
		t.Fatalf("d returned %+v", del)
	}

	dm := NewDeleteModel(f.deps)
	dm.SetTarget(del.Summary)
	if _, ok := press(dm, "n")().(SwitchToTreesMsg); !ok {
		t.Error("n should cancel")
	}
	if _, ok := press(dm, "y")().(DeleteSuccessMsg); !ok {
		t.Fatal("y should delete")
	}

	summaries, err := f.repo.List(context.Background())
	if err != nil || len(summaries) != 0 {
		t.Errorf("List after delete = %v, %v; want empty", summaries, err)
	}
	if _, ok := press(dm, "y")().(DeleteErrMsg); !ok {
		t.Error("deleting twice should fail")
	}
}

func TestHelp_ListsBindingsAndCloses(t *testing.T) {
	m := NewHelpModel()

	view := m.View()
	for _, want := range []string{"go to current", "copy url", "delete", "legacy"} {
		if !strings.Contains(view, want) {
			t.Errorf("help view missing %q", want)
		}
	}

	if _, ok := press(m, "?")().(CloseHelpMsg); !ok {
		t.Error("? should close the help view")
	}
	if cmd := press(m, "x"); cmd != nil {
		t.Error("unbound key should be ignored")
	}
}
