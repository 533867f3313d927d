package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"browsetree/internal/adapters/clock"
	"browsetree/internal/adapters/memory"
	"browsetree/internal/browsing"
	"browsetree/internal/domain"
	"browsetree/internal/logging"
)

var testStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

const (
	pageA = "https://go.dev/doc/"
	pageB = "https://go.dev/tour/"
	pageC = "https://pkg.go.dev/net/http"
)

type fixture struct {
	repo  *memory.TreeRepository
	links *memory.LinkStore
	stats *memory.TreeStats
	clock *clock.Manual
	env   browsing.Env
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:  memory.NewTreeRepository(),
		links: memory.NewLinkStore(),
		stats: memory.NewTreeStats(),
		clock: clock.NewManual(testStart),
	}
	f.env = browsing.Env{
		Links:     f.links,
		TreeStats: f.stats,
		Clock:     f.clock,
		Logger:    logging.Discard(),
	}
	return f
}

func (f *fixture) advance(seconds int) {
	f.clock.Advance(time.Duration(seconds) * time.Second)
}

// readThenClose builds a tree reading pageA for 100s and pageB for 1s,
// then closes the tab, and stores it.
func (f *fixture) readThenClose(t *testing.T) *browsing.Tree {
	t.Helper()

	tree := browsing.NewTree(domain.SearchBarOrigin("go", nil), f.env)
	f.advance(10)
	tree.NavigateTo(pageA, "Documentation", true, false)
	f.advance(100)
	tree.NavigateTo(pageB, "A Tour of Go", true, true)
	f.advance(1)
	tree.CloseTab()

	if err := f.repo.Save(context.Background(), tree.Document()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return tree
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
