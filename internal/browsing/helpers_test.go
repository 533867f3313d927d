package browsing

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"browsetree/internal/adapters/clock"
	"browsetree/internal/adapters/memory"
	"browsetree/internal/domain"
)

var testStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	clock    *clock.Manual
	links    *memory.LinkStore
	frecency *memory.Frecency
	daily    *memory.DailyScores
	stats    *memory.TreeStats
	env      Env
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		clock:    clock.NewManual(testStart),
		links:    memory.NewLinkStore(),
		frecency: memory.NewFrecency(0),
		daily:    memory.NewDailyScores(),
		stats:    memory.NewTreeStats(),
	}
	f.env = Env{
		Links:       f.links,
		Frecency:    f.frecency,
		DailyScores: f.daily,
		TreeStats:   f.stats,
		Clock:       f.clock,
		Sessions:    NewSessionnizer(f.clock, DefaultSessionDuration),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return f
}

func (f *fixture) searchTree() *Tree {
	return NewTree(domain.SearchBarOrigin("golang generics", nil), f.env)
}

func (f *fixture) advance(seconds int) {
	f.clock.Advance(time.Duration(seconds) * time.Second)
}

func (f *fixture) id(url string) domain.LinkID {
	id, _ := f.links.GetOrCreateID(url)
	return id
}

func eventTypes(n *Node) []domain.ReadingEventType {
	var types []domain.ReadingEventType
	for _, ev := range n.Events() {
		types = append(types, ev.Type)
	}
	return types
}
