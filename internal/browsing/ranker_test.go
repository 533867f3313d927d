package browsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"browsetree/internal/domain"
)

type scoreMap map[domain.LinkID]*domain.Score

func (m scoreMap) Scores() map[domain.LinkID]*domain.Score { return m }

func TestRanker_ScoreForAggregates(t *testing.T) {
	link := domain.LinkIDFor(goDoc)
	r := NewRanker(
		scoreMap{link: {ReadingTimeToLastEvent: 4, VisitCount: 1, ScrollRatioY: 0.2}},
		scoreMap{link: {ReadingTimeToLastEvent: 6, VisitCount: 2, ScrollRatioY: 0.7}},
		scoreMap{},
	)

	s := r.ScoreFor(link)
	require.NotNil(t, s)
	assert.InDelta(t, 10, s.ReadingTimeToLastEvent, 1e-9)
	assert.Equal(t, 3, s.VisitCount)
	assert.InDelta(t, 0.7, s.ScrollRatioY, 1e-9)

	assert.Nil(t, r.ScoreFor(domain.LinkIDFor(goTour)))
}

func TestRanker_ScoreForDoesNotMutateSources(t *testing.T) {
	link := domain.LinkIDFor(goDoc)
	first := &domain.Score{ReadingTimeToLastEvent: 4}
	r := NewRanker(scoreMap{link: first}, scoreMap{link: {ReadingTimeToLastEvent: 6}})

	r.ScoreFor(link)

	assert.InDelta(t, 4, first.ReadingTimeToLastEvent, 1e-9)
}

func TestRanker_ClusteringSorted(t *testing.T) {
	a, b, c, unscored := domain.LinkIDFor("https://a.example/"), domain.LinkIDFor("https://b.example/"),
		domain.LinkIDFor("https://c.example/"), domain.LinkIDFor("https://d.example/")
	r := NewRanker(scoreMap{
		a: {ReadingTimeToLastEvent: 1},
		b: {ReadingTimeToLastEvent: 5},
		c: {ReadingTimeToLastEvent: 3},
	})

	got := r.ClusteringSorted([]domain.LinkID{a, unscored, b, c}, testStart)

	assert.Equal(t, []domain.LinkID{b, c, a}, got)
}

func TestRanker_ClusteringSortedIsStable(t *testing.T) {
	a, b := domain.LinkIDFor("https://a.example/"), domain.LinkIDFor("https://b.example/")
	r := NewRanker(scoreMap{a: {TextAmount: 3}, b: {TextAmount: 3}})

	assert.Equal(t, []domain.LinkID{a, b}, r.ClusteringSorted([]domain.LinkID{a, b}, testStart))
	assert.Equal(t, []domain.LinkID{b, a}, r.ClusteringSorted([]domain.LinkID{b, a}, testStart))
}

func TestRanker_ClusteringRemovalSorted(t *testing.T) {
	created := testStart
	closed := &domain.ReadingEvent{Type: domain.EventCloseTab, Date: testStart}
	open := &domain.ReadingEvent{Type: domain.EventSwitchToBackground, Date: testStart}

	busyClosed := domain.LinkIDFor("https://closed.example/")
	quietOpen := domain.LinkIDFor("https://quiet.example/")
	busyOpen := domain.LinkIDFor("https://busy.example/")
	unscored := domain.LinkIDFor("https://unknown.example/")

	r := NewRanker(scoreMap{
		busyClosed: {ReadingTimeToLastEvent: 500, LastCreationDate: &created, LastEvent: closed},
		quietOpen:  {ReadingTimeToLastEvent: 1, LastCreationDate: &created, LastEvent: open},
		busyOpen:   {ReadingTimeToLastEvent: 50, LastCreationDate: &created, LastEvent: open},
	})

	got := r.ClusteringRemovalSorted([]domain.LinkID{busyOpen, quietOpen, unscored, busyClosed}, testStart)

	assert.Equal(t, []domain.LinkID{busyClosed, quietOpen, busyOpen}, got)
}

func TestRanker_OverTrees(t *testing.T) {
	f := newFixture(t)
	first := f.searchTree()
	first.NavigateTo(goDoc, "", true, false)
	f.advance(30)
	first.SwitchToBackground()

	second := f.searchTree()
	second.NavigateTo(goDoc, "", true, false)
	f.advance(10)
	second.NavigateTo(goTour, "", true, true)
	f.advance(2)
	second.SwitchToBackground()

	r := NewRanker()
	r.AddTree(first)
	r.AddTree(second)
	require.Equal(t, 2, r.Len())

	doc := r.ScoreFor(f.id(goDoc))
	require.NotNil(t, doc)
	assert.InDelta(t, 40, doc.ReadingTimeToLastEvent, 1e-9)
	assert.Equal(t, 2, doc.VisitCount)

	links := r.Links()
	assert.ElementsMatch(t, []domain.LinkID{f.id(goDoc), f.id(goTour)}, links)
	assert.Equal(t, []domain.LinkID{f.id(goDoc), f.id(goTour)}, r.ClusteringSorted(links, f.clock.Now().Add(time.Minute)))
}
