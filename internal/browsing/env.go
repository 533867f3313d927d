package browsing

import (
	"log/slog"
	"time"

	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

// Env carries the collaborators a tree reports to. Nil stores are skipped.
// A nil Links derives ids from URLs, a nil Clock reads the wall clock and a
// nil Sessions gives the tree a sessionnizer of its own.
type Env struct {
	Links       ports.LinkStore
	Frecency    ports.FrecencyScorer
	DailyScores ports.DailyScoreStore
	TreeStats   ports.TreeStatsStore
	Clock       ports.Clock
	Sessions    *Sessionnizer
	Logger      *slog.Logger
}

func (e Env) normalized() Env {
	if e.Clock == nil {
		e.Clock = systemClock{}
	}
	if e.Links == nil {
		e.Links = derivedLinks{}
	}
	if e.Sessions == nil {
		e.Sessions = NewSessionnizer(e.Clock, DefaultSessionDuration)
	}
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	return e
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// derivedLinks resolves links from the URL alone when no store is wired
type derivedLinks struct{}

func (derivedLinks) Visit(url, title string, _ time.Time) (domain.Link, error) {
	_, isDomain, _ := domain.DomainOf(url)
	return domain.Link{ID: domain.LinkIDFor(url), URL: url, Title: title, IsDomain: isDomain}, nil
}

func (derivedLinks) LinkFor(domain.LinkID) (*domain.Link, error) { return nil, nil }

func (derivedLinks) IsDomain(domain.LinkID) (bool, error) { return false, nil }

func (derivedLinks) DomainID(domain.LinkID) (domain.LinkID, bool, error) {
	return domain.MissingLinkID, false, nil
}

func (derivedLinks) GetOrCreateID(url string) (domain.LinkID, error) {
	return domain.LinkIDFor(url), nil
}
