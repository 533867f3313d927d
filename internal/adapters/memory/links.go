// Package memory provides in-process implementations of the ports, used by
// tests, replays and the MCP server when no data directory is configured.
package memory

import (
	"sync"
	"time"

	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

// LinkStore keeps links in a map keyed by URL
type LinkStore struct {
	mu     sync.RWMutex
	byURL  map[string]domain.LinkID
	links  map[domain.LinkID]*domain.Link
	visits map[domain.LinkID]int
	last   map[domain.LinkID]time.Time
}

var _ ports.LinkStore = (*LinkStore)(nil)

// NewLinkStore creates an empty link store
func NewLinkStore() *LinkStore {
	return &LinkStore{
		byURL:  make(map[string]domain.LinkID),
		links:  make(map[domain.LinkID]*domain.Link),
		visits: make(map[domain.LinkID]int),
		last:   make(map[domain.LinkID]time.Time),
	}
}

// Visit records a visit and returns the link, creating it and its domain
func (s *LinkStore) Visit(url, title string, at time.Time) (domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link := s.ensure(url)
	if title != "" {
		link.Title = title
	}
	s.visits[link.ID]++
	s.last[link.ID] = at
	return *link, nil
}

// LastVisit returns the time of the latest visit to id
func (s *LinkStore) LastVisit(id domain.LinkID) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.last[id]
	return at, ok
}

// GetOrCreateID resolves url without counting a visit
func (s *LinkStore) GetOrCreateID(url string) (domain.LinkID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensure(url).ID, nil
}

func (s *LinkStore) ensure(url string) *domain.Link {
	if id, ok := s.byURL[url]; ok {
		return s.links[id]
	}

	link := &domain.Link{ID: domain.LinkIDFor(url), URL: url}
	if domainURL, isDomain, err := domain.DomainOf(url); err == nil {
		link.IsDomain = isDomain
		if !isDomain {
			d := s.ensure(domainURL)
			link.DomainID = &d.ID
		}
	}
	s.byURL[url] = link.ID
	s.links[link.ID] = link
	return link
}

// LinkFor returns the link with id, or nil if unknown
func (s *LinkStore) LinkFor(id domain.LinkID) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[id]
	if !ok {
		return nil, nil
	}
	cp := *link
	return &cp, nil
}

func (s *LinkStore) IsDomain(id domain.LinkID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[id]
	return ok && link.IsDomain, nil
}

func (s *LinkStore) DomainID(id domain.LinkID) (domain.LinkID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[id]
	if !ok || link.DomainID == nil {
		return domain.MissingLinkID, false, nil
	}
	return *link.DomainID, true, nil
}

// Visits returns how many times Visit was called for id
func (s *LinkStore) Visits(id domain.LinkID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visits[id]
}
