package ports

import (
	"time"

	"browsetree/internal/domain"
)

// LinkStore maps URLs to stable, deduplicated link identifiers
type LinkStore interface {
	// Visit records a visit to url at the given time and returns its link,
	// creating it if needed
	Visit(url, title string, at time.Time) (domain.Link, error)

	// LinkFor returns the link with the given id, or nil if unknown
	LinkFor(id domain.LinkID) (*domain.Link, error)

	// Domain relationships
	IsDomain(id domain.LinkID) (bool, error)
	DomainID(id domain.LinkID) (domain.LinkID, bool, error)

	// GetOrCreateID resolves a URL without counting a visit
	GetOrCreateID(url string) (domain.LinkID, error)
}
