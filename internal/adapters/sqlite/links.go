package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"browsetree/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// scanLink reads one link row, nil if there is none
func scanLink(row rowScanner) (*domain.Link, error) {
	var id, url, title string
	var domainID sql.NullString
	var isDomain bool

	err := row.Scan(&id, &url, &title, &domainID, &isDomain)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	link := &domain.Link{URL: url, Title: title, IsDomain: isDomain}
	if link.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("corrupt link id %q: %w", id, err)
	}
	if domainID.Valid {
		d, err := uuid.Parse(domainID.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt domain id %q: %w", domainID.String, err)
		}
		link.DomainID = &d
	}
	return link, nil
}

// Visit records a visit to url at the given time and returns its link
func (s *Store) Visit(url, title string, at time.Time) (domain.Link, error) {
	var link *domain.Link
	err := s.withTx(func(tx *storeTx) error {
		var err error
		if link, err = tx.ensureLink(url); err != nil {
			return err
		}
		return tx.recordVisit(link, title, at)
	})
	if err != nil {
		return domain.Link{}, fmt.Errorf("failed to record visit to %s: %w", url, err)
	}
	return *link, nil
}

// GetOrCreateID resolves url without counting a visit
func (s *Store) GetOrCreateID(url string) (domain.LinkID, error) {
	var link *domain.Link
	err := s.withTx(func(tx *storeTx) error {
		var err error
		link, err = tx.ensureLink(url)
		return err
	})
	if err != nil {
		return domain.MissingLinkID, fmt.Errorf("failed to resolve %s: %w", url, err)
	}
	return link.ID, nil
}

// LinkFor returns the link with id, or nil if unknown
func (s *Store) LinkFor(id domain.LinkID) (*domain.Link, error) {
	return scanLink(s.db.QueryRow(`
		SELECT id, url, title, domain_id, is_domain
		FROM links WHERE id = ?
	`, id.String()))
}

func (s *Store) IsDomain(id domain.LinkID) (bool, error) {
	link, err := s.LinkFor(id)
	if err != nil || link == nil {
		return false, err
	}
	return link.IsDomain, nil
}

func (s *Store) DomainID(id domain.LinkID) (domain.LinkID, bool, error) {
	link, err := s.LinkFor(id)
	if err != nil || link == nil || link.DomainID == nil {
		return domain.MissingLinkID, false, err
	}
	return *link.DomainID, true, nil
}

// LinkVisits returns the number of recorded visits of a link
func (s *Store) LinkVisits(id domain.LinkID) (int, error) {
	var visits int
	err := s.db.QueryRow(`SELECT visits FROM links WHERE id = ?`, id.String()).Scan(&visits)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return visits, err
}

// LastVisit returns the time of the latest recorded visit to id
func (s *Store) LastVisit(id domain.LinkID) (time.Time, bool, error) {
	var last sql.NullInt64
	err := s.db.QueryRow(`SELECT last_visit FROM links WHERE id = ?`, id.String()).Scan(&last)
	if err == sql.ErrNoRows || (err == nil && !last.Valid) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(0, last.Int64).UTC(), true, nil
}
