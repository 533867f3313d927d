package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"browsetree/internal/domain"
)

// storeTx groups the statements that must see a consistent database
type storeTx struct {
	tx *sql.Tx
}

// withTx runs fn in a transaction, committing on success
func (s *Store) withTx(fn func(*storeTx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(&storeTx{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ensureLink returns the link for url, inserting it and its domain if needed
func (t *storeTx) ensureLink(url string) (*domain.Link, error) {
	link, err := scanLink(t.tx.QueryRow(`
		SELECT id, url, title, domain_id, is_domain
		FROM links WHERE url = ?
	`, url))
	if err != nil || link != nil {
		return link, err
	}

	link = &domain.Link{ID: domain.LinkIDFor(url), URL: url}
	if domainURL, isDomain, err := domain.DomainOf(url); err == nil {
		link.IsDomain = isDomain
		if !isDomain {
			d, err := t.ensureLink(domainURL)
			if err != nil {
				return nil, fmt.Errorf("failed to create domain %s: %w", domainURL, err)
			}
			link.DomainID = &d.ID
		}
	}

	var domainID sql.NullString
	if link.DomainID != nil {
		domainID = sql.NullString{String: link.DomainID.String(), Valid: true}
	}
	_, err = t.tx.Exec(`
		INSERT INTO links (id, url, title, domain_id, is_domain)
		VALUES (?, ?, '', ?, ?)
	`, link.ID.String(), url, domainID, link.IsDomain)
	if err != nil {
		return nil, err
	}
	return link, nil
}

// recordVisit bumps the visit counter and refreshes the title
func (t *storeTx) recordVisit(link *domain.Link, title string, at time.Time) error {
	if title != "" {
		link.Title = title
	}
	_, err := t.tx.Exec(`
		UPDATE links SET visits = visits + 1, title = ?, last_visit = ?
		WHERE id = ?
	`, link.Title, at.UnixNano(), link.ID.String())
	return err
}

// frecency reads a frecency record, nil if absent
func (t *storeTx) frecency(link domain.LinkID, key domain.FrecencyParamKey) (*domain.FrecencyRecord, error) {
	var rec domain.FrecencyRecord
	var ts int64
	err := t.tx.QueryRow(`
		SELECT score, last_timestamp, sort_value
		FROM frecency WHERE link_id = ? AND param_key = ?
	`, link.String(), string(key)).Scan(&rec.Score, &ts, &rec.SortValue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.Link = link
	rec.Key = key
	rec.LastTimestamp = time.Unix(0, ts)
	return &rec, nil
}

// putFrecency writes a frecency record
func (t *storeTx) putFrecency(rec domain.FrecencyRecord) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO frecency (link_id, param_key, score, last_timestamp, sort_value)
		VALUES (?, ?, ?, ?, ?)
	`, rec.Link.String(), string(rec.Key), rec.Score, rec.LastTimestamp.UnixNano(), finiteSortValue(rec.SortValue))
	return err
}

// dailyScore reads the score of link on day, a zero score if absent
func (t *storeTx) dailyScore(link domain.LinkID, day string) (*domain.Score, error) {
	var payload string
	err := t.tx.QueryRow(`
		SELECT payload FROM daily_scores WHERE link_id = ? AND day = ?
	`, link.String(), day).Scan(&payload)
	if err == sql.ErrNoRows {
		return domain.NewScore(), nil
	}
	if err != nil {
		return nil, err
	}

	var score domain.Score
	if err := json.Unmarshal([]byte(payload), &score); err != nil {
		return nil, fmt.Errorf("corrupt daily score for %s on %s: %w", link, day, err)
	}
	return &score, nil
}

// putDailyScore writes the score of link on day
func (t *storeTx) putDailyScore(link domain.LinkID, day string, score *domain.Score) error {
	payload, err := json.Marshal(score)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(`
		INSERT OR REPLACE INTO daily_scores (link_id, day, payload)
		VALUES (?, ?, ?)
	`, link.String(), day, string(payload))
	return err
}
