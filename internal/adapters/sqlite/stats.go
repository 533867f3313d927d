package sqlite

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// UpdateReadTime adds read time on a domain page to a tree. Failures are
// logged.
func (s *Store) UpdateReadTime(treeID uuid.UUID, url string, readTime float64, at time.Time) {
	_, err := s.db.Exec(`
		INSERT INTO tree_read_times (tree_id, url, read_time, last_update)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (tree_id, url) DO UPDATE SET
			read_time = read_time + excluded.read_time,
			last_update = excluded.last_update
	`, treeID.String(), url, readTime, at.UnixNano())
	if err != nil {
		s.logger.Error("failed to update tree read time", "tree", treeID, "url", url, "error", err)
	}
}

// UpdateLifetime records the lifetime of a tree in seconds
func (s *Store) UpdateLifetime(treeID uuid.UUID, lifetime float64) {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO tree_lifetimes (tree_id, lifetime) VALUES (?, ?)
	`, treeID.String(), lifetime)
	if err != nil {
		s.logger.Error("failed to update tree lifetime", "tree", treeID, "error", err)
	}
}

// TreeReadTimes returns the accumulated domain read times of a tree by URL
func (s *Store) TreeReadTimes(treeID uuid.UUID) (map[string]float64, error) {
	rows, err := s.db.Query(`
		SELECT url, read_time FROM tree_read_times WHERE tree_id = ?
	`, treeID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := make(map[string]float64)
	for rows.Next() {
		var url string
		var readTime float64
		if err := rows.Scan(&url, &readTime); err != nil {
			return nil, err
		}
		times[url] = readTime
	}

	return times, rows.Err()
}

// TreeLifetime returns the last lifetime reported for a tree
func (s *Store) TreeLifetime(treeID uuid.UUID) (float64, bool, error) {
	var lifetime float64
	err := s.db.QueryRow(`SELECT lifetime FROM tree_lifetimes WHERE tree_id = ?`, treeID.String()).Scan(&lifetime)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return lifetime, true, nil
}
