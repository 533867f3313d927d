package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"browsetree/internal/domain"
)

// Update folds a weighted value into the frecency series of id. Failures
// are logged.
func (s *Store) Update(id domain.LinkID, value float64, visit domain.VisitType, at time.Time, key domain.FrecencyParamKey) {
	halfLife := s.halfLife
	if halfLife <= 0 {
		halfLife = key.HalfLife()
	}

	err := s.withTx(func(tx *storeTx) error {
		prev, err := tx.frecency(id, key)
		if err != nil {
			return err
		}
		return tx.putFrecency(domain.DecayFrecency(prev, id, key, value, visit.Weight(), at, halfLife))
	})
	if err != nil {
		s.logger.Error("failed to update frecency", "link", id, "key", key, "error", err)
	}
}

// TopFrecency returns the highest ranked records for key
func (s *Store) TopFrecency(key domain.FrecencyParamKey, limit int) ([]domain.FrecencyRecord, error) {
	rows, err := s.db.Query(`
		SELECT link_id, score, last_timestamp, sort_value
		FROM frecency WHERE param_key = ?
		ORDER BY sort_value DESC
		LIMIT ?
	`, string(key), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.FrecencyRecord
	for rows.Next() {
		var id string
		var ts int64
		rec := domain.FrecencyRecord{Key: key}
		if err := rows.Scan(&id, &rec.Score, &ts, &rec.SortValue); err != nil {
			return nil, err
		}
		if rec.Link, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt link id %q: %w", id, err)
		}
		rec.LastTimestamp = time.Unix(0, ts)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Apply mutates the score of link for the day of at. Failures are logged.
func (s *Store) Apply(link domain.LinkID, at time.Time, mutate func(*domain.Score)) {
	day := domain.DayKey(at)
	err := s.withTx(func(tx *storeTx) error {
		score, err := tx.dailyScore(link, day)
		if err != nil {
			return err
		}
		mutate(score)
		return tx.putDailyScore(link, day, score)
	})
	if err != nil {
		s.logger.Error("failed to apply daily score", "link", link, "day", day, "error", err)
	}
}

// DailyScores returns every link score recorded on day
func (s *Store) DailyScores(day string) ([]domain.DailyScore, error) {
	rows, err := s.db.Query(`
		SELECT link_id, payload FROM daily_scores
		WHERE day = ?
		ORDER BY link_id
	`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []domain.DailyScore
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		ds := domain.DailyScore{Day: day}
		if ds.Link, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt link id %q: %w", id, err)
		}
		if err := json.Unmarshal([]byte(payload), &ds.Score); err != nil {
			return nil, fmt.Errorf("corrupt daily score for %s: %w", id, err)
		}
		scores = append(scores, ds)
	}

	return scores, rows.Err()
}

// DailyScore returns the score of link on day, nil if none was recorded
func (s *Store) DailyScore(link domain.LinkID, day string) (*domain.Score, error) {
	var payload string
	err := s.db.QueryRow(`
		SELECT payload FROM daily_scores WHERE link_id = ? AND day = ?
	`, link.String(), day).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var score domain.Score
	if err := json.Unmarshal([]byte(payload), &score); err != nil {
		return nil, err
	}
	return &score, nil
}

// finiteSortValue keeps -Inf out of REAL columns
func finiteSortValue(v float64) float64 {
	if math.IsInf(v, -1) {
		return -math.MaxFloat64
	}
	return v
}
