package domain

import (
	"math"
	"time"
)

// VisitType tags a frecency update with how the page was reached
type VisitType string

const (
	VisitWebRoot           VisitType = "webRoot"
	VisitWebLinkActivation VisitType = "webLinkActivation"
	VisitWebFromNote       VisitType = "webFromNote"
	VisitWebSearchBar      VisitType = "webSearchBar"
)

// Weight is the multiplier applied to a frecency update of this type
func (v VisitType) Weight() float64 {
	switch v {
	case VisitWebLinkActivation:
		return 0.5
	case VisitWebFromNote, VisitWebSearchBar:
		return 1.5
	}
	return 1
}

// FrecencyParamKey selects a frecency series
type FrecencyParamKey string

const (
	FrecencyWebVisit30d0       FrecencyParamKey = "webVisit30d0"
	FrecencyWebReadingTime30d0 FrecencyParamKey = "webReadingTime30d0"
)

// HalfLife is the decay half-life encoded in the key name
func (k FrecencyParamKey) HalfLife() time.Duration {
	return 30 * 24 * time.Hour
}

// FrecencyRecord is the current frecency state of a link for one key
type FrecencyRecord struct {
	Link          LinkID
	Key           FrecencyParamKey
	Score         float64
	LastTimestamp time.Time
	SortValue     float64
}

// DecayFrecency folds a new weighted value into a record. prev may be nil.
// Updates older than the record's last timestamp are decayed forward
// instead of rewinding the record.
func DecayFrecency(prev *FrecencyRecord, link LinkID, key FrecencyParamKey, value, weight float64, at time.Time, halfLife time.Duration) FrecencyRecord {
	rec := FrecencyRecord{Link: link, Key: key, LastTimestamp: at}
	increment := value * weight

	if prev == nil {
		rec.Score = increment
	} else {
		elapsed := at.Sub(prev.LastTimestamp).Seconds()
		if elapsed >= 0 {
			rec.Score = prev.Score*decay(elapsed, halfLife) + increment
		} else {
			rec.Score = prev.Score + increment*decay(-elapsed, halfLife)
			rec.LastTimestamp = prev.LastTimestamp
		}
	}

	rec.SortValue = FrecencySortValue(rec.Score, rec.LastTimestamp, halfLife)
	return rec
}

// FrecencySortValue makes records with different timestamps comparable
func FrecencySortValue(score float64, at time.Time, halfLife time.Duration) float64 {
	if score <= 0 {
		return math.Inf(-1)
	}
	return math.Log(score) + float64(at.Unix())*math.Ln2/halfLife.Seconds()
}

func decay(elapsedSeconds float64, halfLife time.Duration) float64 {
	return math.Exp(-elapsedSeconds * math.Ln2 / halfLife.Seconds())
}
