package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

// FrecencyUpdate is one recorded call to Frecency.Update
type FrecencyUpdate struct {
	Link  domain.LinkID
	Value float64
	Visit domain.VisitType
	At    time.Time
	Key   domain.FrecencyParamKey
}

// Frecency keeps decayed frecency records and the raw update log
type Frecency struct {
	mu       sync.Mutex
	halfLife time.Duration
	records  map[frecencyKey]domain.FrecencyRecord
	updates  []FrecencyUpdate
}

type frecencyKey struct {
	link domain.LinkID
	key  domain.FrecencyParamKey
}

var _ ports.FrecencyScorer = (*Frecency)(nil)

// NewFrecency creates a scorer; halfLife <= 0 uses the key's own half-life
func NewFrecency(halfLife time.Duration) *Frecency {
	return &Frecency{halfLife: halfLife, records: make(map[frecencyKey]domain.FrecencyRecord)}
}

func (f *Frecency) Update(id domain.LinkID, value float64, visit domain.VisitType, at time.Time, key domain.FrecencyParamKey) {
	f.mu.Lock()
	defer f.mu.Unlock()

	halfLife := f.halfLife
	if halfLife <= 0 {
		halfLife = key.HalfLife()
	}

	k := frecencyKey{id, key}
	var prev *domain.FrecencyRecord
	if rec, ok := f.records[k]; ok {
		prev = &rec
	}
	f.records[k] = domain.DecayFrecency(prev, id, key, value, visit.Weight(), at, halfLife)
	f.updates = append(f.updates, FrecencyUpdate{Link: id, Value: value, Visit: visit, At: at, Key: key})
}

// Record returns the current record of a link for key
func (f *Frecency) Record(id domain.LinkID, key domain.FrecencyParamKey) (domain.FrecencyRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[frecencyKey{id, key}]
	return rec, ok
}

// Updates returns a copy of every update received so far
func (f *Frecency) Updates() []FrecencyUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FrecencyUpdate(nil), f.updates...)
}

// DailyScores accumulates scores per link and day
type DailyScores struct {
	mu     sync.Mutex
	scores map[dailyKey]*domain.Score
}

type dailyKey struct {
	link domain.LinkID
	day  string
}

var _ ports.DailyScoreStore = (*DailyScores)(nil)

func NewDailyScores() *DailyScores {
	return &DailyScores{scores: make(map[dailyKey]*domain.Score)}
}

func (d *DailyScores) Apply(link domain.LinkID, at time.Time, mutate func(*domain.Score)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	k := dailyKey{link, domain.DayKey(at)}
	s, ok := d.scores[k]
	if !ok {
		s = domain.NewScore()
		d.scores[k] = s
	}
	mutate(s)
}

// Get returns a copy of the score of link on day, or nil
func (d *DailyScores) Get(link domain.LinkID, day string) *domain.Score {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.scores[dailyKey{link, day}]; ok {
		return s.Clone()
	}
	return nil
}

// ReadTime is one recorded domain read time
type ReadTime struct {
	TreeID   uuid.UUID
	URL      string
	ReadTime float64
	At       time.Time
}

// TreeStats records domain read times and tree lifetimes
type TreeStats struct {
	mu        sync.Mutex
	readTimes []ReadTime
	lifetimes map[uuid.UUID]float64
}

var _ ports.TreeStatsStore = (*TreeStats)(nil)

func NewTreeStats() *TreeStats {
	return &TreeStats{lifetimes: make(map[uuid.UUID]float64)}
}

func (s *TreeStats) UpdateReadTime(treeID uuid.UUID, url string, readTime float64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readTimes = append(s.readTimes, ReadTime{TreeID: treeID, URL: url, ReadTime: readTime, At: at})
}

func (s *TreeStats) UpdateLifetime(treeID uuid.UUID, lifetime float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lifetimes[treeID] = lifetime
}

// ReadTimes returns a copy of every recorded read time
func (s *TreeStats) ReadTimes() []ReadTime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ReadTime(nil), s.readTimes...)
}

// Lifetime returns the last lifetime reported for a tree
func (s *TreeStats) Lifetime(treeID uuid.UUID) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lifetimes[treeID]
	return l, ok
}
