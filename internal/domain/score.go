package domain

import (
	"math"
	"time"
)

// RemovalHalfLife is the decay half-life of the clustering removal score
const RemovalHalfLife = 1800 * time.Second

// DefaultScoreTolerance is the float tolerance used by ApproxEqual callers
const DefaultScoreTolerance = 1e-6

// Score accumulates engagement signals for one link
type Score struct {
	ReadingTimeToLastEvent         float64       `json:"readingTimeToLastEvent"`
	TextSelections                 int           `json:"textSelections"`
	ScrollRatioX                   float64       `json:"scrollRatioX"`
	ScrollRatioY                   float64       `json:"scrollRatioY"`
	OpenIndex                      int           `json:"openIndex"`
	Outbounds                      int           `json:"outbounds"`
	TextAmount                     int           `json:"textAmount"`
	Area                           float64       `json:"area"`
	Inbounds                       int           `json:"inbounds"`
	VideoTotalDuration             float64       `json:"videoTotalDuration"`
	VideoReadingDuration           float64       `json:"videoReadingDuration"`
	LastEvent                      *ReadingEvent `json:"lastEvent,omitempty"`
	IsForeground                   bool          `json:"isForeground"`
	LastCreationDate               *time.Time    `json:"lastCreationDate,omitempty"`
	VisitCount                     int           `json:"visitCount"`
	NavigationCountSinceLastSearch *int          `json:"navigationCountSinceLastSearch,omitempty"`
}

// NewScore returns a zero score
func NewScore() *Score {
	return &Score{}
}

// ReadingTimeScore returns the accumulated reading time plus the time
// elapsed since the last event if the page is still in the foreground.
func (s *Score) ReadingTimeScore(asOf time.Time) float64 {
	if s.IsForeground && s.LastEvent != nil {
		return s.ReadingTimeToLastEvent + asOf.Sub(s.LastEvent.Date).Seconds()
	}
	return s.ReadingTimeToLastEvent
}

// DensityScore is the amount of text per unit of page area
func (s *Score) DensityScore() float64 {
	if s.Area > 0 {
		return float64(s.TextAmount) / s.Area
	}
	return 0
}

// Total combines every signal into a single ranking value
func (s *Score) Total(asOf time.Time) float64 {
	return s.ReadingTimeScore(asOf) +
		float64(s.TextSelections) +
		(s.ScrollRatioX+s.ScrollRatioY)/2 +
		float64(s.OpenIndex) +
		float64(s.Outbounds) +
		s.DensityScore()
}

// ClusteringScore ranks links to show first
func (s *Score) ClusteringScore(asOf time.Time) float64 {
	return math.Exp(1+s.ScrollRatioY) * float64(1+s.TextAmount) * (1 + s.ReadingTimeScore(asOf))
}

// ClusteringRemovalScore is the clustering score decayed by the age of the
// last creation. Links never created score 0.
func (s *Score) ClusteringRemovalScore(asOf time.Time) float64 {
	if s.LastCreationDate == nil {
		return 0
	}
	elapsed := asOf.Sub(*s.LastCreationDate).Seconds()
	return math.Exp(-elapsed*math.Ln2/RemovalHalfLife.Seconds()) * s.ClusteringScore(asOf)
}

// IsClosed reports whether the last recorded event closed the page
func (s *Score) IsClosed() bool {
	return s.LastEvent != nil && s.LastEvent.Type.IsClosing()
}

// Aggregate merges two scores. The merge is associative and commutative so
// partial scores from several trees can be folded in any order.
func (s *Score) Aggregate(other *Score) *Score {
	if other == nil {
		return s.Clone()
	}

	return &Score{
		ReadingTimeToLastEvent:         s.ReadingTimeToLastEvent + other.ReadingTimeToLastEvent,
		TextSelections:                 s.TextSelections + other.TextSelections,
		ScrollRatioX:                   math.Max(s.ScrollRatioX, other.ScrollRatioX),
		ScrollRatioY:                   math.Max(s.ScrollRatioY, other.ScrollRatioY),
		OpenIndex:                      max(s.OpenIndex, other.OpenIndex),
		Outbounds:                      s.Outbounds + other.Outbounds,
		TextAmount:                     max(s.TextAmount, other.TextAmount),
		Area:                           math.Max(s.Area, other.Area),
		Inbounds:                       s.Inbounds + other.Inbounds,
		VideoTotalDuration:             math.Max(s.VideoTotalDuration, other.VideoTotalDuration),
		VideoReadingDuration:           s.VideoReadingDuration + other.VideoReadingDuration,
		LastEvent:                      latestEvent(s.LastEvent, other.LastEvent),
		IsForeground:                   s.IsForeground || other.IsForeground,
		LastCreationDate:               latestTime(s.LastCreationDate, other.LastCreationDate),
		VisitCount:                     s.VisitCount + other.VisitCount,
		NavigationCountSinceLastSearch: minCount(s.NavigationCountSinceLastSearch, other.NavigationCountSinceLastSearch),
	}
}

// RecordNavigationCount keeps the smallest navigation count seen so far
func (s *Score) RecordNavigationCount(count int) {
	s.NavigationCountSinceLastSearch = minCount(s.NavigationCountSinceLastSearch, &count)
}

// Clone returns a deep copy
func (s *Score) Clone() *Score {
	c := *s
	if s.LastEvent != nil {
		ev := *s.LastEvent
		c.LastEvent = &ev
	}
	if s.LastCreationDate != nil {
		d := *s.LastCreationDate
		c.LastCreationDate = &d
	}
	if s.NavigationCountSinceLastSearch != nil {
		n := *s.NavigationCountSinceLastSearch
		c.NavigationCountSinceLastSearch = &n
	}
	return &c
}

// ApproxEqual compares two scores, tolerating float drift on the float
// fields and sub-millisecond drift on timestamps.
func (s *Score) ApproxEqual(other *Score, tolerance float64) bool {
	if s == nil || other == nil {
		return s == other
	}

	floats := [][2]float64{
		{s.ReadingTimeToLastEvent, other.ReadingTimeToLastEvent},
		{s.ScrollRatioX, other.ScrollRatioX},
		{s.ScrollRatioY, other.ScrollRatioY},
		{s.Area, other.Area},
		{s.VideoTotalDuration, other.VideoTotalDuration},
		{s.VideoReadingDuration, other.VideoReadingDuration},
	}
	for _, f := range floats {
		if math.Abs(f[0]-f[1]) > tolerance {
			return false
		}
	}

	if s.TextSelections != other.TextSelections ||
		s.OpenIndex != other.OpenIndex ||
		s.Outbounds != other.Outbounds ||
		s.TextAmount != other.TextAmount ||
		s.Inbounds != other.Inbounds ||
		s.IsForeground != other.IsForeground ||
		s.VisitCount != other.VisitCount {
		return false
	}

	if !equalCount(s.NavigationCountSinceLastSearch, other.NavigationCountSinceLastSearch) {
		return false
	}
	if !approxTime(s.LastCreationDate, other.LastCreationDate) {
		return false
	}

	switch {
	case s.LastEvent == nil && other.LastEvent == nil:
		return true
	case s.LastEvent == nil || other.LastEvent == nil:
		return false
	}
	return s.LastEvent.ID == other.LastEvent.ID &&
		s.LastEvent.Type == other.LastEvent.Type &&
		approxTime(&s.LastEvent.Date, &other.LastEvent.Date)
}

// DailyScore is the per-day durable accumulation of a link's score
type DailyScore struct {
	Link  LinkID
	Day   string // 2006-01-02
	Score Score
}

// DayKey formats the day a timestamp falls on, in its own location
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

func latestEvent(a, b *ReadingEvent) *ReadingEvent {
	var pick *ReadingEvent
	switch {
	case a == nil:
		pick = b
	case b == nil:
		pick = a
	case a.Date.After(b.Date):
		pick = a
	case b.Date.After(a.Date):
		pick = b
	case a.ID.String() >= b.ID.String():
		pick = a
	default:
		pick = b
	}
	if pick == nil {
		return nil
	}
	ev := *pick
	return &ev
}

func latestTime(a, b *time.Time) *time.Time {
	var pick *time.Time
	switch {
	case a == nil:
		pick = b
	case b == nil:
		pick = a
	case b.After(*a):
		pick = b
	default:
		pick = a
	}
	if pick == nil {
		return nil
	}
	t := *pick
	return &t
}

func minCount(a, b *int) *int {
	var pick *int
	switch {
	case a == nil:
		pick = b
	case b == nil:
		pick = a
	case *b < *a:
		pick = b
	default:
		pick = a
	}
	if pick == nil {
		return nil
	}
	n := *pick
	return &n
}

func equalCount(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func approxTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	d := a.Sub(*b)
	if d < 0 {
		d = -d
	}
	return d < time.Millisecond
}
