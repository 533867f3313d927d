package browsing

import (
	"cmp"
	"slices"
	"time"

	"browsetree/internal/domain"
)

// ScoreSource is anything holding per-link scores, typically a Tree
type ScoreSource interface {
	Scores() map[domain.LinkID]*domain.Score
}

// Ranker aggregates link scores across trees and orders links for
// display or eviction. Sources are read live on every call.
type Ranker struct {
	sources []ScoreSource
}

// NewRanker creates a ranker over the given sources
func NewRanker(sources ...ScoreSource) *Ranker {
	return &Ranker{sources: sources}
}

// AddTree registers another score source
func (r *Ranker) AddTree(src ScoreSource) {
	r.sources = append(r.sources, src)
}

// Len returns the number of registered sources
func (r *Ranker) Len() int {
	return len(r.sources)
}

// ScoreFor folds the scores of link across every source, or returns nil
// when no source has scored it.
func (r *Ranker) ScoreFor(link domain.LinkID) *domain.Score {
	var agg *domain.Score
	for _, src := range r.sources {
		s, ok := src.Scores()[link]
		if !ok || s == nil {
			continue
		}
		if agg == nil {
			agg = s.Clone()
			continue
		}
		agg = agg.Aggregate(s)
	}
	return agg
}

// Links returns every scored link once, sources in registration order and
// links within a source in id order.
func (r *Ranker) Links() []domain.LinkID {
	seen := make(map[domain.LinkID]struct{})
	var out []domain.LinkID
	for _, src := range r.sources {
		scores := src.Scores()
		keys := make([]domain.LinkID, 0, len(scores))
		for link := range scores {
			if _, dup := seen[link]; !dup {
				keys = append(keys, link)
				seen[link] = struct{}{}
			}
		}
		slices.SortFunc(keys, func(a, b domain.LinkID) int {
			return cmp.Compare(a.String(), b.String())
		})
		out = append(out, keys...)
	}
	return out
}

type rankedLink struct {
	link   domain.LinkID
	value  float64
	closed bool
}

// collect scores links in input order, dropping those no source knows
func (r *Ranker) collect(links []domain.LinkID, value func(*domain.Score) float64) []rankedLink {
	var ranked []rankedLink
	for _, link := range links {
		s := r.ScoreFor(link)
		if s == nil {
			continue
		}
		ranked = append(ranked, rankedLink{link: link, value: value(s), closed: s.IsClosed()})
	}
	return ranked
}

// ClusteringSorted orders links by descending clustering score. Links no
// source has scored are dropped. Ties keep their input order.
func (r *Ranker) ClusteringSorted(links []domain.LinkID, asOf time.Time) []domain.LinkID {
	scored := r.collect(links, func(s *domain.Score) float64 { return s.ClusteringScore(asOf) })
	slices.SortStableFunc(scored, func(a, b rankedLink) int {
		return cmp.Compare(b.value, a.value)
	})
	return linkIDs(scored)
}

// ClusteringRemovalSorted orders links by eviction priority: closed pages
// before open ones, then ascending removal score. Unscored links are
// dropped and ties keep their input order.
func (r *Ranker) ClusteringRemovalSorted(links []domain.LinkID, asOf time.Time) []domain.LinkID {
	scored := r.collect(links, func(s *domain.Score) float64 { return s.ClusteringRemovalScore(asOf) })
	slices.SortStableFunc(scored, func(a, b rankedLink) int {
		if a.closed != b.closed {
			if a.closed {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.value, b.value)
	})
	return linkIDs(scored)
}

func linkIDs(ranked []rankedLink) []domain.LinkID {
	out := make([]domain.LinkID, len(ranked))
	for i, r := range ranked {
		out[i] = r.link
	}
	return out
}
