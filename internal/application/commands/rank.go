package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"browsetree/internal/application"
	"browsetree/internal/browsing"
	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

// RankMode selects the ordering of RankLinksCommand
type RankMode string

const (
	// ModeShow orders links by descending clustering score
	ModeShow RankMode = "show"
	// ModeEvict orders links by eviction priority
	ModeEvict RankMode = "evict"
)

// ParseRankMode parses a mode name
func ParseRankMode(s string) (RankMode, error) {
	switch RankMode(s) {
	case ModeShow, "":
		return ModeShow, nil
	case ModeEvict:
		return ModeEvict, nil
	}
	return "", &application.ValidationError{Field: "mode", Message: fmt.Sprintf("expected show or evict, got: %s", s)}
}

// RankedLink is one entry of a ranking
type RankedLink struct {
	Link        domain.LinkID
	URL         string
	Title       string
	Value       float64
	Closed      bool
	VisitCount  int
	ReadingTime float64
}

// RankLinksCommand ranks every scored link across all stored trees
type RankLinksCommand struct {
	repo   ports.TreeRepository
	links  ports.LinkStore
	logger *slog.Logger
	Mode   RankMode
	Limit  int
	AsOf   time.Time
}

// NewRankLinksCommand creates a new RankLinksCommand. A limit of zero
// returns every link.
func NewRankLinksCommand(repo ports.TreeRepository, links ports.LinkStore, logger *slog.Logger, mode RankMode, limit int, asOf time.Time) *RankLinksCommand {
	return &RankLinksCommand{
		repo:   repo,
		links:  links,
		logger: logger,
		Mode:   mode,
		Limit:  limit,
		AsOf:   asOf,
	}
}

// Execute runs the rank links command
func (c *RankLinksCommand) Execute(ctx context.Context) ([]RankedLink, error) {
	if c.Limit < 0 {
		return nil, &application.ValidationError{Field: "limit", Message: "limit must not be negative"}
	}

	trees, err := loadAllTrees(ctx, c.repo, browsing.Env{Logger: c.logger}, c.logger)
	if err != nil {
		return nil, err
	}

	ranker := browsing.NewRanker()
	for _, t := range trees {
		ranker.AddTree(t)
	}

	var ordered []domain.LinkID
	switch c.Mode {
	case ModeEvict:
		ordered = ranker.ClusteringRemovalSorted(ranker.Links(), c.AsOf)
	default:
		ordered = ranker.ClusteringSorted(ranker.Links(), c.AsOf)
	}
	if c.Limit > 0 && len(ordered) > c.Limit {
		ordered = ordered[:c.Limit]
	}

	ranked := make([]RankedLink, 0, len(ordered))
	for _, link := range ordered {
		s := ranker.ScoreFor(link)
		r := RankedLink{
			Link:        link,
			Closed:      s.IsClosed(),
			VisitCount:  s.VisitCount,
			ReadingTime: s.ReadingTimeScore(c.AsOf),
		}
		if c.Mode == ModeEvict {
			r.Value = s.ClusteringRemovalScore(c.AsOf)
		} else {
			r.Value = s.ClusteringScore(c.AsOf)
		}
		if c.links != nil {
			if l, err := c.links.LinkFor(link); err == nil && l != nil {
				r.URL, r.Title = l.URL, l.Title
			}
		}
		ranked = append(ranked, r)
	}
	return ranked, nil
}

// LinkScore is the aggregated score of one link
type LinkScore struct {
	Link       domain.LinkID
	URL        string
	Score      *domain.Score
	Trees      int
	Clustering float64
	Removal    float64
}

// LinkScoreCommand folds the scores of one URL across all stored trees
type LinkScoreCommand struct {
	repo   ports.TreeRepository
	logger *slog.Logger
	URL    string
	AsOf   time.Time
}

// NewLinkScoreCommand creates a new LinkScoreCommand
func NewLinkScoreCommand(repo ports.TreeRepository, logger *slog.Logger, url string, asOf time.Time) *LinkScoreCommand {
	return &LinkScoreCommand{repo: repo, logger: logger, URL: url, AsOf: asOf}
}

// Execute runs the link score command
func (c *LinkScoreCommand) Execute(ctx context.Context) (*LinkScore, error) {
	if err := application.ValidateURL("url", c.URL); err != nil {
		return nil, err
	}

	trees, err := loadAllTrees(ctx, c.repo, browsing.Env{Logger: c.logger}, c.logger)
	if err != nil {
		return nil, err
	}

	link := domain.LinkIDFor(c.URL)
	ranker := browsing.NewRanker()
	count := 0
	for _, t := range trees {
		if _, ok := t.Scores()[link]; ok {
			ranker.AddTree(t)
			count++
		}
	}

	score := ranker.ScoreFor(link)
	if score == nil {
		return nil, fmt.Errorf("%w: no score for %s", application.ErrNotFound, c.URL)
	}
	return &LinkScore{
		Link:       link,
		URL:        c.URL,
		Score:      score,
		Trees:      count,
		Clustering: score.ClusteringScore(c.AsOf),
		Removal:    score.ClusteringRemovalScore(c.AsOf),
	}, nil
}
