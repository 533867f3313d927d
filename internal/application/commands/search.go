package commands

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"browsetree/internal/browsing"
	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

// LinkMatch is a link seen in a stored tree, with what a search can match
type LinkMatch struct {
	Link  domain.LinkID
	URL   string
	Title string
	Trees int
}

// SearchResult wraps a LinkMatch with a relevance score
type SearchResult struct {
	LinkMatch
	Score int
}

// SearchLinksCommand searches the links of every stored tree with fuzzy
// matching on URL and title
type SearchLinksCommand struct {
	repo   ports.TreeRepository
	links  ports.LinkStore
	logger *slog.Logger
	Query  string
}

// NewSearchLinksCommand creates a new SearchLinksCommand
func NewSearchLinksCommand(repo ports.TreeRepository, links ports.LinkStore, logger *slog.Logger, query string) *SearchLinksCommand {
	return &SearchLinksCommand{
		repo:   repo,
		links:  links,
		logger: logger,
		Query:  query,
	}
}

// Execute runs the search command and returns scored, sorted results.
// Links the link store does not know are left out.
func (c *SearchLinksCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if len(c.Query) < 2 || c.links == nil {
		return nil, nil
	}

	trees, err := loadAllTrees(ctx, c.repo, browsing.Env{Logger: c.logger}, c.logger)
	if err != nil {
		return nil, err
	}

	ranker := browsing.NewRanker()
	seen := make(map[domain.LinkID]int)
	for _, t := range trees {
		ranker.AddTree(t)
		for link := range t.Scores() {
			seen[link]++
		}
	}

	var candidates []LinkMatch
	for _, link := range ranker.Links() {
		l, err := c.links.LinkFor(link)
		if err != nil || l == nil {
			continue
		}
		candidates = append(candidates, LinkMatch{Link: link, URL: l.URL, Title: l.Title, Trees: seen[link]})
	}

	return FuzzySort(candidates, c.Query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Check for exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		// Bonus if it starts with query
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: check if chars appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && strings.ContainsRune(" ./-", rune(target[i-1])) {
				score += 10 // after separator
			}
			score += 1
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// FuzzySort sorts links by relevance to the query, dropping non-matches
func FuzzySort(links []LinkMatch, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(links))

	for _, l := range links {
		best := max(FuzzyScore(l.URL, query), FuzzyScore(l.Title, query))
		if best > 0 {
			scored = append(scored, SearchResult{
				LinkMatch: l,
				Score:     best,
			})
		}
	}

	// Sort by score descending, ties keep tree order
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
