package ports

import (
	"time"

	"github.com/google/uuid"

	"browsetree/internal/domain"
)

// FrecencyScorer accumulates frecency series per link.
// Updates are fire-and-forget: implementations log their own failures.
type FrecencyScorer interface {
	Update(id domain.LinkID, value float64, visit domain.VisitType, at time.Time, key domain.FrecencyParamKey)
}

// DailyScoreStore durably accumulates scores per link and day
type DailyScoreStore interface {
	Apply(link domain.LinkID, at time.Time, mutate func(*domain.Score))
}

// TreeStatsStore records read time on domain root pages (path "/") per
// tree and the lifetime of each tree.
type TreeStatsStore interface {
	UpdateReadTime(treeID uuid.UUID, url string, readTime float64, at time.Time)
	UpdateLifetime(treeID uuid.UUID, lifetime float64)
}

// Clock provides the current time
type Clock interface {
	Now() time.Time
}
