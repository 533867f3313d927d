package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"browsetree/internal/application"
	"browsetree/internal/browsing"
	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

// HistoryEntry is one page of an imported browser history
type HistoryEntry struct {
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	VisitedAt time.Time `json:"visitedAt"`
}

// ImportResult contains the result of a history import
type ImportResult struct {
	TreeID   uuid.UUID
	Imported int
	Skipped  int
	Message  string
}

// ImportHistoryCommand turns a browser history into a historyImport tree.
// Every entry becomes a child of the root, in visit order.
type ImportHistoryCommand struct {
	repo    ports.TreeRepository
	env     browsing.Env
	Source  string
	Entries []HistoryEntry
}

// NewImportHistoryCommand creates a new ImportHistoryCommand
func NewImportHistoryCommand(repo ports.TreeRepository, env browsing.Env, source string, entries []HistoryEntry) *ImportHistoryCommand {
	return &ImportHistoryCommand{
		repo:    repo,
		env:     env,
		Source:  source,
		Entries: entries,
	}
}

// Validate checks the source browser and that there is something to import
func (c *ImportHistoryCommand) Validate() error {
	if _, err := domain.ParseSourceBrowser(c.Source); err != nil {
		return &application.ValidationError{Field: "source", Message: err.Error()}
	}
	if len(c.Entries) == 0 {
		return &application.ValidationError{Field: "entries", Message: "nothing to import"}
	}
	return nil
}

// Execute runs the import history command. Entries with invalid URLs are
// skipped.
func (c *ImportHistoryCommand) Execute(ctx context.Context) (*ImportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	source, _ := domain.ParseSourceBrowser(c.Source)

	entries := append([]HistoryEntry(nil), c.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].VisitedAt.Before(entries[j].VisitedAt)
	})

	tree := browsing.NewTree(domain.HistoryImportOrigin(source), c.env)
	result := &ImportResult{TreeID: tree.ID()}
	for _, e := range entries {
		if err := application.ValidateURL("url", e.URL); err != nil {
			result.Skipped++
			continue
		}
		if _, ok := tree.AddChildToCurrent(e.URL, e.Title, e.VisitedAt); ok {
			result.Imported++
		}
	}

	if err := c.repo.Save(ctx, tree.Document()); err != nil {
		return nil, fmt.Errorf("save imported tree: %w", err)
	}
	result.Message = fmt.Sprintf("Imported %d pages from %s (%d skipped)", result.Imported, source, result.Skipped)
	return result, nil
}
