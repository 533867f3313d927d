package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"browsetree/internal/application"
	"browsetree/internal/browsing"
	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

// loadConcurrency bounds how many trees are read from the repository at once
const loadConcurrency = 8

// ListTreesCommand lists every stored tree, newest first
type ListTreesCommand struct {
	repo ports.TreeRepository
}

// NewListTreesCommand creates a new ListTreesCommand
func NewListTreesCommand(repo ports.TreeRepository) *ListTreesCommand {
	return &ListTreesCommand{repo: repo}
}

// Execute runs the list trees command
func (c *ListTreesCommand) Execute(ctx context.Context) ([]domain.TreeSummary, error) {
	return c.repo.List(ctx)
}

// DeleteTreeCommand removes a stored tree
type DeleteTreeCommand struct {
	repo   ports.TreeRepository
	TreeID string
}

// NewDeleteTreeCommand creates a new DeleteTreeCommand
func NewDeleteTreeCommand(repo ports.TreeRepository, treeID string) *DeleteTreeCommand {
	return &DeleteTreeCommand{repo: repo, TreeID: treeID}
}

// Execute runs the delete tree command
func (c *DeleteTreeCommand) Execute(ctx context.Context) error {
	id, err := application.ValidateTreeID("treeID", c.TreeID)
	if err != nil {
		return err
	}
	if err := c.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

// loadTree reads and decodes one stored tree
func loadTree(ctx context.Context, repo ports.TreeRepository, env browsing.Env, id uuid.UUID) (*browsing.Tree, error) {
	doc, err := repo.Load(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	tree, err := browsing.FromDocument(doc, env)
	if err != nil {
		return nil, &application.DocumentError{ID: id.String(), Reason: err.Error(), Err: err}
	}
	return tree, nil
}

// loadAllTrees decodes every stored tree concurrently, in listing order.
// Trees that fail to decode are logged and left out.
func loadAllTrees(ctx context.Context, repo ports.TreeRepository, env browsing.Env, logger *slog.Logger) ([]*browsing.Tree, error) {
	summaries, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	loaded := make([]*browsing.Tree, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, s := range summaries {
		g.Go(func() error {
			tree, err := loadTree(gctx, repo, env, s.ID)
			if errors.Is(err, application.ErrInvalidDocument) {
				logger.Warn("skipping undecodable tree", "tree", s.ID, "error", err)
				return nil
			}
			if err != nil {
				return err
			}
			loaded[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trees := make([]*browsing.Tree, 0, len(loaded))
	for _, t := range loaded {
		if t != nil {
			trees = append(trees, t)
		}
	}
	return trees, nil
}

func notFound(err error) error {
	if errors.Is(err, ports.ErrTreeNotFound) {
		return fmt.Errorf("%w: %w", application.ErrNotFound, err)
	}
	return err
}
