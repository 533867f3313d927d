package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"browsetree/internal/application"
	"browsetree/internal/browsing"
	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

// ShowTreeCommand loads one stored tree
type ShowTreeCommand struct {
	repo   ports.TreeRepository
	env    browsing.Env
	TreeID string
}

// NewShowTreeCommand creates a new ShowTreeCommand
func NewShowTreeCommand(repo ports.TreeRepository, env browsing.Env, treeID string) *ShowTreeCommand {
	return &ShowTreeCommand{repo: repo, env: env, TreeID: treeID}
}

// Execute runs the show tree command
func (c *ShowTreeCommand) Execute(ctx context.Context) (*browsing.Tree, error) {
	id, err := application.ValidateTreeID("treeID", c.TreeID)
	if err != nil {
		return nil, err
	}
	return loadTree(ctx, c.repo, c.env, id)
}

// FormatTree writes an indented outline of the tree, one node per line.
// The current node is marked with '*'. links may be nil, in which case
// nodes are labelled by link id.
func FormatTree(w io.Writer, tree *browsing.Tree, links ports.LinkStore) error {
	if _, err := fmt.Fprintf(w, "%s  %s  (%d nodes)\n", tree.ID(), tree.Origin(), tree.Len()); err != nil {
		return err
	}

	current := tree.Current()
	for _, n := range tree.Nodes() {
		marker := " "
		if n == current {
			marker = "*"
		}
		indent := strings.Repeat("  ", n.Depth())

		label := "(root)"
		if !n.IsRoot() {
			label = NodeLabel(n.Link(), links)
		}
		if n.Legacy() {
			label += " (legacy)"
		}

		line := fmt.Sprintf("%s%s %s", indent, marker, label)
		if rt := n.ReadingTime(); rt > 0 {
			line += "  " + FormatSeconds(rt)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// NodeLabel resolves a link to its URL, falling back to the id
func NodeLabel(link domain.LinkID, links ports.LinkStore) string {
	if links != nil {
		if l, err := links.LinkFor(link); err == nil && l != nil {
			return l.URL
		}
	}
	return link.String()
}

// FormatSeconds renders a duration in seconds the way the outline shows it
func FormatSeconds(seconds float64) string {
	return (time.Duration(seconds * float64(time.Second))).Round(time.Second).String()
}
