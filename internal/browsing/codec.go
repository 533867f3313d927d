package browsing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"browsetree/internal/domain"
)

// ErrInvalidPath is returned when a stored current path does not lead to a
// node of the decoded tree.
var ErrInvalidPath = errors.New("current path does not address a node")

// Document encodes the tree in its nested persisted form
func (t *Tree) Document() *domain.TreeDocument {
	docs := make([]*domain.NodeDocument, len(t.nodes))
	for i, n := range t.nodes {
		docs[i] = n.document()
	}
	for i, n := range t.nodes {
		children := make([]*domain.NodeDocument, len(n.children))
		for j, c := range n.children {
			children[j] = docs[c]
		}
		docs[i].Children = children
	}

	return &domain.TreeDocument{
		Root:        docs[rootIndex],
		Scores:      cloneScores(t.scores),
		Origin:      t.origin,
		CurrentPath: t.CurrentPath(),
		IsPinned:    t.isPinned,
	}
}

// FromDocument rebuilds a tree from its nested form. No events are
// recorded and no collaborator is notified; foreground state is derived
// from the stored events.
func FromDocument(doc *domain.TreeDocument, env Env) (*Tree, error) {
	tree, err := fromDocument(doc, env)
	if err != nil {
		documentDecodes.WithLabelValues("nested", "error").Inc()
		return nil, err
	}
	documentDecodes.WithLabelValues("nested", "ok").Inc()
	return tree, nil
}

func fromDocument(doc *domain.TreeDocument, env Env) (*Tree, error) {
	if doc == nil || doc.Root == nil {
		return nil, domain.ErrMissingRoot
	}
	if err := doc.Origin.Validate(); err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}

	t := newTree(doc.Origin, env)
	t.isPinned = doc.IsPinned
	t.scores = cloneScores(doc.Scores)

	type frame struct {
		doc    *domain.NodeDocument
		parent NodeIndex
	}
	stack := []frame{{doc.Root, NoNode}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.doc == nil {
			return nil, fmt.Errorf("nil node under parent %d", f.parent)
		}

		n := t.attach(f.parent, decodedNode(f.doc.ID, f.doc.Link, f.doc.Legacy, f.doc.IsLinkActivation, f.doc.Events))
		for i := len(f.doc.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.doc.Children[i], n.index})
		}
	}

	current := rootIndex
	for depth, i := range doc.CurrentPath {
		children := t.nodes[current].children
		if i < 0 || i >= len(children) {
			return nil, fmt.Errorf("%w: index %d at depth %d, node has %d children", ErrInvalidPath, i, depth, len(children))
		}
		current = children[i]
	}
	t.current = current
	return t, nil
}

// Flatten encodes the tree in its index-based form, nodes depth first
func (t *Tree) Flatten() *domain.FlatTreeDocument {
	order := t.Nodes()
	position := make(map[NodeIndex]int, len(order))
	for i, n := range order {
		position[n.index] = i
	}

	flat := &domain.FlatTreeDocument{
		Origin:        t.origin,
		Nodes:         make([]domain.FlatNode, len(order)),
		ParentIndices: make([]*int, len(order)),
		CurrentIndex:  position[t.current],
		Scores:        cloneScores(t.scores),
		IsPinned:      t.isPinned,
	}
	for i, n := range order {
		flat.Nodes[i] = n.flat()
		if n.parent != NoNode {
			p := position[n.parent]
			flat.ParentIndices[i] = &p
		}
	}
	return flat
}

// Unflatten rebuilds a tree from its index-based form
func Unflatten(doc *domain.FlatTreeDocument, env Env) (*Tree, error) {
	if doc == nil {
		documentDecodes.WithLabelValues("flat", "error").Inc()
		return nil, domain.ErrMissingRoot
	}
	if err := doc.Validate(); err != nil {
		documentDecodes.WithLabelValues("flat", "error").Inc()
		return nil, err
	}
	if err := doc.Origin.Validate(); err != nil {
		documentDecodes.WithLabelValues("flat", "error").Inc()
		return nil, fmt.Errorf("origin: %w", err)
	}

	t := newTree(doc.Origin, env)
	t.isPinned = doc.IsPinned
	t.scores = cloneScores(doc.Scores)

	for i, fn := range doc.Nodes {
		parent := NoNode
		if p := doc.ParentIndices[i]; p != nil {
			parent = NodeIndex(*p)
		}
		t.attach(parent, decodedNode(fn.ID, fn.Link, fn.Legacy, fn.IsLinkActivation, fn.Events))
	}
	t.current = NodeIndex(doc.CurrentIndex)

	documentDecodes.WithLabelValues("flat", "ok").Inc()
	return t, nil
}

func decodedNode(id uuid.UUID, link domain.LinkID, legacy, isLinkActivation bool, events []domain.ReadingEvent) *Node {
	n := &Node{
		id:               id,
		link:             link,
		legacy:           legacy,
		isLinkActivation: isLinkActivation,
		events:           append([]domain.ReadingEvent(nil), events...),
	}
	n.replayState()
	return n
}
