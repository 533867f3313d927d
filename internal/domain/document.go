package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document decoding errors
var (
	ErrMissingRoot   = errors.New("tree document has no root")
	ErrMissingOrigin = errors.New("tree document has no origin")
	ErrInvalidLink   = errors.New("node link is neither an id nor a legacy number")
)

// NodeDocument is the nested persisted form of a node
type NodeDocument struct {
	Link             LinkID
	Legacy           bool
	ID               uuid.UUID
	IsLinkActivation bool
	Events           []ReadingEvent
	Children         []*NodeDocument
}

type nodeWire struct {
	Link             json.RawMessage `json:"link"`
	Legacy           bool            `json:"legacy"`
	ID               uuid.UUID       `json:"id"`
	IsLinkActivation bool            `json:"isLinkActivation"`
	Events           []ReadingEvent  `json:"events,omitempty"`
	Children         []*NodeDocument `json:"children,omitempty"`
}

// MarshalJSON omits empty events and children
func (n *NodeDocument) MarshalJSON() ([]byte, error) {
	link, err := json.Marshal(n.Link)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nodeWire{
		Link:             link,
		Legacy:           n.Legacy,
		ID:               n.ID,
		IsLinkActivation: n.IsLinkActivation,
		Events:           n.Events,
		Children:         n.Children,
	})
}

// UnmarshalJSON accepts legacy numeric links, marking the node legacy and
// giving it a fresh placeholder link.
func (n *NodeDocument) UnmarshalJSON(data []byte) error {
	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	link, legacy, err := decodeLink(w.Link)
	if err != nil {
		return err
	}

	*n = NodeDocument{
		Link:             link,
		Legacy:           w.Legacy || legacy,
		ID:               w.ID,
		IsLinkActivation: w.IsLinkActivation,
		Events:           w.Events,
		Children:         w.Children,
	}
	if n.Events == nil {
		n.Events = []ReadingEvent{}
	}
	if n.Children == nil {
		n.Children = []*NodeDocument{}
	}
	return nil
}

func decodeLink(raw json.RawMessage) (LinkID, bool, error) {
	if len(raw) == 0 {
		return uuid.Nil, false, ErrInvalidLink
	}

	var id uuid.UUID
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var num json.Number
	if err := dec.Decode(&num); err == nil && isIntegerLiteral(num.String()) {
		return uuid.New(), true, nil
	}
	return uuid.Nil, false, fmt.Errorf("%w: %s", ErrInvalidLink, string(raw))
}

// isIntegerLiteral reports whether s is a JSON integer of any magnitude.
// Legacy link ids were unsigned 64-bit values.
func isIntegerLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Walk visits the node and its descendants depth first, parents first
func (n *NodeDocument) Walk(fn func(node *NodeDocument, depth int)) {
	type frame struct {
		node  *NodeDocument
		depth int
	}
	stack := []frame{{n, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(f.node, f.depth)
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
}

// TreeDocument is the primary persisted form of a browsing tree
type TreeDocument struct {
	Root        *NodeDocument     `json:"root"`
	Scores      map[LinkID]*Score `json:"scores"`
	Origin      TreeOrigin        `json:"origin"`
	CurrentPath []int             `json:"currentPath"`
	IsPinned    bool              `json:"isPinned,omitempty"`
}

// UnmarshalJSON fails documents without a root or origin
func (d *TreeDocument) UnmarshalJSON(data []byte) error {
	type alias TreeDocument
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Root == nil {
		return ErrMissingRoot
	}
	if a.Origin.Kind == "" {
		return ErrMissingOrigin
	}
	if a.Scores == nil {
		a.Scores = map[LinkID]*Score{}
	}
	*d = TreeDocument(a)
	return nil
}

// ID is the tree's identifier, the id of its root node
func (d *TreeDocument) ID() uuid.UUID {
	if d.Root == nil {
		return uuid.Nil
	}
	return d.Root.ID
}

// NodeCount counts every node in the document
func (d *TreeDocument) NodeCount() int {
	if d.Root == nil {
		return 0
	}
	count := 0
	d.Root.Walk(func(*NodeDocument, int) { count++ })
	return count
}

// CreatedAt is the date of the root's first event
func (d *TreeDocument) CreatedAt() time.Time {
	if d.Root == nil || len(d.Root.Events) == 0 {
		return time.Time{}
	}
	return d.Root.Events[0].Date
}

// Summary describes a stored tree without its nodes
func (d *TreeDocument) Summary() TreeSummary {
	return TreeSummary{
		ID:        d.ID(),
		Kind:      d.Origin.Kind,
		Origin:    d.Origin.Anonymized(),
		NodeCount: d.NodeCount(),
		CreatedAt: d.CreatedAt(),
		IsPinned:  d.IsPinned,
	}
}

// TreeSummary is the listing entry of a stored tree
type TreeSummary struct {
	ID        uuid.UUID
	Kind      OriginKind
	Origin    TreeOrigin
	NodeCount int
	CreatedAt time.Time
	IsPinned  bool
}

// FlatNode is a node without its edges
type FlatNode struct {
	ID               uuid.UUID
	Link             LinkID
	Legacy           bool
	IsLinkActivation bool
	Events           []ReadingEvent
}

// MarshalJSON encodes the node like a childless NodeDocument
func (n FlatNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(&NodeDocument{
		Link:             n.Link,
		Legacy:           n.Legacy,
		ID:               n.ID,
		IsLinkActivation: n.IsLinkActivation,
		Events:           n.Events,
	})
}

// UnmarshalJSON shares the legacy link handling of NodeDocument
func (n *FlatNode) UnmarshalJSON(data []byte) error {
	var doc NodeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*n = FlatNode{
		ID:               doc.ID,
		Link:             doc.Link,
		Legacy:           doc.Legacy,
		IsLinkActivation: doc.IsLinkActivation,
		Events:           doc.Events,
	}
	return nil
}

// FlatTreeDocument is the index-based form of a tree: nodes in
// parent-before-children order and, for each, the index of its parent.
type FlatTreeDocument struct {
	Origin        TreeOrigin        `json:"origin"`
	Nodes         []FlatNode        `json:"nodes"`
	ParentIndices []*int            `json:"parentIndices"`
	CurrentIndex  int               `json:"currentIndex"`
	Scores        map[LinkID]*Score `json:"scores"`
	IsPinned      bool              `json:"isPinned,omitempty"`
}

// Validate checks the structural invariants of the flat form
func (d *FlatTreeDocument) Validate() error {
	if len(d.Nodes) == 0 {
		return ErrMissingRoot
	}
	if len(d.ParentIndices) != len(d.Nodes) {
		return fmt.Errorf("flat tree has %d nodes but %d parent indices", len(d.Nodes), len(d.ParentIndices))
	}
	if d.ParentIndices[0] != nil {
		return fmt.Errorf("flat tree root at index 0 has a parent")
	}
	for i := 1; i < len(d.ParentIndices); i++ {
		p := d.ParentIndices[i]
		if p == nil {
			return fmt.Errorf("flat tree node %d has no parent: only the root may", i)
		}
		if *p < 0 || *p >= i {
			return fmt.Errorf("flat tree node %d has parent index %d, want one in [0,%d)", i, *p, i)
		}
	}
	if d.CurrentIndex < 0 || d.CurrentIndex >= len(d.Nodes) {
		return fmt.Errorf("flat tree current index %d out of range", d.CurrentIndex)
	}
	if d.Origin.Kind == "" {
		return ErrMissingOrigin
	}
	return nil
}
