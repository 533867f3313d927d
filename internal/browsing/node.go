package browsing

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"browsetree/internal/domain"
)

// NodeIndex addresses a node inside its tree's arena
type NodeIndex int

// NoNode is the parent index of the root
const NoNode NodeIndex = -1

const rootIndex NodeIndex = 0

// Node is one page visit inside a browsing tree. Nodes are owned by their
// tree and are only created through it.
type Node struct {
	tree             *Tree
	index            NodeIndex
	parent           NodeIndex
	children         []NodeIndex
	id               uuid.UUID
	link             domain.LinkID
	legacy           bool
	isLinkActivation bool
	events           []domain.ReadingEvent

	isForeground    bool
	foregroundStart *time.Time
	readingTime     float64
}

// Segment is a half-open foreground interval
type Segment struct {
	Start time.Time
	End   time.Time
}

// Duration of the segment in seconds
func (s Segment) Duration() float64 {
	return s.End.Sub(s.Start).Seconds()
}

func (n *Node) ID() uuid.UUID { return n.id }
func (n *Node) Link() domain.LinkID { return n.link }
func (n *Node) Legacy() bool { return n.legacy }
func (n *Node) IsLinkActivation() bool { return n.isLinkActivation }
func (n *Node) Index() NodeIndex { return n.index }
func (n *Node) IsForeground() bool { return n.isForeground }
func (n *Node) ReadingTime() float64 { return n.readingTime }
func (n *Node) ChildCount() int { return len(n.children) }
func (n *Node) IsRoot() bool { return n.parent == NoNode }
func (n *Node) Events() []domain.ReadingEvent { return slices.Clone(n.events) }

// LastEvent returns the most recent event, or nil for a node without events
func (n *Node) LastEvent() *domain.ReadingEvent {
	if len(n.events) == 0 {
		return nil
	}
	ev := n.events[len(n.events)-1]
	return &ev
}

// Parent returns the parent node, nil for the root or a detached node
func (n *Node) Parent() *Node {
	if n.tree == nil || n.parent == NoNode {
		return nil
	}
	return n.tree.nodes[n.parent]
}

// Children returns the child nodes in creation order
func (n *Node) Children() []*Node {
	if n.tree == nil {
		return nil
	}
	out := make([]*Node, len(n.children))
	for i, c := range n.children {
		out[i] = n.tree.nodes[c]
	}
	return out
}

// Depth is the number of edges between the node and the root
func (n *Node) Depth() int {
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		depth++
	}
	return depth
}

// VisitType classifies how the page of this node was reached
func (n *Node) VisitType() domain.VisitType {
	if n.parent == NoNode {
		return domain.VisitWebRoot
	}
	if n.parent == rootIndex && n.tree != nil {
		switch n.tree.origin.Kind {
		case domain.OriginBrowsingNode, domain.OriginPinnedTab:
			return domain.VisitWebLinkActivation
		case domain.OriginSearchFromNode, domain.OriginLinkFromNote:
			return domain.VisitWebFromNote
		case domain.OriginSearchBar, domain.OriginHistoryImport:
			return domain.VisitWebSearchBar
		}
	}
	if n.isLinkActivation {
		return domain.VisitWebLinkActivation
	}
	return domain.VisitWebSearchBar
}

// ForegroundSegments pairs each foreground-entering event with the next
// foreground-exiting one. A trailing open segment is not reported.
func (n *Node) ForegroundSegments() []Segment {
	var segments []Segment
	var start *time.Time
	for i := range n.events {
		ev := n.events[i]
		switch {
		case ev.Type.IsForegroundEntering():
			if start == nil {
				start = &n.events[i].Date
			}
		case ev.Type.IsForegroundExiting():
			if start != nil {
				segments = append(segments, Segment{Start: *start, End: ev.Date})
				start = nil
			}
		}
	}
	return segments
}

// AddEvent appends a reading event at the given time and updates the
// node's foreground state, its tree's score for the link and the
// frecency and tree stats stores. Root nodes record the event only.
func (n *Node) AddEvent(typ domain.ReadingEventType, at time.Time) {
	t := n.tree
	if t == nil {
		return
	}
	log := t.env.Logger
	tracked := n.link != domain.MissingLinkID

	var prev *domain.ReadingEvent
	if len(n.events) > 0 {
		prev = &n.events[len(n.events)-1]
	}

	increment := 0.0
	if prev != nil {
		elapsed := at.Sub(prev.Date).Seconds()
		switch {
		case elapsed < 0:
			log.Warn("reading event precedes previous event",
				"node", n.id, "event", typ, "previous", prev.Type, "regression_seconds", -elapsed)
			timestampAnomalies.Inc()
		case n.isForeground:
			increment = elapsed
		}
	}
	n.readingTime += increment
	if tracked && increment > 0 {
		t.ScoreApply(n.link, at, func(s *domain.Score) {
			s.ReadingTimeToLastEvent += increment
		})
	}

	pageLoadID := uuid.New()
	if prev != nil && !prev.Type.IsClosing() {
		pageLoadID = prev.PageLoadID
	}

	event := domain.ReadingEvent{
		ID:           uuid.New(),
		Type:         typ,
		Date:         at,
		WebSessionID: t.env.Sessions.SessionID(),
		PageLoadID:   pageLoadID,
	}
	n.events = append(n.events, event)
	readingEvents.WithLabelValues(string(typ)).Inc()

	if typ.IsForegroundEntering() {
		n.isForeground = true
		if n.foregroundStart == nil {
			start := at
			n.foregroundStart = &start
		}
	}
	if typ.IsForegroundExiting() {
		n.isForeground = false
		if n.foregroundStart != nil {
			duration := at.Sub(*n.foregroundStart).Seconds()
			if duration < 0 {
				log.Warn("foreground segment ends before it starts", "node", n.id, "event", typ, "duration_seconds", duration)
				timestampAnomalies.Inc()
			} else if tracked {
				n.reportReadingTime(duration, at)
			}
			n.foregroundStart = nil
		}
	}

	if tracked {
		score := t.ScoreFor(n.link)
		last := event
		score.LastEvent = &last
		score.IsForeground = n.isForeground
	}
}

// reportReadingTime feeds a finished foreground segment to frecency and,
// for domain root pages, to the tree stats.
func (n *Node) reportReadingTime(duration float64, at time.Time) {
	t := n.tree
	t.updateFrecency(n.link, duration, n.VisitType(), at, domain.FrecencyWebReadingTime30d0)

	if t.env.TreeStats == nil {
		return
	}
	isDomain, err := t.env.Links.IsDomain(n.link)
	if err != nil {
		t.env.Logger.Warn("failed to check domain link", "link", n.link, "error", err)
		return
	}
	if !isDomain {
		return
	}
	link, err := t.env.Links.LinkFor(n.link)
	if err != nil || link == nil {
		t.env.Logger.Warn("failed to resolve domain link", "link", n.link, "error", err)
		return
	}
	t.env.TreeStats.UpdateReadTime(t.ID(), link.URL, duration, at)
}

// created records the creation of a freshly added node
func (n *Node) created(at time.Time) {
	t := n.tree
	n.AddEvent(domain.EventCreation, at)
	if n.link == domain.MissingLinkID {
		return
	}

	t.ScoreApply(n.link, at, func(s *domain.Score) {
		s.VisitCount++
		created := at
		s.LastCreationDate = &created
	})
	t.updateFrecency(n.link, 1, n.VisitType(), at, domain.FrecencyWebVisit30d0)
}

// replayState rebuilds the derived foreground state from the stored events
func (n *Node) replayState() {
	n.isForeground = false
	n.foregroundStart = nil
	n.readingTime = 0

	for i, ev := range n.events {
		if i > 0 && n.isForeground {
			if elapsed := ev.Date.Sub(n.events[i-1].Date).Seconds(); elapsed > 0 {
				n.readingTime += elapsed
			}
		}
		if ev.Type.IsForegroundEntering() {
			n.isForeground = true
			if n.foregroundStart == nil {
				start := ev.Date
				n.foregroundStart = &start
			}
		}
		if ev.Type.IsForegroundExiting() {
			n.isForeground = false
			n.foregroundStart = nil
		}
	}
}

func (n *Node) document() *domain.NodeDocument {
	return &domain.NodeDocument{
		Link:             n.link,
		Legacy:           n.legacy,
		ID:               n.id,
		IsLinkActivation: n.isLinkActivation,
		Events:           slices.Clone(n.events),
	}
}

func (n *Node) flat() domain.FlatNode {
	return domain.FlatNode{
		ID:               n.id,
		Link:             n.link,
		Legacy:           n.legacy,
		IsLinkActivation: n.isLinkActivation,
		Events:           slices.Clone(n.events),
	}
}
