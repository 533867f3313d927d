package browsing

import (
	"time"

	"github.com/google/uuid"

	"browsetree/internal/domain"
)

// Tree is the navigation history of one tab. Nodes live in an arena
// addressed by NodeIndex; the root is always at index 0 and points at
// the missing link.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	env      Env
	origin   domain.TreeOrigin
	nodes    []*Node
	current  NodeIndex
	scores   map[domain.LinkID]*domain.Score
	isPinned bool

	navigationCount int
}

// NewTree creates a tree holding only its root, which receives a creation
// event stamped with the env's clock.
func NewTree(origin domain.TreeOrigin, env Env) *Tree {
	t := newTree(origin, env)
	t.addNode(NoNode, domain.MissingLinkID, false, t.env.Clock.Now())
	t.current = rootIndex
	return t
}

func newTree(origin domain.TreeOrigin, env Env) *Tree {
	return &Tree{
		env:     env.normalized(),
		origin:  origin,
		current: rootIndex,
		scores:  make(map[domain.LinkID]*domain.Score),
	}
}

func (t *Tree) addNode(parent NodeIndex, link domain.LinkID, isLinkActivation bool, at time.Time) *Node {
	n := t.attach(parent, &Node{
		id:               uuid.New(),
		link:             link,
		isLinkActivation: isLinkActivation,
	})
	n.created(at)
	return n
}

// attach places a node in the arena under parent without recording events
func (t *Tree) attach(parent NodeIndex, n *Node) *Node {
	n.tree = t
	n.index = NodeIndex(len(t.nodes))
	n.parent = parent
	t.nodes = append(t.nodes, n)
	if parent != NoNode {
		p := t.nodes[parent]
		p.children = append(p.children, n.index)
	}
	return n
}

// ID is the identifier of the tree, the id of its root node
func (t *Tree) ID() uuid.UUID { return t.Root().id }

func (t *Tree) Root() *Node { return t.nodes[rootIndex] }
func (t *Tree) Current() *Node { return t.nodes[t.current] }
func (t *Tree) Origin() domain.TreeOrigin { return t.origin }
func (t *Tree) IsPinned() bool { return t.isPinned }
func (t *Tree) Len() int { return len(t.nodes) }

// NavigationCountSinceLastSearch counts link activations since the last
// search bar navigation.
func (t *Tree) NavigationCountSinceLastSearch() int { return t.navigationCount }

// Node returns the node at index i, or nil if out of range
func (t *Tree) Node(i NodeIndex) *Node {
	if i < 0 || int(i) >= len(t.nodes) {
		return nil
	}
	return t.nodes[i]
}

// NodeByID finds a node by its id
func (t *Tree) NodeByID(id uuid.UUID) *Node {
	for _, n := range t.nodes {
		if n.id == id {
			return n
		}
	}
	return nil
}

// Nodes returns the nodes depth first, parents before children, siblings
// in creation order.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, 0, len(t.nodes))
	stack := []NodeIndex{rootIndex}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[i]
		out = append(out, n)
		for c := len(n.children) - 1; c >= 0; c-- {
			stack = append(stack, n.children[c])
		}
	}
	return out
}

// Scores returns the live per-link scores of the tree. Callers must not
// modify the map.
func (t *Tree) Scores() map[domain.LinkID]*domain.Score {
	return t.scores
}

// ScoreFor returns the score of link, creating a zero score on first use
func (t *Tree) ScoreFor(link domain.LinkID) *domain.Score {
	s, ok := t.scores[link]
	if !ok {
		s = domain.NewScore()
		t.scores[link] = s
	}
	return s
}

// ScoreApply mutates the in-memory score of link and forwards the same
// mutation to the daily score store for the day of at.
func (t *Tree) ScoreApply(link domain.LinkID, at time.Time, mutate func(*domain.Score)) {
	mutate(t.ScoreFor(link))
	if t.env.DailyScores != nil {
		t.env.DailyScores.Apply(link, at, mutate)
	}
}

func (t *Tree) updateFrecency(link domain.LinkID, value float64, visit domain.VisitType, at time.Time, key domain.FrecencyParamKey) {
	if t.env.Frecency == nil {
		return
	}
	t.env.Frecency.Update(link, value, visit, at, key)

	isDomain, err := t.env.Links.IsDomain(link)
	if err != nil {
		t.env.Logger.Warn("failed to check domain link", "link", link, "error", err)
		return
	}
	if isDomain {
		return
	}
	domainID, ok, err := t.env.Links.DomainID(link)
	if err != nil {
		t.env.Logger.Warn("failed to resolve link domain", "link", link, "error", err)
		return
	}
	if ok {
		t.env.Frecency.Update(domainID, value, visit, at, key)
	}
}

// resolve looks up the id of url, falling back to the derived id when the
// store fails.
func (t *Tree) resolve(url string) domain.LinkID {
	id, err := t.env.Links.GetOrCreateID(url)
	if err != nil {
		t.env.Logger.Warn("failed to resolve link", "url", url, "error", err)
		return domain.LinkIDFor(url)
	}
	return id
}

func (t *Tree) visit(url, title string, at time.Time) domain.LinkID {
	link, err := t.env.Links.Visit(url, title, at)
	if err != nil {
		t.env.Logger.Warn("failed to record link visit", "url", url, "error", err)
		return t.resolve(url)
	}
	return link.ID
}

// NavigateTo moves to a new child of the current node for url. Navigating
// to the link of the current node is a no-op returning the current node.
// isLinkActivation distinguishes a followed link from a typed search.
func (t *Tree) NavigateTo(url, title string, startReading, isLinkActivation bool) *Node {
	now := t.env.Clock.Now()
	current := t.Current()
	if t.resolve(url) == current.link {
		return current
	}

	link := t.visit(url, title, now)

	exit, kind := domain.EventSearchBarNavigation, "search"
	if isLinkActivation {
		exit, kind = domain.EventNavigateToLink, "link"
	}
	current.AddEvent(exit, now)

	child := t.addNode(current.index, link, isLinkActivation, now)
	t.current = child.index

	if isLinkActivation {
		t.navigationCount++
	} else {
		t.navigationCount = 0
	}
	count := t.navigationCount
	t.ScoreApply(link, now, func(s *domain.Score) {
		s.RecordNavigationCount(count)
	})
	navigations.WithLabelValues(kind).Inc()

	if startReading {
		child.AddEvent(domain.EventStartReading, now)
	}
	return child
}

// GoBack moves to the parent of the current node. At the root nothing
// happens.
func (t *Tree) GoBack(startReading bool) *Node {
	current := t.Current()
	if current.parent == NoNode {
		return current
	}
	now := t.env.Clock.Now()
	current.AddEvent(domain.EventExitBackward, now)
	t.current = current.parent
	if startReading {
		t.Current().AddEvent(domain.EventStartReading, now)
	}
	return t.Current()
}

// GoForward moves to the most recently created child of the current node
// and starts reading it. Without children nothing happens.
func (t *Tree) GoForward() *Node {
	current := t.Current()
	if len(current.children) == 0 {
		return current
	}
	now := t.env.Clock.Now()
	current.AddEvent(domain.EventExitForward, now)
	t.current = current.children[len(current.children)-1]
	t.Current().AddEvent(domain.EventStartReading, now)
	return t.Current()
}

func (t *Tree) addCurrentEvent(typ domain.ReadingEventType) {
	t.Current().AddEvent(typ, t.env.Clock.Now())
}

func (t *Tree) StartReading() { t.addCurrentEvent(domain.EventStartReading) }
func (t *Tree) SwitchToBackground() { t.addCurrentEvent(domain.EventSwitchToBackground) }
func (t *Tree) SwitchToOtherTab() { t.addCurrentEvent(domain.EventSwitchToOtherTab) }
func (t *Tree) SwitchToCard() { t.addCurrentEvent(domain.EventSwitchToCard) }
func (t *Tree) SwitchToJournal() { t.addCurrentEvent(domain.EventSwitchToJournal) }
func (t *Tree) SwitchToNewSearch() { t.addCurrentEvent(domain.EventSwitchToNewSearch) }
func (t *Tree) OpenLinkInNewTab() { t.addCurrentEvent(domain.EventOpenLinkInNewTab) }
func (t *Tree) DestinationNoteChange() { t.addCurrentEvent(domain.EventDestinationNoteChange) }
func (t *Tree) TabPinSuggest() { t.addCurrentEvent(domain.EventTabPinSuggestion) }

// CloseTab records the tab closing and reports the tree lifetime
func (t *Tree) CloseTab() {
	t.addCurrentEvent(domain.EventCloseTab)
	t.reportLifetime()
}

// CloseApp records the app closing and reports the tree lifetime
func (t *Tree) CloseApp() {
	t.addCurrentEvent(domain.EventCloseApp)
	t.reportLifetime()
}

func (t *Tree) TabPin() {
	t.addCurrentEvent(domain.EventTabPin)
	t.isPinned = true
}

func (t *Tree) TabUnpin() {
	t.addCurrentEvent(domain.EventTabUnpin)
	t.isPinned = false
}

// Lifetime is the number of seconds since the root was created
func (t *Tree) Lifetime() float64 {
	root := t.Root()
	if len(root.events) == 0 {
		return 0
	}
	return t.env.Clock.Now().Sub(root.events[0].Date).Seconds()
}

func (t *Tree) reportLifetime() {
	if t.env.TreeStats == nil {
		return
	}
	t.env.TreeStats.UpdateLifetime(t.ID(), t.Lifetime())
}

// AddChildToCurrent appends a child for url under the current node
// without moving the cursor. It is reserved for history imports: on any
// other tree it logs and returns false.
func (t *Tree) AddChildToCurrent(url, title string, at time.Time) (*Node, bool) {
	if t.origin.Kind != domain.OriginHistoryImport {
		t.env.Logger.Warn("refusing to add child outside history import", "tree", t.ID(), "origin", t.origin.Kind)
		return nil, false
	}
	link := t.visit(url, title, at)
	return t.addNode(t.current, link, true, at), true
}

// CurrentPath lists the child indices leading from the root to the
// current node.
func (t *Tree) CurrentPath() []int {
	var path []int
	for n := t.Current(); n.parent != NoNode; n = t.nodes[n.parent] {
		siblings := t.nodes[n.parent].children
		for i, c := range siblings {
			if c == n.index {
				path = append(path, i)
				break
			}
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	if path == nil {
		path = []int{}
	}
	return path
}

// Anonymized returns a view of the tree with free text stripped from its
// origin. It shares nodes and scores with t and is meant for export only.
func (t *Tree) Anonymized() *Tree {
	a := *t
	a.origin = t.origin.Anonymized()
	return &a
}

// Clone deep copies the tree. The copy reports to the same env.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		env:             t.env,
		origin:          t.origin,
		current:         t.current,
		scores:          cloneScores(t.scores),
		isPinned:        t.isPinned,
		navigationCount: t.navigationCount,
		nodes:           make([]*Node, len(t.nodes)),
	}
	for i, n := range t.nodes {
		cp := *n
		cp.tree = c
		cp.children = append([]NodeIndex(nil), n.children...)
		cp.events = append([]domain.ReadingEvent(nil), n.events...)
		if n.foregroundStart != nil {
			start := *n.foregroundStart
			cp.foregroundStart = &start
		}
		c.nodes[i] = &cp
	}
	return c
}

// Erase detaches every node so the tree can be dropped, leaving a bare
// root behind.
func (t *Tree) Erase() {
	root := t.Root()
	for _, n := range t.nodes {
		n.parent = NoNode
		n.children = nil
		if n != root {
			n.tree = nil
		}
	}
	t.nodes = []*Node{root}
	t.current = rootIndex
}

func cloneScores(scores map[domain.LinkID]*domain.Score) map[domain.LinkID]*domain.Score {
	out := make(map[domain.LinkID]*domain.Score, len(scores))
	for link, s := range scores {
		if s != nil {
			out[link] = s.Clone()
		}
	}
	return out
}
