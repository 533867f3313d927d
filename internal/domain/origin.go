package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// OriginKind names why a browsing tree was opened
type OriginKind string

const (
	OriginSearchBar      OriginKind = "searchBar"
	OriginSearchFromNode OriginKind = "searchFromNode"
	OriginLinkFromNote   OriginKind = "linkFromNote"
	OriginBrowsingNode   OriginKind = "browsingNode"
	OriginHistoryImport  OriginKind = "historyImport"
	OriginPinnedTab      OriginKind = "pinnedTab"
)

// SourceBrowser is the browser a history import came from
type SourceBrowser string

const (
	BrowserChrome  SourceBrowser = "chrome"
	BrowserFirefox SourceBrowser = "firefox"
	BrowserSafari  SourceBrowser = "safari"
	BrowserBrave   SourceBrowser = "brave"
	BrowserEdge    SourceBrowser = "edge"
	BrowserArc     SourceBrowser = "arc"
)

// ParseSourceBrowser validates a browser name
func ParseSourceBrowser(s string) (SourceBrowser, error) {
	switch b := SourceBrowser(s); b {
	case BrowserChrome, BrowserFirefox, BrowserSafari, BrowserBrave, BrowserEdge, BrowserArc:
		return b, nil
	}
	return "", fmt.Errorf("unknown source browser: %q", s)
}

// TreeOrigin is the provenance of a browsing tree. Only the fields of the
// active Kind are meaningful.
//
//	searchBar      Query, ReferringRootID
//	searchFromNode Text
//	linkFromNote   NoteName
//	browsingNode   NodeID, PageLoadID, RootOrigin, RootID
//	historyImport  SourceBrowser
//	pinnedTab      URL
type TreeOrigin struct {
	Kind            OriginKind
	Query           *string
	ReferringRootID *uuid.UUID
	Text            *string
	NoteName        *string
	NodeID          uuid.UUID
	PageLoadID      *uuid.UUID
	RootOrigin      *TreeOrigin
	RootID          *uuid.UUID
	SourceBrowser   SourceBrowser
	URL             *string
}

// SearchBarOrigin is a tab opened from the search bar
func SearchBarOrigin(query string, referringRootID *uuid.UUID) TreeOrigin {
	return TreeOrigin{Kind: OriginSearchBar, Query: optionalString(query), ReferringRootID: referringRootID}
}

// SearchFromNodeOrigin is a search started from a note node
func SearchFromNodeOrigin(text string) TreeOrigin {
	return TreeOrigin{Kind: OriginSearchFromNode, Text: optionalString(text)}
}

// LinkFromNoteOrigin is a link followed from a note
func LinkFromNoteOrigin(noteName string) TreeOrigin {
	return TreeOrigin{Kind: OriginLinkFromNote, NoteName: optionalString(noteName)}
}

// BrowsingNodeOrigin is a tab opened from a node of another tree.
// rootOrigin may itself be a BrowsingNodeOrigin.
func BrowsingNodeOrigin(nodeID uuid.UUID, pageLoadID *uuid.UUID, rootOrigin *TreeOrigin, rootID *uuid.UUID) TreeOrigin {
	return TreeOrigin{Kind: OriginBrowsingNode, NodeID: nodeID, PageLoadID: pageLoadID, RootOrigin: rootOrigin, RootID: rootID}
}

// HistoryImportOrigin is a tree replayed from another browser's history
func HistoryImportOrigin(source SourceBrowser) TreeOrigin {
	return TreeOrigin{Kind: OriginHistoryImport, SourceBrowser: source}
}

// PinnedTabOrigin is a tree restored from a pinned tab
func PinnedTabOrigin(url string) TreeOrigin {
	return TreeOrigin{Kind: OriginPinnedTab, URL: optionalString(url)}
}

// Anonymized strips every free-text field, recursively, keeping structure
func (o TreeOrigin) Anonymized() TreeOrigin {
	a := o
	a.Query = nil
	a.Text = nil
	a.NoteName = nil
	a.URL = nil
	if o.RootOrigin != nil {
		root := o.RootOrigin.Anonymized()
		a.RootOrigin = &root
	}
	return a
}

// Depth counts the chain of nested root origins, 0 for a flat origin
func (o TreeOrigin) Depth() int {
	depth := 0
	for cur := o.RootOrigin; cur != nil; cur = cur.RootOrigin {
		depth++
	}
	return depth
}

// Validate checks the kind and its required fields
func (o TreeOrigin) Validate() error {
	switch o.Kind {
	case OriginSearchBar, OriginSearchFromNode, OriginLinkFromNote, OriginPinnedTab:
	case OriginBrowsingNode:
		if o.NodeID == uuid.Nil {
			return fmt.Errorf("browsingNode origin requires a node id")
		}
		if o.RootOrigin != nil {
			if err := o.RootOrigin.Validate(); err != nil {
				return fmt.Errorf("root origin: %w", err)
			}
		}
	case OriginHistoryImport:
		if _, err := ParseSourceBrowser(string(o.SourceBrowser)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown origin kind: %q", o.Kind)
	}
	return nil
}

// String renders the origin for display
func (o TreeOrigin) String() string {
	switch o.Kind {
	case OriginSearchBar:
		return fmt.Sprintf("search bar %q", deref(o.Query))
	case OriginSearchFromNode:
		return fmt.Sprintf("search from node %q", deref(o.Text))
	case OriginLinkFromNote:
		return fmt.Sprintf("link from note %q", deref(o.NoteName))
	case OriginBrowsingNode:
		return fmt.Sprintf("opened from node %s", o.NodeID)
	case OriginHistoryImport:
		return fmt.Sprintf("history import from %s", o.SourceBrowser)
	case OriginPinnedTab:
		return fmt.Sprintf("pinned tab %s", deref(o.URL))
	}
	return string(o.Kind)
}

type originWire struct {
	Type            OriginKind    `json:"type"`
	Query           *string       `json:"query,omitempty"`
	ReferringRootID *uuid.UUID    `json:"referringRootId,omitempty"`
	Text            *string       `json:"text,omitempty"`
	NoteName        *string       `json:"noteName,omitempty"`
	NodeID          *uuid.UUID    `json:"nodeId,omitempty"`
	PageLoadID      *uuid.UUID    `json:"pageLoadId,omitempty"`
	RootOrigin      *TreeOrigin   `json:"rootOrigin,omitempty"`
	RootID          *uuid.UUID    `json:"rootId,omitempty"`
	SourceBrowser   SourceBrowser `json:"sourceBrowser,omitempty"`
	URL             *string       `json:"url,omitempty"`
}

// MarshalJSON encodes the origin as {"type": kind, ...fields}
func (o TreeOrigin) MarshalJSON() ([]byte, error) {
	w := originWire{
		Type:            o.Kind,
		Query:           o.Query,
		ReferringRootID: o.ReferringRootID,
		Text:            o.Text,
		NoteName:        o.NoteName,
		PageLoadID:      o.PageLoadID,
		RootOrigin:      o.RootOrigin,
		RootID:          o.RootID,
		SourceBrowser:   o.SourceBrowser,
		URL:             o.URL,
	}
	if o.Kind == OriginBrowsingNode {
		id := o.NodeID
		w.NodeID = &id
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes an origin and validates it
func (o *TreeOrigin) UnmarshalJSON(data []byte) error {
	var w originWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	decoded := TreeOrigin{
		Kind:            w.Type,
		Query:           w.Query,
		ReferringRootID: w.ReferringRootID,
		Text:            w.Text,
		NoteName:        w.NoteName,
		PageLoadID:      w.PageLoadID,
		RootOrigin:      w.RootOrigin,
		RootID:          w.RootID,
		SourceBrowser:   w.SourceBrowser,
		URL:             w.URL,
	}
	if w.NodeID != nil {
		decoded.NodeID = *w.NodeID
	}
	if err := decoded.Validate(); err != nil {
		return err
	}

	*o = decoded
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
