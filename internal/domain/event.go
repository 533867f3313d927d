package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReadingEventType is one step in the lifecycle of a visited page
type ReadingEventType string

const (
	EventCreation              ReadingEventType = "creation"
	EventStartReading          ReadingEventType = "startReading"
	EventNavigateToLink        ReadingEventType = "navigateToLink"
	EventCloseTab              ReadingEventType = "closeTab"
	EventSwitchToBackground    ReadingEventType = "switchToBackground"
	EventExitBackward          ReadingEventType = "exitBackward"
	EventExitForward           ReadingEventType = "exitForward"
	EventSwitchToOtherTab      ReadingEventType = "switchToOtherTab"
	EventSwitchToCard          ReadingEventType = "switchToCard"
	EventSwitchToJournal       ReadingEventType = "switchToJournal"
	EventSwitchToNewSearch     ReadingEventType = "switchToNewSearch"
	EventOpenLinkInNewTab      ReadingEventType = "openLinkInNewTab"
	EventSearchBarNavigation   ReadingEventType = "searchBarNavigation"
	EventCloseApp              ReadingEventType = "closeApp"
	EventDestinationNoteChange ReadingEventType = "destinationNoteChange"
	EventTabPin                ReadingEventType = "tabPin"
	EventTabUnpin              ReadingEventType = "tabUnpin"
	EventTabPinSuggestion      ReadingEventType = "tabPinSuggestion"
)

// AllReadingEventTypes lists every event type in declaration order
var AllReadingEventTypes = []ReadingEventType{
	EventCreation,
	EventStartReading,
	EventNavigateToLink,
	EventCloseTab,
	EventSwitchToBackground,
	EventExitBackward,
	EventExitForward,
	EventSwitchToOtherTab,
	EventSwitchToCard,
	EventSwitchToJournal,
	EventSwitchToNewSearch,
	EventOpenLinkInNewTab,
	EventSearchBarNavigation,
	EventCloseApp,
	EventDestinationNoteChange,
	EventTabPin,
	EventTabUnpin,
	EventTabPinSuggestion,
}

// IsForegroundExiting reports whether the event ends a foreground period
func (t ReadingEventType) IsForegroundExiting() bool {
	switch t {
	case EventExitForward, EventNavigateToLink, EventSearchBarNavigation, EventCloseTab,
		EventSwitchToBackground, EventExitBackward, EventSwitchToOtherTab, EventSwitchToCard,
		EventSwitchToJournal, EventSwitchToNewSearch, EventCloseApp:
		return true
	}
	return false
}

// IsClosing reports whether the event ends the current page load
func (t ReadingEventType) IsClosing() bool {
	switch t {
	case EventNavigateToLink, EventCloseTab, EventExitBackward, EventExitForward, EventSearchBarNavigation:
		return true
	}
	return false
}

// IsForegroundEntering reports whether the event starts a foreground period
func (t ReadingEventType) IsForegroundEntering() bool {
	return t == EventStartReading
}

// Valid reports whether t is a known event type
func (t ReadingEventType) Valid() bool {
	for _, known := range AllReadingEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseReadingEventType converts a wire name into an event type
func ParseReadingEventType(s string) (ReadingEventType, error) {
	t := ReadingEventType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown reading event type: %q", s)
	}
	return t, nil
}

// UnmarshalJSON rejects unknown event names
func (t *ReadingEventType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseReadingEventType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ReadingEvent is a timestamped lifecycle event recorded on a node
type ReadingEvent struct {
	ID           uuid.UUID        `json:"id"`
	Type         ReadingEventType `json:"type"`
	Date         time.Time        `json:"date"`
	WebSessionID uuid.UUID        `json:"webSessionId"`
	PageLoadID   uuid.UUID        `json:"pageLoadId"`
}
