package domain

import (
	"encoding/json"
	"testing"
)

func TestReadingEventType_Classification(t *testing.T) {
	tests := []struct {
		typ      ReadingEventType
		exiting  bool
		closing  bool
		entering bool
	}{
		{EventCreation, false, false, false},
		{EventStartReading, false, false, true},
		{EventNavigateToLink, true, true, false},
		{EventCloseTab, true, true, false},
		{EventSwitchToBackground, true, false, false},
		{EventExitBackward, true, true, false},
		{EventExitForward, true, true, false},
		{EventSwitchToOtherTab, true, false, false},
		{EventSwitchToCard, true, false, false},
		{EventSwitchToJournal, true, false, false},
		{EventSwitchToNewSearch, true, false, false},
		{EventOpenLinkInNewTab, false, false, false},
		{EventSearchBarNavigation, true, true, false},
		{EventCloseApp, true, false, false},
		{EventDestinationNoteChange, false, false, false},
		{EventTabPin, false, false, false},
		{EventTabUnpin, false, false, false},
		{EventTabPinSuggestion, false, false, false},
	}

	if len(tests) != len(AllReadingEventTypes) {
		t.Fatalf("table covers %d types, want %d", len(tests), len(AllReadingEventTypes))
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.IsForegroundExiting(); got != tt.exiting {
				t.Errorf("IsForegroundExiting() = %v, want %v", got, tt.exiting)
			}
			if got := tt.typ.IsClosing(); got != tt.closing {
				t.Errorf("IsClosing() = %v, want %v", got, tt.closing)
			}
			if got := tt.typ.IsForegroundEntering(); got != tt.entering {
				t.Errorf("IsForegroundEntering() = %v, want %v", got, tt.entering)
			}
		})
	}
}

func TestReadingEventType_UnmarshalRejectsUnknown(t *testing.T) {
	var typ ReadingEventType
	if err := json.Unmarshal([]byte(`"tabPin"`), &typ); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != EventTabPin {
		t.Errorf("expected %s, got %s", EventTabPin, typ)
	}

	if err := json.Unmarshal([]byte(`"doomscroll"`), &typ); err == nil {
		t.Error("expected error for unknown event type")
	}
}
