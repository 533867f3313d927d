package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"browsetree/internal/application"
	"browsetree/internal/browsing"
	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

// Step actions understood by ReplayCommand
const (
	ActionNavigate              = "navigate"
	ActionBack                  = "back"
	ActionForward               = "forward"
	ActionStartReading          = "startReading"
	ActionCloseTab              = "closeTab"
	ActionSwitchToBackground    = "switchToBackground"
	ActionSwitchToOtherTab      = "switchToOtherTab"
	ActionSwitchToCard          = "switchToCard"
	ActionSwitchToJournal       = "switchToJournal"
	ActionSwitchToNewSearch     = "switchToNewSearch"
	ActionOpenLinkInNewTab      = "openLinkInNewTab"
	ActionCloseApp              = "closeApp"
	ActionDestinationNoteChange = "destinationNoteChange"
	ActionTabPin                = "tabPin"
	ActionTabUnpin              = "tabUnpin"
	ActionTabPinSuggest         = "tabPinSuggest"
)

var lifecycleActions = map[string]func(*browsing.Tree){
	ActionStartReading:          (*browsing.Tree).StartReading,
	ActionCloseTab:              (*browsing.Tree).CloseTab,
	ActionSwitchToBackground:    (*browsing.Tree).SwitchToBackground,
	ActionSwitchToOtherTab:      (*browsing.Tree).SwitchToOtherTab,
	ActionSwitchToCard:          (*browsing.Tree).SwitchToCard,
	ActionSwitchToJournal:       (*browsing.Tree).SwitchToJournal,
	ActionSwitchToNewSearch:     (*browsing.Tree).SwitchToNewSearch,
	ActionOpenLinkInNewTab:      (*browsing.Tree).OpenLinkInNewTab,
	ActionCloseApp:              (*browsing.Tree).CloseApp,
	ActionDestinationNoteChange: (*browsing.Tree).DestinationNoteChange,
	ActionTabPin:                (*browsing.Tree).TabPin,
	ActionTabUnpin:              (*browsing.Tree).TabUnpin,
	ActionTabPinSuggest:         (*browsing.Tree).TabPinSuggest,
}

// Step is one scripted user action. A zero At keeps the previous time.
type Step struct {
	Action string    `json:"action"`
	At     time.Time `json:"at,omitempty"`

	// navigate only
	URL            string `json:"url,omitempty"`
	Title          string `json:"title,omitempty"`
	LinkActivation bool   `json:"linkActivation,omitempty"`

	// navigate and back; forward always starts reading
	StartReading bool `json:"startReading,omitempty"`
}

// Script is a recorded browsing session
type Script struct {
	Origin domain.TreeOrigin `json:"origin"`
	Start  time.Time         `json:"start"`
	Steps  []Step            `json:"steps"`
}

// SettableClock is a clock the replay can move
type SettableClock interface {
	ports.Clock
	Set(t time.Time)
}

// ReplayResult contains the result of a replay
type ReplayResult struct {
	TreeID  uuid.UUID
	Nodes   int
	Scored  int
	Current string
	Tree    *browsing.Tree
}

// ReplayCommand runs a script against a fresh tree and stores it
type ReplayCommand struct {
	repo   ports.TreeRepository
	env    browsing.Env
	clock  SettableClock
	Script Script
}

// NewReplayCommand creates a new ReplayCommand. The env's clock is
// replaced by clock and web sessions are tracked on that clock.
func NewReplayCommand(repo ports.TreeRepository, env browsing.Env, clock SettableClock, script Script) *ReplayCommand {
	env.Clock = clock
	env.Sessions = nil
	return &ReplayCommand{repo: repo, env: env, clock: clock, Script: script}
}

// Validate checks the origin and every step before anything runs
func (c *ReplayCommand) Validate() error {
	if err := c.Script.Origin.Validate(); err != nil {
		return &application.ValidationError{Field: "origin", Message: err.Error()}
	}
	if c.Script.Start.IsZero() {
		return &application.ValidationError{Field: "start", Message: "start is required"}
	}
	for i, s := range c.Script.Steps {
		field := fmt.Sprintf("steps[%d]", i)
		switch s.Action {
		case ActionNavigate:
			if err := application.ValidateURL("url", s.URL); err != nil {
				return &application.ValidationError{Field: field, Message: err.Error()}
			}
		case ActionBack, ActionForward:
		default:
			if _, ok := lifecycleActions[s.Action]; !ok {
				return &application.ValidationError{Field: field, Message: fmt.Sprintf("unknown action: %s", s.Action)}
			}
		}
	}
	return nil
}

// Execute runs the replay command
func (c *ReplayCommand) Execute(ctx context.Context) (*ReplayResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.clock.Set(c.Script.Start)
	tree := browsing.NewTree(c.Script.Origin, c.env)

	for _, s := range c.Script.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.At.IsZero() {
			c.clock.Set(s.At)
		}
		switch s.Action {
		case ActionNavigate:
			tree.NavigateTo(s.URL, s.Title, s.StartReading, s.LinkActivation)
		case ActionBack:
			tree.GoBack(s.StartReading)
		case ActionForward:
			tree.GoForward()
		default:
			lifecycleActions[s.Action](tree)
		}
	}

	if err := c.repo.Save(ctx, tree.Document()); err != nil {
		return nil, fmt.Errorf("save replayed tree: %w", err)
	}

	current := "(root)"
	if n := tree.Current(); !n.IsRoot() {
		current = NodeLabel(n.Link(), c.env.Links)
	}
	return &ReplayResult{
		TreeID:  tree.ID(),
		Nodes:   tree.Len(),
		Scored:  len(tree.Scores()),
		Current: current,
		Tree:    tree,
	}, nil
}
