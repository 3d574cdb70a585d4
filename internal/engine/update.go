package engine

import (
	"encoding/json"

	"github.com/hamr-launcher/hamrd/internal/types"
)

// Update is the closed sum type of everything Engine.Process can hand back
// to the RPC broker for delivery to the active UI (or, for the two
// internal-only variants, for the broker to swallow and apply to its own
// routing state -- spec §4.6).
type Update interface {
	updateKind()
}

type Results struct {
	Items       []types.ResultItem
	Placeholder string
}

func (Results) updateKind() {}

// ResultsUpdate carries sparse patches by id; an id absent from the
// current result set is silently dropped (spec §9 open question (b)).
type ResultsUpdate struct{ Patches []types.ResultItem }

func (ResultsUpdate) updateKind() {}

type Card struct{ Item types.ResultItem }

func (Card) updateKind() {}

// Form's field schema is plugin-defined and rendered entirely by the UI, so
// the engine carries it as an opaque passthrough rather than a typed shape.
type Form struct {
	Fields          json.RawMessage
	SubmitLabel     string
	CancelLabel     string
	NavigateForward bool
}

func (Form) updateKind() {}

type PluginActivated struct {
	PluginID string
	Name     string
	Icon     string
}

func (PluginActivated) updateKind() {}

type PluginDeactivated struct{}

func (PluginDeactivated) updateKind() {}

type Busy struct{ Busy bool }

func (Busy) updateKind() {}

type Error struct {
	PluginID string
	Message  string
}

func (Error) updateKind() {}

type Prompt struct{ Text string }

func (Prompt) updateKind() {}

type Placeholder struct{ Text string }

func (Placeholder) updateKind() {}

type Execute struct{ Action types.Action }

func (Execute) updateKind() {}

type Close struct{}

func (Close) updateKind() {}

type Show struct{}

func (Show) updateKind() {}

type Toggle struct{}

func (Toggle) updateKind() {}

type ClearInput struct{}

func (ClearInput) updateKind() {}

type InputModeChanged struct{ Mode types.InputMode }

func (InputModeChanged) updateKind() {}

type ContextChanged struct{ Context string }

func (ContextChanged) updateKind() {}

type PluginStatusUpdate struct {
	PluginID    string
	Badges      []types.Badge
	Chips       []types.Chip
	Description string
}

func (PluginStatusUpdate) updateKind() {}

// AmbientUpdate carries the current ambient item, or nil to clear it
// (spec §4.3 "ambient: null means clear all").
type AmbientUpdate struct {
	PluginID string
	Item     *types.ResultItem
}

func (AmbientUpdate) updateKind() {}

type FabUpdate struct {
	PluginID string
	Show     bool
}

func (FabUpdate) updateKind() {}

type ImageBrowser struct{ Images []string }

func (ImageBrowser) updateKind() {}

type GridBrowser struct{ Items []types.ResultItem }

func (GridBrowser) updateKind() {}

type PluginActionsUpdate struct {
	ItemID  string
	Actions []types.Action
}

func (PluginActionsUpdate) updateKind() {}

type NavigationDepthChanged struct{ Depth int }

func (NavigationDepthChanged) updateKind() {}

type NavigateForward struct{}

func (NavigateForward) updateKind() {}

type NavigateBack struct{}

func (NavigateBack) updateKind() {}

type ConfigReloaded struct{}

func (ConfigReloaded) updateKind() {}

// PluginManagementChanged notifies the UI that plugin-management mode
// (entered via the literal "/" query) was entered or left.
type PluginManagementChanged struct{ Active bool }

func (PluginManagementChanged) updateKind() {}

// internalOnly marks an Update the RPC broker must apply to its own state
// and never forward to a UI (spec §4.6: "IndexUpdate and ActivatePlugin
// are internal updates ... swallowed"). PluginActivated already carries
// everything a UI needs to render, so the broker-internal bookkeeping
// update is this separate, unexported-from-UI-semantics type.
type internalOnly interface {
	internalUpdate()
}

// IndexUpdate is swallowed by the RPC broker: it mutates the index store
// and is never forwarded as a UI notification.
type IndexUpdate struct {
	PluginID string
	Items    []types.ResultItem
	Remove   []string
	Full     bool
}

func (IndexUpdate) updateKind()    {}
func (IndexUpdate) internalUpdate() {}

// ActivatePlugin is swallowed by the RPC broker: it mutates which plugin
// connection routing currently targets.
type ActivatePlugin struct{ PluginID string }

func (ActivatePlugin) updateKind()    {}
func (ActivatePlugin) internalUpdate() {}

// IsInternal reports whether u must be swallowed by the RPC broker rather
// than forwarded to the active UI as a notification.
func IsInternal(u Update) bool {
	_, ok := u.(internalOnly)
	return ok
}
