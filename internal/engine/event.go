// Package engine owns the session state machine described in spec §4.1: it
// turns UI events into plugin RPC calls and/or search-engine queries, folds
// plugin responses into UI updates, and tracks navigation/throttle/restore
// state across the lifetime of one daemon.
package engine

import "encoding/json"

// Event is the closed sum type over everything the RPC broker can deliver
// to Engine.Process, following the same marker-interface pattern as
// types.Widget (spec §9 design note) rather than a single struct with many
// optional fields.
type Event interface {
	eventKind()
}

type QueryChanged struct{ Query string }

func (QueryChanged) eventKind() {}

type QuerySubmitted struct{ Query string }

func (QuerySubmitted) eventKind() {}

// ItemSelected carries an optional action id (defaults to the item's
// primary action) and an optional plugin hint used to disambiguate ids
// that are only unique within one plugin's index bucket.
type ItemSelected struct {
	ID       string
	Action   string
	PluginID string
}

func (ItemSelected) eventKind() {}

type AmbientAction struct{ ID string }

func (AmbientAction) eventKind() {}

type DismissAmbient struct{}

func (DismissAmbient) eventKind() {}

type SliderChanged struct {
	ItemID string
	Value  float64
}

func (SliderChanged) eventKind() {}

type SwitchToggled struct {
	ItemID string
	Value  bool
}

func (SwitchToggled) eventKind() {}

type Back struct{}

func (Back) eventKind() {}

type Cancel struct{}

func (Cancel) eventKind() {}

type OpenPlugin struct{ PluginID string }

func (OpenPlugin) eventKind() {}

type ClosePlugin struct{}

func (ClosePlugin) eventKind() {}

type LauncherOpened struct{}

func (LauncherOpened) eventKind() {}

type LauncherClosed struct{}

func (LauncherClosed) eventKind() {}

type RefreshIndex struct{}

func (RefreshIndex) eventKind() {}

type FormSubmitted struct{ FormData map[string]json.RawMessage }

func (FormSubmitted) eventKind() {}

type FormCancelled struct{}

func (FormCancelled) eventKind() {}

type SetContext struct{ Context string }

func (SetContext) eventKind() {}

type FormFieldChanged struct {
	FieldID string
	Value   json.RawMessage
}

func (FormFieldChanged) eventKind() {}

type PluginActionTriggered struct {
	ItemID string
	Action string
}

func (PluginActionTriggered) eventKind() {}
