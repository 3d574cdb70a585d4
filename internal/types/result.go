// Package types defines the data shapes shared by every core-engine
// component: result items, the persisted frecency form of a result item,
// plugin manifests, and the session-scoped structures the engine mutates.
//
// Naming mirrors the crate this package was distilled from (hamr-types):
// one place owns the wire-visible vocabulary so the engine, the broker, and
// the index store never disagree on a field name.
package types

import "encoding/json"

// ResultType tags the kind of a ResultItem for rendering and ranking
// purposes. It is distinct from the Go type of the item itself -- every
// ResultItem is the same struct regardless of ResultType.
type ResultType string

const (
	ResultTypeNormal      ResultType = "normal"
	ResultTypeApp         ResultType = "app"
	ResultTypePlugin      ResultType = "plugin"
	ResultTypeIndexedItem ResultType = "indexed_item"
	ResultTypeSlider      ResultType = "slider"
	ResultTypeSwitch      ResultType = "switch"
	ResultTypeWebSearch   ResultType = "web_search"
	ResultTypeSuggestion  ResultType = "suggestion"
	ResultTypeRecent      ResultType = "recent"
	ResultTypePatternMatch ResultType = "pattern_match"
)

// Action is one entry in a ResultItem's action list.
type Action struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	KeepOpen bool   `json:"keepOpen"`
}

// Badge and Chip are small decorations rendered alongside a result; the
// daemon treats their contents as opaque display strings.
type Badge struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

type Chip struct {
	Text string `json:"text"`
	Icon string `json:"icon,omitempty"`
}

// Widget is the closed sum type over a result item's interactive content.
// Exactly one concrete implementation may be set on a ResultItem at a time;
// WidgetKind reports which one so callers can type-switch without a second
// tag field drifting out of sync with the value.
type Widget interface {
	WidgetKind() ResultType
}

type Slider struct {
	Value        float64 `json:"value"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Step         float64 `json:"step"`
	DisplayValue string  `json:"displayValue,omitempty"`
}

func (Slider) WidgetKind() ResultType { return ResultTypeSlider }

type Switch struct {
	Value bool `json:"value"`
}

func (Switch) WidgetKind() ResultType { return ResultTypeSwitch }

type Gauge struct {
	Value float64 `json:"value"`
	Max   float64 `json:"max"`
	Label string  `json:"label,omitempty"`
}

func (Gauge) WidgetKind() ResultType { return ResultTypeNormal }

type Progress struct {
	Value float64 `json:"value"`
}

func (Progress) WidgetKind() ResultType { return ResultTypeNormal }

type Graph struct {
	Points []float64 `json:"points"`
}

func (Graph) WidgetKind() ResultType { return ResultTypeNormal }

// PreviewAction is an inline action offered from within the preview pane.
type PreviewAction struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Preview carries the optional detail view for a ResultItem. Content is
// sanitized by SanitizePreview before the engine hands it to a UI -- a
// plugin is an untrusted external process and ContentType == "html" is the
// one place its bytes reach a renderer outside this daemon's control.
type Preview struct {
	Title       string            `json:"title,omitempty"`
	ContentType string            `json:"contentType,omitempty"` // markdown | html | text | image
	Content     string            `json:"content,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Actions     []PreviewAction   `json:"actions,omitempty"`
}

// ResultItem is the unit of display described in spec §3. Widget has no
// JSON field of its own: MarshalJSON writes it as the flat fields of
// legacyWidgetFields below, and UnmarshalJSON decodes those fields back
// into one of the concrete Widget implementations.
type ResultItem struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Icon           string     `json:"icon,omitempty"`
	Verb           string     `json:"verb,omitempty"`
	Thumbnail      string     `json:"thumbnail,omitempty"`
	ResultType     ResultType `json:"resultType"`
	Badges         []Badge    `json:"badges,omitempty"`
	Chips          []Chip     `json:"chips,omitempty"`
	Actions        []Action   `json:"actions,omitempty"`
	Widget         Widget     `json:"-"`
	// Keywords are extra search-only aliases a plugin attaches to an
	// item (spec §4.5's Searchable.keywords); never rendered.
	Keywords       []string   `json:"keywords,omitempty"`
	AppID          string     `json:"appId,omitempty"`
	AppIDFallback  string     `json:"appIdFallback,omitempty"`
	EntryPoint     json.RawMessage `json:"entryPoint,omitempty"`
	Preview        *Preview   `json:"preview,omitempty"`

	// CompositeScore is ephemeral ranking state set by the search engine; it
	// is never persisted and never sent to a UI as part of the item itself.
	CompositeScore float64 `json:"-"`
}

// legacyWidgetFields is the flat widget shape older plugins (and the
// original Rust implementation) emit. It is the only widget wire shape this
// package reads or writes: UnmarshalJSON folds it into Widget, and
// MarshalJSON writes Widget back out in the same shape.
type legacyWidgetFields struct {
	Value        *float64  `json:"value,omitempty"`
	Min          *float64  `json:"min,omitempty"`
	Max          *float64  `json:"max,omitempty"`
	Step         *float64  `json:"step,omitempty"`
	DisplayValue string    `json:"displayValue,omitempty"`
	Gauge        *Gauge    `json:"gauge,omitempty"`
	Progress     *Progress `json:"progress,omitempty"`
	Graph        *Graph    `json:"graph,omitempty"`
}

type resultItemWire struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Icon          string          `json:"icon,omitempty"`
	Verb          string          `json:"verb,omitempty"`
	Thumbnail     string          `json:"thumbnail,omitempty"`
	ResultType    ResultType      `json:"resultType"`
	Badges        []Badge         `json:"badges,omitempty"`
	Chips         []Chip          `json:"chips,omitempty"`
	Actions       []Action        `json:"actions,omitempty"`
	Keywords      []string        `json:"keywords,omitempty"`
	AppID         string          `json:"appId,omitempty"`
	AppIDFallback string          `json:"appIdFallback,omitempty"`
	EntryPoint    json.RawMessage `json:"entryPoint,omitempty"`
	Preview       *Preview        `json:"preview,omitempty"`
	legacyWidgetFields
}

// MarshalJSON writes Widget as the flat legacyWidgetFields (value, min,
// max and step for a slider; value 0 or 1 for a switch; a gauge, progress
// or graph object). No separate tagged widget object is emitted.
func (r ResultItem) MarshalJSON() ([]byte, error) {
	wire := resultItemWire{
		ID: r.ID, Name: r.Name, Description: r.Description, Icon: r.Icon,
		Verb: r.Verb, Thumbnail: r.Thumbnail, ResultType: r.ResultType,
		Badges: r.Badges, Chips: r.Chips, Actions: r.Actions, Keywords: r.Keywords,
		AppID: r.AppID, AppIDFallback: r.AppIDFallback,
		EntryPoint: r.EntryPoint, Preview: r.Preview,
	}
	switch w := r.Widget.(type) {
	case Slider:
		wire.Value, wire.Min, wire.Max, wire.Step = &w.Value, &w.Min, &w.Max, &w.Step
		wire.DisplayValue = w.DisplayValue
	case Switch:
		v := 0.0
		if w.Value {
			v = 1
		}
		wire.Value = &v
	case Gauge:
		g := w
		wire.Gauge = &g
	case Progress:
		p := w
		wire.Progress = &p
	case Graph:
		g := w
		wire.Graph = &g
	}
	return json.Marshal(wire)
}

// UnmarshalJSON folds the flat legacyWidgetFields into the matching Widget
// implementation, using ResultType to tell a slider from a switch. A
// separate tagged widget object on the wire is not read.
func (r *ResultItem) UnmarshalJSON(data []byte) error {
	var wire resultItemWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = ResultItem{
		ID: wire.ID, Name: wire.Name, Description: wire.Description, Icon: wire.Icon,
		Verb: wire.Verb, Thumbnail: wire.Thumbnail, ResultType: wire.ResultType,
		Badges: wire.Badges, Chips: wire.Chips, Actions: wire.Actions, Keywords: wire.Keywords,
		AppID: wire.AppID, AppIDFallback: wire.AppIDFallback,
		EntryPoint: wire.EntryPoint, Preview: wire.Preview,
	}
	switch {
	case wire.ResultType == ResultTypeSlider && wire.Value != nil:
		s := Slider{Value: *wire.Value, DisplayValue: wire.DisplayValue}
		if wire.Min != nil {
			s.Min = *wire.Min
		}
		if wire.Max != nil {
			s.Max = *wire.Max
		}
		if wire.Step != nil {
			s.Step = *wire.Step
		}
		r.Widget = s
	case wire.ResultType == ResultTypeSwitch && wire.Value != nil:
		r.Widget = Switch{Value: *wire.Value != 0}
	case wire.Gauge != nil:
		r.Widget = *wire.Gauge
	case wire.Progress != nil:
		r.Widget = *wire.Progress
	case wire.Graph != nil:
		r.Widget = *wire.Graph
	}
	return nil
}
