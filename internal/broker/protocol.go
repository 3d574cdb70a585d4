// Package broker manages per-plugin processes and speaks the line-framed
// JSON protocol described in spec §4.3: one JSON object per line, in both
// directions, over either a child process's stdio pipes or a Unix socket
// the plugin itself listens on.
package broker

import "encoding/json"

// Step is the request envelope's step discriminator.
type Step string

const (
	StepInitial Step = "initial"
	StepSearch  Step = "search"
	StepAction  Step = "action"
	StepMatch   Step = "match"
	StepForm    Step = "form"
	StepStatus  Step = "status"
)

// Selected mirrors the wire shape {id, ...} sent for action/search steps.
type Selected struct {
	ID string `json:"id"`
}

// Request is the envelope sent to a plugin on every step, per spec §4.3.
// Bit-exact field names match the camelCase wire vocabulary in SPEC_FULL §6.
type Request struct {
	Step     Step                       `json:"step"`
	Query    string                     `json:"query,omitempty"`
	Selected *Selected                  `json:"selected,omitempty"`
	Action   string                     `json:"action,omitempty"`
	Session  uint64                     `json:"session"`
	Context  string                     `json:"context,omitempty"`
	Value    json.RawMessage            `json:"value,omitempty"`
	FormData map[string]json.RawMessage `json:"formData,omitempty"`
	Source   string                     `json:"source,omitempty"`
}

// ResponseType is the tagged union discriminator on a plugin's response.
type ResponseType string

const (
	RespIndex        ResponseType = "index"
	RespResults      ResponseType = "results"
	RespExecute      ResponseType = "execute"
	RespCard         ResponseType = "card"
	RespForm         ResponseType = "form"
	RespError        ResponseType = "error"
	RespUpdate       ResponseType = "update"
	RespStatus       ResponseType = "status"
	RespImageBrowser ResponseType = "imageBrowser"
	RespGridBrowser  ResponseType = "gridBrowser"
	RespPrompt       ResponseType = "prompt"
	RespMatch        ResponseType = "match"
	RespNoop         ResponseType = "noop"
)

// Response is the raw wire shape a plugin sends back; it deliberately
// carries every field any response type might populate rather than a Go
// sum type, because the daemon's only job here is to decode one JSON
// object and hand it to the engine for interpretation -- the engine (not
// the transport layer) owns the translation to Update values.
type Response struct {
	Type ResponseType `json:"type"`

	// index
	Full   bool              `json:"full,omitempty"`
	Items  []json.RawMessage `json:"items,omitempty"`
	Remove []string          `json:"remove,omitempty"`

	// results
	Results         []json.RawMessage `json:"results,omitempty"`
	Placeholder     string            `json:"placeholder,omitempty"`
	ClearInput      bool              `json:"clearInput,omitempty"`
	InputMode       string            `json:"inputMode,omitempty"`
	NavigateForward bool              `json:"navigateForward,omitempty"`
	DisplayHint     string            `json:"displayHint,omitempty"`
	Context         string            `json:"context,omitempty"`

	// execute
	ExecuteAction json.RawMessage `json:"executeAction,omitempty"`
	Close         bool            `json:"close,omitempty"`
	KeepOpen      bool            `json:"keepOpen,omitempty"`

	// card / match
	Card  json.RawMessage `json:"card,omitempty"`
	Match json.RawMessage `json:"result,omitempty"`

	// form
	Form            json.RawMessage `json:"form,omitempty"`
	SubmitLabel     string          `json:"submitLabel,omitempty"`
	CancelLabel     string          `json:"cancelLabel,omitempty"`

	// error
	Error string `json:"error,omitempty"`

	// update (ResultsUpdate patches)
	Patches []json.RawMessage `json:"patches,omitempty"`

	// status
	Badges      []json.RawMessage `json:"badges,omitempty"`
	Chips       []json.RawMessage `json:"chips,omitempty"`
	Description string            `json:"description,omitempty"`
	Fab         *bool             `json:"showFab,omitempty"`
	Ambient     json.RawMessage   `json:"ambient,omitempty"` // explicit null means "clear all"
	ambientSet  bool

	// imageBrowser / gridBrowser
	Images json.RawMessage `json:"images,omitempty"`
	Grid   json.RawMessage `json:"grid,omitempty"`

	// prompt
	Prompt string `json:"prompt,omitempty"`
}

// UnmarshalJSON records whether "ambient" was present at all (vs simply
// absent), since spec §4.3 distinguishes `ambient: null` ("clear") from a
// missing key ("no change").
func (r *Response) UnmarshalJSON(data []byte) error {
	type alias Response
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = Response(a)
	_, r.ambientSet = probe["ambient"]
	return nil
}

// AmbientPresent reports whether the response carried an "ambient" key at
// all, null or otherwise.
func (r Response) AmbientPresent() bool { return r.ambientSet }

// AmbientIsClear reports whether ambient was present and explicitly null.
func (r Response) AmbientIsClear() bool {
	return r.ambientSet && (len(r.Ambient) == 0 || string(r.Ambient) == "null")
}
