package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/hamr-launcher/hamrd/internal/engine"
)

// decodeEvent turns a notification's method (a snake_case event name, spec
// §4.6 "UI sends events as notifications") and params into the matching
// engine.Event.
func decodeEvent(method string, params json.RawMessage) (engine.Event, error) {
	switch method {
	case "query_changed":
		var p struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return engine.QueryChanged{Query: p.Query}, nil

	case "query_submitted":
		var p struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return engine.QuerySubmitted{Query: p.Query}, nil

	case "item_selected":
		var p struct {
			ID       string `json:"id"`
			Action   string `json:"action"`
			PluginID string `json:"pluginId"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return engine.ItemSelected{ID: p.ID, Action: p.Action, PluginID: p.PluginID}, nil

	case "ambient_action":
		var p struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return engine.AmbientAction{ID: p.ID}, nil

	case "dismiss_ambient":
		return engine.DismissAmbient{}, nil

	case "slider_changed":
		var p struct {
			ItemID string  `json:"itemId"`
			Value  float64 `json:"value"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return engine.SliderChanged{ItemID: p.ItemID, Value: p.Value}, nil

	case "switch_toggled":
		var p struct {
			ItemID string `json:"itemId"`
			Value  bool   `json:"value"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return engine.SwitchToggled{ItemID: p.ItemID, Value: p.Value}, nil

	case "back":
		return engine.Back{}, nil

	case "cancel":
		return engine.Cancel{}, nil

	case "open_plugin":
		var p struct {
			PluginID string `json:"pluginId"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return engine.OpenPlugin{PluginID: p.PluginID}, nil

	case "close_plugin":
		return engine.ClosePlugin{}, nil

	case "launcher_opened":
		return engine.LauncherOpened{}, nil

	case "launcher_closed":
		return engine.LauncherClosed{}, nil

	case "refresh_index":
		return engine.RefreshIndex{}, nil

	case "form_submitted":
		var p struct {
			FormData map[string]json.RawMessage `json:"formData"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return engine.FormSubmitted{FormData: p.FormData}, nil

	case "form_cancelled":
		return engine.FormCancelled{}, nil

	case "set_context":
		var p struct {
			Context string `json:"context"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return engine.SetContext{Context: p.Context}, nil

	case "form_field_changed":
		var p struct {
			FieldID string          `json:"fieldId"`
			Value   json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return engine.FormFieldChanged{FieldID: p.FieldID, Value: p.Value}, nil

	case "plugin_action_triggered":
		var p struct {
			ItemID string `json:"itemId"`
			Action string `json:"action"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return engine.PluginActionTriggered{ItemID: p.ItemID, Action: p.Action}, nil

	default:
		return nil, fmt.Errorf("unknown event method %q", method)
	}
}
