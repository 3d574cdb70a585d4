package engine

import (
	"encoding/json"

	"github.com/hamr-launcher/hamrd/internal/broker"
	"github.com/hamr-launcher/hamrd/internal/types"
)

// translate folds one plugin Response into the Update(s) it produces,
// applying any index/navigation side effects along the way (spec §4.3's
// response tagged union, §4.1's navigation-depth bookkeeping).
func (e *Engine) translate(pluginID string, resp broker.Response) []Update {
	switch resp.Type {
	case broker.RespIndex:
		return e.translateIndex(pluginID, resp)
	case broker.RespResults:
		return e.translateResults(pluginID, resp)
	case broker.RespExecute:
		return e.translateExecute(resp)
	case broker.RespCard:
		var item types.ResultItem
		if err := json.Unmarshal(resp.Card, &item); err != nil {
			return []Update{protocolError(pluginID, err)}
		}
		types.SanitizePreview(item.Preview)
		return []Update{Card{Item: item}}
	case broker.RespForm:
		e.bumpNavigationDepth(true)
		return []Update{
			NavigationDepthChanged{Depth: e.session.NavigationDepth},
			Form{Fields: resp.Form, SubmitLabel: resp.SubmitLabel, CancelLabel: resp.CancelLabel, NavigateForward: true},
		}
	case broker.RespError:
		return []Update{Error{PluginID: pluginID, Message: resp.Error}}
	case broker.RespUpdate:
		return e.translatePatches(resp)
	case broker.RespStatus:
		return e.translateStatus(pluginID, resp)
	case broker.RespImageBrowser:
		var images []string
		_ = json.Unmarshal(resp.Images, &images)
		return []Update{ImageBrowser{Images: images}}
	case broker.RespGridBrowser:
		var items []types.ResultItem
		_ = json.Unmarshal(resp.Grid, &items)
		return []Update{GridBrowser{Items: items}}
	case broker.RespPrompt:
		e.session.cached.prompt = resp.Prompt
		return []Update{Prompt{Text: resp.Prompt}}
	case broker.RespMatch:
		var item *types.ResultItem
		if len(resp.Match) > 0 && string(resp.Match) != "null" {
			item = &types.ResultItem{}
			if err := json.Unmarshal(resp.Match, item); err != nil {
				return []Update{protocolError(pluginID, err)}
			}
		}
		if item == nil {
			return nil
		}
		return []Update{Results{Items: []types.ResultItem{*item}}}
	case broker.RespNoop:
		return nil
	default:
		return []Update{protocolError(pluginID, nil)}
	}
}

func protocolError(pluginID string, err error) Update {
	msg := "malformed response"
	if err != nil {
		msg = err.Error()
	}
	return Error{PluginID: pluginID, Message: msg}
}

func (e *Engine) translateIndex(pluginID string, resp broker.Response) []Update {
	items := make([]types.ResultItem, 0, len(resp.Items))
	for _, raw := range resp.Items {
		var item types.ResultItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	if resp.Full {
		e.idx.UpdateFull(pluginID, items)
	} else {
		e.idx.UpdateIncremental(pluginID, items, resp.Remove)
	}
	return []Update{IndexUpdate{PluginID: pluginID, Items: items, Remove: resp.Remove, Full: resp.Full}}
}

func (e *Engine) translateResults(pluginID string, resp broker.Response) []Update {
	items := make([]types.ResultItem, 0, len(resp.Results))
	for _, raw := range resp.Results {
		var item types.ResultItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		types.SanitizePreview(item.Preview)
		items = append(items, item)
	}
	e.session.cached.results = items
	e.session.cached.placeholder = resp.Placeholder

	updates := []Update{Results{Items: items, Placeholder: resp.Placeholder}}
	if resp.ClearInput {
		updates = append(updates, ClearInput{})
	}
	if resp.InputMode != "" {
		e.session.InputMode = types.InputMode(resp.InputMode)
		updates = append(updates, InputModeChanged{Mode: e.session.InputMode})
	}
	if resp.Context != "" && e.session.ActivePlugin != nil {
		e.session.ActivePlugin.Context = resp.Context
		updates = append(updates, ContextChanged{Context: resp.Context})
	}
	if resp.NavigateForward {
		e.bumpNavigationDepth(true)
		updates = append(updates, NavigationDepthChanged{Depth: e.session.NavigationDepth}, NavigateForward{})
	}
	if e.session.pendingBack {
		e.session.pendingBack = false
		e.bumpNavigationDepth(false)
		updates = append(updates, NavigationDepthChanged{Depth: e.session.NavigationDepth}, NavigateBack{})
	}
	return updates
}

// bumpNavigationDepth implements spec §4.1's depth bookkeeping: incremented
// on navigate_forward or a Form presentation, decremented when a pending
// Back is acknowledged by the next Results.
func (e *Engine) bumpNavigationDepth(forward bool) {
	if forward {
		e.session.NavigationDepth++
		return
	}
	if e.session.NavigationDepth > 0 {
		e.session.NavigationDepth--
	}
}

func (e *Engine) translateExecute(resp broker.Response) []Update {
	var action types.Action
	_ = json.Unmarshal(resp.ExecuteAction, &action)
	updates := []Update{Execute{Action: action}}
	if resp.Close {
		updates = append(updates, Close{})
	}
	return updates
}

func (e *Engine) translatePatches(resp broker.Response) []Update {
	patches := make([]types.ResultItem, 0, len(resp.Patches))
	for _, raw := range resp.Patches {
		var item types.ResultItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		patches = append(patches, item)
	}
	// Unknown ids are silently dropped by the UI layer -- this daemon does
	// not maintain a shadow copy of what the UI currently renders, so it
	// cannot filter them itself (spec §9 open question (b)).
	return []Update{ResultsUpdate{Patches: patches}}
}

func (e *Engine) translateStatus(pluginID string, resp broker.Response) []Update {
	var badges []types.Badge
	for _, raw := range resp.Badges {
		var b types.Badge
		if json.Unmarshal(raw, &b) == nil {
			badges = append(badges, b)
		}
	}
	var chips []types.Chip
	for _, raw := range resp.Chips {
		var c types.Chip
		if json.Unmarshal(raw, &c) == nil {
			chips = append(chips, c)
		}
	}
	updates := []Update{PluginStatusUpdate{PluginID: pluginID, Badges: badges, Chips: chips, Description: resp.Description}}

	if resp.Fab != nil {
		updates = append(updates, FabUpdate{PluginID: pluginID, Show: *resp.Fab})
	}
	if resp.AmbientPresent() {
		if resp.AmbientIsClear() {
			updates = append(updates, AmbientUpdate{PluginID: pluginID, Item: nil})
		} else {
			var item types.ResultItem
			if err := json.Unmarshal(resp.Ambient, &item); err == nil {
				updates = append(updates, AmbientUpdate{PluginID: pluginID, Item: &item})
			}
		}
	}
	return updates
}
