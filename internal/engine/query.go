package engine

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hamr-launcher/hamrd/internal/broker"
	"github.com/hamr-launcher/hamrd/internal/search"
	"github.com/hamr-launcher/hamrd/internal/types"
)

func jsonMarshal(v any) ([]byte, error) { return json.Marshal(v) }

// handleQueryChanged implements the five-step query resolution policy from
// spec §4.1 when there is no active plugin, or simply forwards the query to
// the active plugin's search step otherwise.
func (e *Engine) handleQueryChanged(ctx context.Context, query string) []Update {
	if pending, ok := e.session.popPendingInitialQuery(query); ok {
		query = pending
	}
	e.session.Query = query

	if e.session.ActivePlugin != nil {
		return e.sendToActivePlugin(ctx, broker.Request{Step: broker.StepSearch, Query: query})
	}

	if query == pluginMgmtQuery {
		e.session.PluginManagementMode = true
		return append([]Update{PluginManagementChanged{Active: true}}, e.mainSearch(ctx, "")...)
	}
	if e.session.PluginManagementMode && query != pluginMgmtQuery {
		e.session.PluginManagementMode = false
	}

	// Step 1: configured action-bar hint prefix.
	for _, hint := range e.config().ActionBarHints {
		if query == hint.Prefix {
			return e.openPlugin(ctx, hint.Plugin, "")
		}
	}

	// Step 2/3: plugin prefix match, with or without remainder.
	if plugin, remainder, ok := e.plugins.FindMatching(query); ok {
		if remainder == "" {
			return e.openPlugin(ctx, plugin.ID, "")
		}
		return e.patternMatch(ctx, plugin, remainder)
	}

	// Step 4/5: main search (empty query included -- Rank("", ...) keeps
	// every searchable and orders it on frecency/bonus alone).
	return e.mainSearch(ctx, query)
}

// patternMatch implements query-resolution step 3: probe the plugin for an
// inline match, falling back to a synthetic PatternMatch result.
func (e *Engine) patternMatch(ctx context.Context, plugin *types.Plugin, remainder string) []Update {
	item, _ := e.broker.Probe(ctx, plugin, remainder)
	if item != nil {
		item.ID = prefixMatchPrev + plugin.ID + ":" + item.ID
		return []Update{Results{Items: []types.ResultItem{*item}}}
	}

	entryPoint, _ := jsonMarshalRemainder(remainder)
	pm := types.ResultItem{
		ID:         prefixPattern + plugin.ID,
		Name:       plugin.Manifest.Name,
		Verb:       plugin.Manifest.Name,
		ResultType: types.ResultTypePatternMatch,
		EntryPoint: entryPoint,
	}
	return []Update{Results{Items: []types.ResultItem{pm}}}
}

func jsonMarshalRemainder(remainder string) ([]byte, error) {
	return jsonMarshal(struct {
		RemainingQuery string `json:"remaining_query"`
	}{RemainingQuery: remainder})
}

// mainSearch implements query-resolution step 4/5: rank plugin entries and
// indexed items (or just plugin entries, in plugin-management mode).
func (e *Engine) mainSearch(ctx context.Context, query string) []Update {
	cfg := e.config()
	searchables := e.idx.BuildSearchables(ctx, e.plugins.All(), e.session.PluginManagementMode)
	ranked := search.Rank(query, searchables, search.Config{
		DiversityDecay:      cfg.Search.DiversityDecay,
		MaxResultsPerPlugin: cfg.Search.MaxResultsPerPlugin,
		MaxDisplayedResults: cfg.Search.MaxDisplayedResults,
		PluginRankingBonus:  cfg.Search.PluginRankingBonus,
	})
	items := e.resolveSearchableItems(ranked)
	e.session.cached.results = items
	return []Update{Results{Items: items}}
}

// resolveSearchableItems turns ranked Searchables into displayable
// ResultItems: a plugin source becomes a synthetic "open plugin" entry, an
// indexed-item source is fetched from the store (and has its composite
// score and preview sanitized).
func (e *Engine) resolveSearchableItems(ranked []search.Scored) []types.ResultItem {
	items := make([]types.ResultItem, 0, len(ranked))
	for _, sc := range ranked {
		switch src := sc.Searchable.Source.(type) {
		case search.PluginSource:
			plugin, ok := e.plugins.Get(src.PluginID)
			if !ok {
				continue
			}
			if sc.Searchable.IsHistoryTerm {
				items = append(items, types.ResultItem{
					ID: idPlugin, Name: sc.Searchable.Name, ResultType: types.ResultTypeRecent,
					CompositeScore: sc.CompositeScore,
				})
				continue
			}
			items = append(items, types.ResultItem{
				ID: idPlugin, Name: plugin.Manifest.Name, Icon: plugin.Manifest.Icon,
				ResultType: types.ResultTypePlugin, CompositeScore: sc.CompositeScore,
			})
		case search.IndexedItemSource:
			item, ok := e.idx.GetItem(src.PluginID, src.ItemID)
			if !ok {
				continue
			}
			ri := item.Item
			ri.CompositeScore = sc.CompositeScore
			types.SanitizePreview(ri.Preview)
			items = append(items, ri)
		}
	}
	return items
}

// openPlugin implements spec §4.1's plugin-open sequence.
func (e *Engine) openPlugin(ctx context.Context, pluginID, initialQuery string) []Update {
	plugin, ok := e.plugins.Get(pluginID)
	if !ok {
		return []Update{Error{Message: "unknown plugin: " + pluginID}}
	}

	if e.session.ActivePlugin != nil {
		e.broker.CloseSession(e.session.ActivePlugin.SessionToken)
	}

	token := e.broker.NextSessionToken()
	e.session.ActivePlugin = &ActivePlugin{ID: plugin.ID, Name: plugin.Manifest.Name, Icon: plugin.Manifest.Icon, SessionToken: token}
	e.session.InputMode = plugin.EffectiveInputMode()
	e.session.NavigationDepth = 0

	updates := []Update{
		PluginActivated{PluginID: plugin.ID, Name: plugin.Manifest.Name, Icon: plugin.Manifest.Icon},
		InputModeChanged{Mode: e.session.InputMode},
	}

	if err := e.broker.OpenSession(plugin, token); err != nil {
		return append(updates, Error{PluginID: plugin.ID, Message: err.Error()})
	}

	if initialQuery != "" {
		e.session.setPendingInitialQuery(initialQuery)
		updates = append(updates, ClearInput{})
	} else {
		updates = append(updates, ClearInput{})
	}

	resp := e.sendToActivePlugin(ctx, broker.Request{Step: broker.StepInitial, Query: initialQuery})
	return append(updates, resp...)
}

// handleItemSelected implements both selection policies from spec §4.1.
func (e *Engine) handleItemSelected(ctx context.Context, ev ItemSelected) []Update {
	if e.session.ActivePlugin != nil {
		return e.selectWithActivePlugin(ctx, ev)
	}
	return e.selectWithoutActivePlugin(ctx, ev)
}

func (e *Engine) selectWithActivePlugin(ctx context.Context, ev ItemSelected) []Update {
	action := ev.Action
	updates := e.sendToActivePlugin(ctx, broker.Request{
		Step:     broker.StepAction,
		Selected: &broker.Selected{ID: ev.ID},
		Action:   action,
	})

	e.idx.RecordExecutionWithItem(e.session.ActivePlugin.ID, ev.ID, types.ExecutionContext{
		SearchTerm:        e.session.Query,
		LaunchedFromEmpty: e.session.Query == "",
	}, types.FrecencyModeItem, nil)

	entryPoint, _ := jsonMarshal(map[string]any{"step": "action", "selected": map[string]string{"id": ev.ID}, "action": action})
	e.idx.WithItem(e.session.ActivePlugin.ID, ev.ID, func(ii *types.IndexItem) {
		ii.Item.EntryPoint = entryPoint
	})

	return updates
}

func (e *Engine) selectWithoutActivePlugin(ctx context.Context, ev ItemSelected) []Update {
	switch {
	case ev.ID == idPlugin && ev.PluginID != "":
		return e.openPlugin(ctx, ev.PluginID, "")
	case strings.HasPrefix(ev.ID, prefixPattern):
		pluginID := strings.TrimPrefix(ev.ID, prefixPattern)
		return e.openPlugin(ctx, pluginID, e.session.Query)
	default:
		if plugin, ok := e.plugins.Get(ev.ID); ok {
			return e.openPlugin(ctx, plugin.ID, "")
		}
		return e.replayIndexedItem(ctx, ev)
	}
}

// replayIndexedItem resolves ev as an indexed-item reference, recording
// execution and replaying its entry_point by synthesizing an ItemSelected
// against the owning plugin (spec §4.1 selection policy (d)).
func (e *Engine) replayIndexedItem(ctx context.Context, ev ItemSelected) []Update {
	pluginID := ev.PluginID
	var item types.IndexItem
	var found bool
	if pluginID != "" {
		item, found = e.idx.GetItem(pluginID, ev.ID)
	}
	if !found {
		for _, p := range e.plugins.All() {
			if it, ok := e.idx.GetItem(p.ID, ev.ID); ok {
				pluginID, item, found = p.ID, it, true
				break
			}
		}
	}
	if !found {
		return []Update{Error{Message: "unknown item: " + ev.ID}}
	}

	e.idx.RecordExecutionWithItem(pluginID, ev.ID, types.ExecutionContext{
		SearchTerm:        e.session.Query,
		LaunchedFromEmpty: e.session.Query == "",
	}, types.FrecencyModeItem, &item.Item)

	if len(item.Item.EntryPoint) == 0 {
		action := types.Action{ID: "open"}
		if len(item.Item.Actions) > 0 {
			action = item.Item.Actions[0]
		}
		return []Update{Execute{Action: action}}
	}

	var ep entryPointPayload
	if err := json.Unmarshal(item.Item.EntryPoint, &ep); err != nil {
		return []Update{Error{PluginID: pluginID, Message: "malformed entry_point for " + ev.ID}}
	}
	selectedID := ep.Selected.ID
	if selectedID == "" {
		selectedID = ev.ID
	}

	updates := e.openPlugin(ctx, pluginID, "")
	updates = append(updates, e.sendToActivePlugin(ctx, broker.Request{
		Step:     broker.StepAction,
		Selected: &broker.Selected{ID: selectedID},
		Action:   ep.Action,
	})...)
	return updates
}

// entryPointPayload mirrors the wire shape selectWithActivePlugin writes back
// onto an item's entry_point: {"step":"action","selected":{"id":"..."},
// "action":"..."}. Replaying an item means parsing this back out and
// resending the same action, not a bare id with no action (spec §4.1/§8).
type entryPointPayload struct {
	Step     string `json:"step"`
	Selected struct {
		ID string `json:"id"`
	} `json:"selected"`
	Action string `json:"action"`
}
