package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hamr-launcher/hamrd/internal/broker"
	"github.com/hamr-launcher/hamrd/internal/config"
	"github.com/hamr-launcher/hamrd/internal/index"
	"github.com/hamr-launcher/hamrd/internal/logging"
	"github.com/hamr-launcher/hamrd/internal/pluginmgr"
	"github.com/hamr-launcher/hamrd/internal/search"
	"github.com/hamr-launcher/hamrd/internal/types"
)

// Reserved identifiers from spec §4.1.
const (
	idPlugin        = "__plugin__"
	idBack          = "__back__"
	idFormCancel    = "__form_cancel__"
	idDismiss       = "__dismiss__"
	prefixPattern   = "__pattern_match__:"
	prefixMatchPrev = "__match_preview__:"
	pluginMgmtQuery = "/"
)

// Engine is the daemon's single writer over SessionState (spec §5): calls to
// Process are serialized by mu, which is held for the whole call, including
// the wait for any plugin response that call requests.
type Engine struct {
	mu      sync.Mutex
	session *SessionState

	plugins *pluginmgr.Manager
	idx     *index.Store
	broker  *broker.Broker

	cfg   config.Config
	cfgMu sync.RWMutex
}

func New(plugins *pluginmgr.Manager, idx *index.Store, br *broker.Broker, cfg config.Config) *Engine {
	return &Engine{
		session: newSessionState(),
		plugins: plugins,
		idx:     idx,
		broker:  br,
		cfg:     cfg,
	}
}

// SetConfig installs a freshly reloaded configuration, per spec §6/§7
// (ConfigError: malformed config keeps the prior one -- the watcher never
// calls SetConfig with one).
func (e *Engine) SetConfig(cfg config.Config) {
	e.cfgMu.Lock()
	e.cfg = cfg
	e.cfgMu.Unlock()
}

func (e *Engine) config() config.Config {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.cfg
}

// Process is the engine's single entry point (spec §4.1). It holds mu for
// its duration; any plugin RPC it needs is sent and its response awaited
// inside this call, so a slow plugin keeps mu held until it answers or ctx
// is done.
func (e *Engine) Process(ctx context.Context, ev Event) []Update {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dispatch(ctx, ev)
}

func (e *Engine) dispatch(ctx context.Context, ev Event) []Update {
	switch ev := ev.(type) {
	case QueryChanged:
		return e.handleQueryChanged(ctx, ev.Query)
	case QuerySubmitted:
		return e.handleQueryChanged(ctx, ev.Query)
	case ItemSelected:
		return e.handleItemSelected(ctx, ev)
	case Back:
		return e.handleBack(ctx)
	case Cancel:
		return e.handleCancel(ctx)
	case OpenPlugin:
		return e.openPlugin(ctx, ev.PluginID, "")
	case ClosePlugin:
		return e.handleClosePlugin()
	case LauncherOpened:
		return e.handleLauncherOpened(ctx)
	case LauncherClosed:
		return e.handleLauncherClosed()
	case RefreshIndex:
		return e.handleRefreshIndex()
	case SliderChanged:
		return e.handleContinuousControl(ctx, ev.ItemID, StepValue(ev.Value))
	case SwitchToggled:
		return e.handleContinuousControl(ctx, ev.ItemID, StepValue(boolToFloat(ev.Value)))
	case SetContext:
		e.session.cached.context = ev.Context
		return []Update{ContextChanged{Context: ev.Context}}
	case FormSubmitted, FormCancelled, FormFieldChanged, AmbientAction, DismissAmbient, PluginActionTriggered:
		return e.forwardToActivePlugin(ctx, ev)
	default:
		return nil
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// StepValue is a convenience alias used by handleContinuousControl to
// carry a slider/switch value through to the plugin request's Value field.
type StepValue float64

func (e *Engine) handleClosePlugin() []Update {
	if e.session.ActivePlugin == nil {
		return nil
	}
	e.broker.CloseSession(e.session.ActivePlugin.SessionToken)
	e.session.ActivePlugin = nil
	e.session.NavigationDepth = 0
	return []Update{PluginDeactivated{}}
}

func (e *Engine) handleRefreshIndex() []Update {
	diff := e.plugins.RescanWithPlugins()
	updates := []Update{}
	for _, id := range diff.Added {
		updates = append(updates, PluginStatusUpdate{PluginID: id})
	}
	return updates
}

func (e *Engine) handleBack(ctx context.Context) []Update {
	if e.session.ActivePlugin == nil {
		return nil
	}
	e.session.pendingBack = true
	return e.sendToActivePlugin(ctx, broker.Request{Step: broker.StepAction, Selected: &broker.Selected{ID: idBack}})
}

func (e *Engine) handleCancel(ctx context.Context) []Update {
	if e.session.ActivePlugin != nil {
		return e.handleClosePlugin()
	}
	e.session.Query = ""
	return []Update{ClearInput{}}
}

func (e *Engine) forwardToActivePlugin(ctx context.Context, ev Event) []Update {
	if e.session.ActivePlugin == nil {
		return nil
	}
	req := broker.Request{Step: broker.StepForm, Context: e.session.ActivePlugin.Context}
	switch ev := ev.(type) {
	case FormSubmitted:
		req.FormData = ev.FormData
	case FormCancelled:
		req.Selected = &broker.Selected{ID: idFormCancel}
	case AmbientAction:
		req.Step = broker.StepAction
		req.Selected = &broker.Selected{ID: ev.ID}
	case DismissAmbient:
		req.Step = broker.StepAction
		req.Selected = &broker.Selected{ID: idDismiss}
	case PluginActionTriggered:
		req.Step = broker.StepAction
		req.Selected = &broker.Selected{ID: ev.ItemID}
		req.Action = ev.Action
	}
	return e.sendToActivePlugin(ctx, req)
}

func (e *Engine) handleLauncherOpened(ctx context.Context) []Update {
	e.session.IsOpen = true
	restoreWindow := time.Duration(e.config().Behavior.StateRestoreWindowMs) * time.Millisecond
	if restoreWindow <= 0 {
		restoreWindow = 5 * time.Second
	}
	if !e.session.LastCloseInstant.IsZero() && time.Since(e.session.LastCloseInstant) < restoreWindow && e.session.hasRestorableState() {
		return e.replayCachedState()
	}
	if e.session.ActivePlugin != nil {
		e.handleClosePlugin()
	}
	e.session.cachedRecent = nil
	e.session.cached = cachedState{}
	return []Update{Show{}, Results{Items: e.recentOrCachedResults(), Placeholder: ""}}
}

func (e *Engine) replayCachedState() []Update {
	updates := []Update{Show{}}
	c := e.session.cached
	if c.active != nil {
		updates = append(updates, PluginActivated{PluginID: c.active.ID, Name: c.active.Name, Icon: c.active.Icon})
	}
	updates = append(updates, Results{Items: c.results, Placeholder: c.placeholder})
	if c.inputMode != "" {
		updates = append(updates, InputModeChanged{Mode: c.inputMode})
	}
	if c.context != "" {
		updates = append(updates, ContextChanged{Context: c.context})
	}
	if c.prompt != "" {
		updates = append(updates, Prompt{Text: c.prompt})
	}
	return updates
}

func (e *Engine) handleLauncherClosed() []Update {
	e.session.IsOpen = false
	e.session.LastCloseInstant = time.Now()
	if e.session.ActivePlugin != nil {
		e.session.cached.active = e.session.ActivePlugin
		e.session.cached.inputMode = e.session.InputMode
		e.session.cached.context = e.session.ActivePlugin.Context
	}
	go e.rebuildCachedRecent()
	return nil
}

func (e *Engine) rebuildCachedRecent() {
	cfg := e.config()
	searchables := e.idx.BuildSearchables(context.Background(), e.plugins.All(), false)
	ranked := search.Rank("", searchables, search.Config{
		DiversityDecay:      cfg.Search.DiversityDecay,
		MaxResultsPerPlugin: cfg.Search.MaxResultsPerPlugin,
		MaxDisplayedResults: cfg.Search.MaxDisplayedResults,
		PluginRankingBonus:  cfg.Search.PluginRankingBonus,
	})
	items := e.resolveSearchableItems(ranked)

	e.mu.Lock()
	e.session.cachedRecent = items
	e.mu.Unlock()
}

func (e *Engine) recentOrCachedResults() []types.ResultItem {
	if e.session.cachedRecent != nil {
		return e.session.cachedRecent
	}
	return nil
}

func (s *SessionState) recentSnapshot() []types.ResultItem {
	return s.cachedRecent
}

// sendToActivePlugin sends req to the active plugin's session and folds the
// response into updates; it is called after mu is already held by Process,
// so it blocks on the plugin synchronously here (short RPCs only -- the
// 150ms match probe is the only one with an explicit deadline per spec).
// Longer-lived waits are avoided by construction: every step but match is a
// single request/response pair over an already-open connection.
func (e *Engine) sendToActivePlugin(ctx context.Context, req broker.Request) []Update {
	if e.session.ActivePlugin == nil {
		return nil
	}
	plugin, ok := e.plugins.Get(e.session.ActivePlugin.ID)
	if !ok {
		return []Update{Error{Message: "plugin no longer available"}}
	}
	req.Session = e.session.ActivePlugin.SessionToken
	req.Context = e.session.ActivePlugin.Context
	ch, err := e.broker.Send(ctx, plugin, e.session.ActivePlugin.SessionToken, req)
	if err != nil {
		return []Update{Error{PluginID: plugin.ID, Message: err.Error()}}
	}
	select {
	case resp, ok := <-ch:
		if !ok {
			return []Update{Error{PluginID: plugin.ID, Message: "plugin connection closed"}}
		}
		return e.translate(plugin.ID, resp)
	case <-ctx.Done():
		return []Update{Error{PluginID: plugin.ID, Message: "request cancelled"}}
	}
}

// HandlePluginPush folds an unsolicited background-daemon push (spec §4.3)
// into updates, exactly like a direct plugin response -- it goes through
// the same translate path so a status/ambient push from a daemon updates
// session state identically to one received as a Send reply.
func (e *Engine) HandlePluginPush(pluginID string, resp broker.Response) []Update {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.translate(pluginID, resp)
}

func (e *Engine) handleContinuousControl(ctx context.Context, itemID string, value StepValue) []Update {
	if e.session.ActivePlugin == nil {
		return nil
	}
	updates := e.sendToActivePlugin(ctx, broker.Request{
		Step:     broker.StepAction,
		Selected: &broker.Selected{ID: itemID},
		Value:    floatToRaw(float64(value)),
	})

	if e.session.throttle.shouldRecord(e.session.ActivePlugin.ID+":"+itemID, time.Now()) {
		e.idx.RecordExecutionWithItem(e.session.ActivePlugin.ID, itemID, types.ExecutionContext{
			SearchTerm: e.session.Query,
			Now:        time.Now(),
		}, types.FrecencyModeItem, nil)
	}
	return updates
}

func floatToRaw(v float64) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
