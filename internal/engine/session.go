package engine

import (
	"time"

	"github.com/hamr-launcher/hamrd/internal/types"
)

// ActivePlugin is the engine's view of the plugin currently open in the
// launcher, per spec §3 "active_plugin ∈ Option<{...}>".
type ActivePlugin struct {
	ID              string
	Name            string
	Icon            string
	SessionToken    uint64
	LastSelectedItem string
	Context         string
}

// controlThrottle is the single last-key/last-record-ms pair from spec §3
// -- not a per-key map, since only one slider/switch is ever being
// continuously adjusted by a user at a time.
type controlThrottle struct {
	lastKey      string
	lastRecordMs int64
}

// throttleWindow is the 2s continuous-control throttle window (spec §4.1).
const throttleWindow = 2 * time.Second

// shouldRecord reports whether a record_execution_with_item call for key
// should actually run, and updates the throttle state as a side effect.
// The RPC call to the plugin is unconditional regardless of this result
// (spec §4.1): only the index write is throttled.
func (c *controlThrottle) shouldRecord(key string, now time.Time) bool {
	nowMs := now.UnixMilli()
	if c.lastKey == key && nowMs-c.lastRecordMs < throttleWindow.Milliseconds() {
		c.lastRecordMs = nowMs
		return false
	}
	c.lastKey = key
	c.lastRecordMs = nowMs
	return true
}

// cachedState is the snapshot State Restoration replays verbatim when the
// launcher reopens within the restore window (spec §4.1).
type cachedState struct {
	results     []types.ResultItem
	placeholder string
	context     string
	prompt      string
	active      *ActivePlugin
	inputMode   types.InputMode
}

// SessionState is the singleton per-daemon state the engine mutates under
// its single write-lock (spec §3, §5). The zero value is not directly
// usable; construct with newSessionState.
type SessionState struct {
	IsOpen             bool
	Query              string
	ActivePlugin       *ActivePlugin
	NavigationDepth    int
	InputMode          types.InputMode
	Busy               bool
	LastCloseInstant   time.Time
	PluginManagementMode bool

	cached       cachedState
	cachedRecent []types.ResultItem

	pendingInitialQuery *string
	pendingBack         bool

	throttle controlThrottle
}

func newSessionState() *SessionState {
	return &SessionState{InputMode: types.InputModeRealtime}
}

// setPendingInitialQuery arms the pending-initial-query race fix (spec
// §4.1): the next QueryChanged carrying an empty query substitutes query
// instead of being applied literally.
func (s *SessionState) setPendingInitialQuery(query string) {
	q := query
	s.pendingInitialQuery = &q
}

// popPendingInitialQuery consumes the pending value if one is armed and
// the incoming query is empty, satisfying the §8 invariant "consumed at
// most once and only when the incoming query is empty" structurally.
func (s *SessionState) popPendingInitialQuery(incomingQuery string) (string, bool) {
	if s.pendingInitialQuery == nil || incomingQuery != "" {
		return "", false
	}
	q := *s.pendingInitialQuery
	s.pendingInitialQuery = nil
	return q, true
}

// hasRestorableState reports whether any of the four caches named in spec
// §4.1's state-restoration rule is non-empty.
func (s *SessionState) hasRestorableState() bool {
	return s.ActivePlugin != nil || s.Query != "" || len(s.cached.results) > 0 || s.cached.context != ""
}
