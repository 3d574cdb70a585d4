package types

import "time"

// FrecencyMode selects whether usage is attributed to the item or to the
// owning plugin as a whole (manifest's frecency-mode).
type FrecencyMode string

const (
	FrecencyModePlugin FrecencyMode = "plugin"
	FrecencyModeItem   FrecencyMode = "item"
)

// ExecutionContext carries the situational data a Record call folds into
// the histograms. SearchTerm is the query that led to the selection (may
// be empty for an empty-query launch).
type ExecutionContext struct {
	SearchTerm        string
	LaunchedFromEmpty bool
	Workspace         string
	Monitor           string
	DisplayConfig     string
	PrecedingItemID   string // the item id launched immediately before this one, if any
	SessionDuration   time.Duration
	Now               time.Time
}

// Record bumps Count and LastUsedMs and folds ctx into the histograms, per
// spec §4.4 record_execution. Count strictly increases by one and
// LastUsedMs is non-decreasing, satisfying the §8 invariant unconditionally.
func (f *Frecency) Record(ctx ExecutionContext) {
	now := ctx.Now
	if now.IsZero() {
		now = time.Now()
	}
	nowMs := now.UnixMilli()
	prevLastUsedMs := f.LastUsedMs

	f.Count++
	if nowMs > f.LastUsedMs {
		f.LastUsedMs = nowMs
	}
	f.addRecentTerm(ctx.SearchTerm)

	hour := now.Hour()
	if hour >= 0 && hour < len(f.HourHistogram) {
		f.HourHistogram[hour]++
	}
	weekday := int(now.Weekday())
	if weekday >= 0 && weekday < len(f.WeekdayHistogram) {
		f.WeekdayHistogram[weekday]++
	}

	// The streak comparison is derived from the already-persisted LastUsedMs
	// rather than a separate tracked field, so it survives a Save/Load cycle
	// (daemon restart) instead of resetting to 1 on the next Record call.
	day := dayNumber(now)
	switch {
	case prevLastUsedMs == 0:
		f.ConsecutiveDays = 1
	case day == dayNumber(time.UnixMilli(prevLastUsedMs)):
		// same day, streak unchanged
	case day == dayNumber(time.UnixMilli(prevLastUsedMs))+1:
		f.ConsecutiveDays++
	default:
		f.ConsecutiveDays = 1
	}

	if ctx.LaunchedFromEmpty {
		f.LaunchFromEmpty++
	}
	f.bumpMap(&f.WorkspaceHist, ctx.Workspace)
	f.bumpMap(&f.MonitorHist, ctx.Monitor)
	f.bumpMap(&f.DisplayConfigHist, ctx.DisplayConfig)
	f.bumpMap(&f.LaunchedAfter, ctx.PrecedingItemID)

	if ctx.SessionDuration > 0 {
		bucket := sessionDurationBucket(ctx.SessionDuration)
		if bucket >= 0 && bucket < len(f.SessionDuration) {
			f.SessionDuration[bucket]++
		}
	}
}

// dayNumber gives t a monotonically increasing per-day ordinal that is safe
// to compare across year boundaries (unlike YearDay alone). Normalized to
// UTC so the result only depends on the instant, not on the Location the
// caller's time.Time happens to carry -- important since one side of the
// streak comparison comes back from a bare Unix-millis int64 via
// time.UnixMilli, which always yields Local.
func dayNumber(t time.Time) int {
	t = t.UTC()
	return t.YearDay() + t.Year()*400
}

// sessionDurationBucket maps a duration onto one of 8 exponential buckets:
// <10s, <30s, <1m, <5m, <15m, <1h, <4h, >=4h.
func sessionDurationBucket(d time.Duration) int {
	bounds := []time.Duration{
		10 * time.Second, 30 * time.Second, time.Minute, 5 * time.Minute,
		15 * time.Minute, time.Hour, 4 * time.Hour,
	}
	for i, b := range bounds {
		if d < b {
			return i
		}
	}
	return len(bounds)
}
