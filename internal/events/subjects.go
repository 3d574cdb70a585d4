// Package events optionally publishes a subset of engine updates onto a
// NATS subject so an external dashboard or automation subscriber can watch
// plugin status/ambient changes without holding the control socket open
// (SPEC_FULL §4.6 [ADDED]). Disabled by default -- NewPublisher returns a
// no-op stub unless Config.URL (the observability.nats_url config key) is
// set, exactly like the teacher's events.NewPublisher(events.Config{}) stub
// mode.
package events

// NATS subject constants, same streamspace.<domain>.<action> shape the
// teacher uses, renamed to this daemon's domain.
const (
	SubjectPluginStatus    = "hamr.plugin.status"
	SubjectPluginAmbient   = "hamr.plugin.ambient"
	SubjectPluginActivated = "hamr.plugin.activated"
)
