package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamr-launcher/hamrd/internal/engine"
)

func TestNewPublisherWithEmptyURLIsDisabledNoOp(t *testing.T) {
	p, err := NewPublisher(Config{})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.False(t, p.enabled)

	// Every Publish* call must be a safe no-op on a disabled publisher --
	// none of these may panic or block even with no broker reachable.
	p.PublishPluginStatus(engine.PluginStatusUpdate{PluginID: "apps"})
	p.PublishAmbientUpdate(engine.AmbientUpdate{PluginID: "apps"})
	p.PublishPluginActivated(engine.PluginActivated{PluginID: "apps"})
	p.Close()
}

func TestNewPublisherWithUnreachableURLDisablesRatherThanErrors(t *testing.T) {
	p, err := NewPublisher(Config{URL: "nats://127.0.0.1:1"})
	require.NoError(t, err, "connection failure must never be fatal for this optional add-on")
	assert.False(t, p.enabled)
}
