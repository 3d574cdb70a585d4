package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPendingInitialQueryConsumedOnceWhenEmpty(t *testing.T) {
	s := newSessionState()
	s.setPendingInitialQuery("1+1")

	// A non-empty incoming query must not consume it.
	_, ok := s.popPendingInitialQuery("something")
	assert.False(t, ok)

	got, ok := s.popPendingInitialQuery("")
	assert.True(t, ok)
	assert.Equal(t, "1+1", got)

	// Second pop must not return the value again.
	_, ok = s.popPendingInitialQuery("")
	assert.False(t, ok)
}

func TestPendingInitialQueryUnsetByDefault(t *testing.T) {
	s := newSessionState()
	_, ok := s.popPendingInitialQuery("")
	assert.False(t, ok)
}

func TestControlThrottleFirstCallAlwaysRecords(t *testing.T) {
	var c controlThrottle
	now := time.Now()
	assert.True(t, c.shouldRecord("plugin:item", now))
}

func TestControlThrottleSuppressesWithinWindow(t *testing.T) {
	var c controlThrottle
	now := time.Now()
	assert.True(t, c.shouldRecord("plugin:item", now))
	assert.False(t, c.shouldRecord("plugin:item", now.Add(500*time.Millisecond)))
	assert.False(t, c.shouldRecord("plugin:item", now.Add(1900*time.Millisecond)))
}

func TestControlThrottleRecordsAgainAfterWindowElapses(t *testing.T) {
	var c controlThrottle
	now := time.Now()
	assert.True(t, c.shouldRecord("plugin:item", now))
	assert.True(t, c.shouldRecord("plugin:item", now.Add(2100*time.Millisecond)))
}

func TestControlThrottleTracksKeysIndependently(t *testing.T) {
	var c controlThrottle
	now := time.Now()
	assert.True(t, c.shouldRecord("plugin:slider-a", now))
	assert.True(t, c.shouldRecord("plugin:slider-b", now.Add(100*time.Millisecond)))
}

func TestHasRestorableState(t *testing.T) {
	s := newSessionState()
	assert.False(t, s.hasRestorableState())

	s.Query = "hello"
	assert.True(t, s.hasRestorableState())
}
