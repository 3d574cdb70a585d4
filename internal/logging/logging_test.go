package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitializeSetsGlobalLevel(t *testing.T) {
	Initialize("debug", false)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitializeFallsBackToInfoOnInvalidLevel(t *testing.T) {
	Initialize("not-a-real-level", false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestComponentLoggersAreTaggedIndependently(t *testing.T) {
	Initialize("info", false)
	assert.NotNil(t, Engine())
	assert.NotNil(t, Broker())
	assert.NotNil(t, RPC())
}
