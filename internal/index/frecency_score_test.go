package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hamr-launcher/hamrd/internal/types"
)

func TestCalculateFrecencyZeroForUnusedItem(t *testing.T) {
	item := types.IndexItem{Item: types.ResultItem{ID: "a"}, Frecency: types.NewFrecency()}
	assert.Zero(t, CalculateFrecency(item))
}

func TestCalculateFrecencyIncreasesWithCount(t *testing.T) {
	now := time.Now()
	few := types.IndexItem{Frecency: types.Frecency{Count: 1, LastUsedMs: now.UnixMilli()}}
	many := types.IndexItem{Frecency: types.Frecency{Count: 50, LastUsedMs: now.UnixMilli()}}
	assert.Greater(t, CalculateFrecency(many), CalculateFrecency(few))
}

func TestCalculateFrecencyDecaysWithAge(t *testing.T) {
	now := time.Now()
	recent := types.IndexItem{Frecency: types.Frecency{Count: 5, LastUsedMs: now.UnixMilli()}}
	stale := types.IndexItem{Frecency: types.Frecency{Count: 5, LastUsedMs: now.Add(-30 * 24 * time.Hour).UnixMilli()}}
	assert.Greater(t, CalculateFrecency(recent), CalculateFrecency(stale))
}
