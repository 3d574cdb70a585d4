package index

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hamr-launcher/hamrd/internal/logging"
	"github.com/hamr-launcher/hamrd/internal/search"
)

// searchablesTTL bounds how long a cached BuildSearchables result for one
// plugin is trusted before a rebuild is forced regardless of hit/miss.
const searchablesTTL = 2 * time.Second

// SearchablesCache is an optional read-through cache in front of
// BuildSearchables, keyed by plugin id. It is never a source of truth: a
// disabled or unreachable Redis degrades silently to calling through,
// mirroring the teacher's cache.Config{Enabled:false} no-op path.
type SearchablesCache struct {
	client *redis.Client
}

// NewSearchablesCache returns a disabled cache if addr is empty, otherwise
// a client pointed at addr. Connectivity is not verified here; the first
// failed command just falls back to the uncached path.
func NewSearchablesCache(addr string) *SearchablesCache {
	if addr == "" {
		return &SearchablesCache{}
	}
	return &SearchablesCache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (c *SearchablesCache) Enabled() bool { return c != nil && c.client != nil }

func cacheKey(plugin string) string { return "hamrd:searchables:" + plugin }

// GetOrBuild returns the cached searchables for plugin if present and
// unexpired, otherwise calls build, stores the result with searchablesTTL,
// and returns it. Any Redis error (including "disabled") just runs build
// directly without caching the result.
func (c *SearchablesCache) GetOrBuild(ctx context.Context, plugin string, build func() []search.Searchable) []search.Searchable {
	if !c.Enabled() {
		return build()
	}

	raw, err := c.client.Get(ctx, cacheKey(plugin)).Bytes()
	if err == nil {
		var cached []search.Searchable
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached
		}
	}
	if err != nil && err != redis.Nil {
		logging.Index().Debug().Err(err).Str("plugin", plugin).Msg("searchables cache: get failed, rebuilding")
	}

	result := build()
	if data, err := json.Marshal(result); err == nil {
		if err := c.client.Set(ctx, cacheKey(plugin), data, searchablesTTL).Err(); err != nil {
			logging.Index().Debug().Err(err).Str("plugin", plugin).Msg("searchables cache: set failed")
		}
	}
	return result
}

// Invalidate drops the cached entry for plugin, called whenever
// UpdateFull/UpdateIncremental change that plugin's items so a stale
// search result set can't outlive the 2s TTL unnecessarily.
func (c *SearchablesCache) Invalidate(ctx context.Context, plugin string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, cacheKey(plugin)).Err(); err != nil {
		logging.Index().Debug().Err(err).Str("plugin", plugin).Msg("searchables cache: invalidate failed")
	}
}
