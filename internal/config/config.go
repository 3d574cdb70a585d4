// Package config loads and hot-reloads the daemon's JSON configuration
// file, $XDG_CONFIG_HOME/hamr/config.json per spec §6.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ActionBarHint maps an exact query prefix to a plugin id, per spec §6.
type ActionBarHint struct {
	Prefix string `json:"prefix"`
	Plugin string `json:"plugin"`
}

// ClickOutsideAction controls what a click outside the launcher window does
// -- out of this daemon's scope to execute, but the engine still needs the
// value to tell the UI which behavior to render.
type ClickOutsideAction string

const (
	ClickOutsideClose     ClickOutsideAction = "close"
	ClickOutsideMinimize  ClickOutsideAction = "minimize"
	ClickOutsideIntuitive ClickOutsideAction = "intuitive"
)

type SearchConfig struct {
	DiversityDecay       float64            `json:"diversity_decay"`
	MaxResultsPerPlugin  int                `json:"max_results_per_plugin"`
	MaxDisplayedResults  int                `json:"max_displayed_results"`
	PluginRankingBonus   map[string]float64 `json:"plugin_ranking_bonus,omitempty"`
}

type BehaviorConfig struct {
	ClickOutsideAction    ClickOutsideAction `json:"click_outside_action"`
	StateRestoreWindowMs  int64              `json:"state_restore_window_ms"`
}

// CacheConfig enables the §4.4 optional ephemeral searchables cache.
type CacheConfig struct {
	RedisAddr string `json:"redis_addr,omitempty"`
}

// ObservabilityConfig enables the ambient-only additions from SPEC_FULL §6.
type ObservabilityConfig struct {
	NATSURL        string `json:"nats_url,omitempty"`
	DebugHTTPAddr  string `json:"debug_http_addr,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Pretty bool   `json:"pretty"`
}

type PluginsConfig struct {
	ManifestYAML bool `json:"manifest_yaml"`
}

// Config is the full daemon configuration, defaults filled in by Default.
type Config struct {
	Search        SearchConfig        `json:"search"`
	Behavior      BehaviorConfig      `json:"behavior"`
	ActionBarHints []ActionBarHint    `json:"action_bar_hints,omitempty"`
	Cache         CacheConfig         `json:"cache"`
	Observability ObservabilityConfig `json:"observability"`
	Log           LogConfig           `json:"log"`
	Plugins       PluginsConfig       `json:"plugins"`
}

// Default returns the configuration a daemon would run with if no config
// file is present, matching the documented defaults in spec §6.
func Default() Config {
	return Config{
		Search: SearchConfig{
			DiversityDecay:      0.7,
			MaxResultsPerPlugin: 8,
			MaxDisplayedResults: 40,
		},
		Behavior: BehaviorConfig{
			ClickOutsideAction:   ClickOutsideClose,
			StateRestoreWindowMs: 5000,
		},
		Log: LogConfig{Level: "info", Pretty: false},
		Plugins: PluginsConfig{ManifestYAML: true},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/hamr/config.json, falling back to
// ~/.config/hamr/config.json when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, "hamr", "config.json")
}

// Load reads and parses the config file at path, returning Default() merged
// with whatever was present. A missing file is not an error -- it is the
// common case on first run.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}
