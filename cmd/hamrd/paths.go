package main

import (
	"os"
	"path/filepath"

	"github.com/hamr-launcher/hamrd/internal/config"
)

// resolvedPaths bundles every on-disk location the daemon needs, derived
// from XDG base directories the same way config.DefaultPath is.
type resolvedPaths struct {
	configPath string
	indexPath  string
	builtinDir string
	userDir    string
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".local/share"
	}
	return filepath.Join(home, ".local", "share")
}

func resolvePaths() resolvedPaths {
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}

	builtinDir := os.Getenv("HAMR_BUILTIN_PLUGINS_DIR")
	if builtinDir == "" {
		builtinDir = "/usr/share/hamr/plugins"
	}
	userDir := os.Getenv("HAMR_PLUGINS_DIR")
	if userDir == "" {
		userDir = filepath.Join(dataHome(), "hamr", "plugins")
	}

	return resolvedPaths{
		configPath: cfgPath,
		indexPath:  filepath.Join(dataHome(), "hamr", "index.json"),
		builtinDir: builtinDir,
		userDir:    userDir,
	}
}
