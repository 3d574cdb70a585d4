package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamr-launcher/hamrd/internal/config"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Load and print the effective configuration, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := resolvePaths()
		cfg, err := config.Load(paths.configPath)
		if err != nil {
			return fmt.Errorf("loading %s: %w", paths.configPath, err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}
