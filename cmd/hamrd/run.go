package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamr-launcher/hamrd/internal/broker"
	"github.com/hamr-launcher/hamrd/internal/config"
	"github.com/hamr-launcher/hamrd/internal/debugserver"
	"github.com/hamr-launcher/hamrd/internal/engine"
	"github.com/hamr-launcher/hamrd/internal/events"
	"github.com/hamr-launcher/hamrd/internal/index"
	"github.com/hamr-launcher/hamrd/internal/logging"
	"github.com/hamr-launcher/hamrd/internal/pluginmgr"
	"github.com/hamr-launcher/hamrd/internal/rpc"
)

const shutdownTimeout = 5 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the daemon (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
}

func runDaemon() error {
	paths := resolvePaths()

	cfg, err := config.Load(paths.configPath)
	if err != nil {
		return fmt.Errorf("loading config %s: %w", paths.configPath, err)
	}
	logging.Initialize(cfg.Log.Level, cfg.Log.Pretty)
	log := logging.Engine()
	log.Info().Str("config", paths.configPath).Msg("hamrd starting")

	plugins := pluginmgr.NewManager(paths.builtinDir, paths.userDir, cfg.Plugins.ManifestYAML)
	plugins.Discover()
	plugins.RetryPlatformDetection()

	idx, err := index.Load(paths.indexPath)
	if err != nil {
		log.Warn().Err(err).Msg("index: continuing with an empty store")
	}
	idx.SetCache(index.NewSearchablesCache(cfg.Cache.RedisAddr))

	br := broker.New()
	br.StartWatchdog()
	defer br.Shutdown()

	eng := engine.New(plugins, idx, br, cfg)

	pub, err := events.NewPublisher(events.Config{URL: cfg.Observability.NATSURL})
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	defer pub.Close()

	dbg := debugserver.New(cfg.Observability.DebugHTTPAddr, plugins, idx)
	dbg.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := rpc.NewServer(rpc.SocketPath(), eng, br, plugins, idx, pub, cancel)

	watcher, err := config.NewWatcher(paths.configPath)
	if err != nil {
		log.Warn().Err(err).Msg("config: hot-reload watcher unavailable")
	} else {
		defer watcher.Close()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case newCfg, ok := <-watcher.Changes():
					if !ok {
						return
					}
					eng.SetConfig(newCfg)
					log.Info().Msg("config: reloaded")
				}
			}
		}()
	}

	go index.RunDebouncedSaver(ctx, idx, paths.indexPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("hamrd: shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	serveErr := server.Serve(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := dbg.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("debugserver: shutdown failed")
	}
	if err := idx.Save(paths.indexPath); err != nil {
		log.Error().Err(err).Msg("index: final save on shutdown failed")
	}

	if serveErr != nil {
		return serveErr
	}
	log.Info().Msg("hamrd stopped")
	return nil
}
