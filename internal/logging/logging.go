// Package logging sets up the daemon's global zerolog logger and hands out
// component-scoped sub-loggers, the same pattern the teacher's
// internal/logger package uses for its HTTP server.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log is the global logger instance, configured by Initialize.
var Log zerolog.Logger

// Initialize sets up the global logger with the configured level and
// format. Pretty output is for interactive development; JSON output is the
// default so the daemon's stdout stays machine-parseable when run under a
// supervisor.
func Initialize(level string, pretty bool) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	}

	Log = log.With().Str("service", "hamrd").Logger()
	Log.Info().Str("level", logLevel.String()).Bool("pretty", pretty).Msg("logger initialized")
}

func component(name string) *zerolog.Logger {
	l := Log.With().Str("component", name).Logger()
	return &l
}

// Engine, Broker, Index, Search, RPC, PluginMgr, and Config each return a
// logger tagged with their component name, mirroring the teacher's
// per-subsystem logger accessors (Security(), WebSocket(), Database(), ...).
func Engine() *zerolog.Logger    { return component("engine") }
func Broker() *zerolog.Logger    { return component("broker") }
func Index() *zerolog.Logger     { return component("index") }
func Search() *zerolog.Logger    { return component("search") }
func RPC() *zerolog.Logger       { return component("rpc") }
func PluginMgr() *zerolog.Logger { return component("pluginmgr") }
func Config() *zerolog.Logger    { return component("config") }
