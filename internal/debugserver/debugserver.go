// Package debugserver runs the daemon's optional, loopback-only HTTP
// introspection endpoint (SPEC_FULL §4.6 [ADDED]) -- a `gin` server in the
// same read-only-status-endpoint style as the teacher's monitoring
// handlers, scoped down to three routes and never bound beyond localhost.
package debugserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hamr-launcher/hamrd/internal/index"
	"github.com/hamr-launcher/hamrd/internal/logging"
	"github.com/hamr-launcher/hamrd/internal/pluginmgr"
)

type Server struct {
	addr    string
	plugins *pluginmgr.Manager
	idx     *index.Store
	http    *http.Server
}

func New(addr string, plugins *pluginmgr.Manager, idx *index.Store) *Server {
	return &Server{addr: addr, plugins: plugins, idx: idx}
}

// Start runs the server in a background goroutine; it is a no-op if addr
// is empty (the default -- off unless observability.debug_http_addr is
// set, per SPEC_FULL §6).
func (s *Server) Start() {
	if s.addr == "" {
		return
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealthz)
	r.GET("/stats", s.handleStats)
	r.GET("/plugins", s.handlePlugins)

	s.http = &http.Server{Addr: s.addr, Handler: r}
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.RPC().Warn().Err(err).Msg("debugserver: listen failed")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleStats(c *gin.Context) {
	stats := s.idx.Stats()
	c.JSON(http.StatusOK, gin.H{
		"totalPlugins":  stats.TotalPlugins,
		"totalItems":    stats.TotalItems,
		"itemsByPlugin": stats.ItemsByPlugin,
	})
}

func (s *Server) handlePlugins(c *gin.Context) {
	plugins := s.plugins.All()
	out := make([]gin.H, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, gin.H{"id": p.ID, "name": p.Manifest.Name, "hidden": p.Manifest.Hidden})
	}
	c.JSON(http.StatusOK, out)
}
