package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/hamr-launcher/hamrd/internal/broker"
	"github.com/hamr-launcher/hamrd/internal/engine"
	"github.com/hamr-launcher/hamrd/internal/events"
	"github.com/hamr-launcher/hamrd/internal/herrors"
	"github.com/hamr-launcher/hamrd/internal/index"
	"github.com/hamr-launcher/hamrd/internal/logging"
	"github.com/hamr-launcher/hamrd/internal/pluginmgr"
)

// SocketPath returns the Unix-domain control socket path at the
// XDG-runtime-derived location from spec §6.
func SocketPath() string {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = filepath.Join(os.TempDir(), fmt.Sprintf("hamr-%d", os.Getuid()))
	}
	return filepath.Join(base, "hamrd.sock")
}

// Server is the daemon's single control-socket listener: one accept loop,
// one hub goroutine owning the connection table, and a forward goroutine
// draining engine updates to the active UI (spec §4.6).
type Server struct {
	socketPath string
	listener   net.Listener
	hub        *hub

	eng     *engine.Engine
	br      *broker.Broker
	plugins *pluginmgr.Manager
	idx     *index.Store
	events  *events.Publisher

	shutdown func()
}

func NewServer(socketPath string, eng *engine.Engine, br *broker.Broker, plugins *pluginmgr.Manager, idx *index.Store, pub *events.Publisher, shutdown func()) *Server {
	return &Server{socketPath: socketPath, eng: eng, br: br, plugins: plugins, idx: idx, events: pub, shutdown: shutdown, hub: newHub()}
}

// Listen binds the control socket, refusing to start if another live daemon
// already holds it (spec §4.6 "probe by connecting; remove if connect
// fails").
func (s *Server) Listen() error {
	if err := s.probeStaleOrLive(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return herrors.FatalIO("failed to create socket directory", err)
	}
	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return herrors.FatalIO("failed to bind control socket", err)
	}
	s.listener = ln
	return nil
}

func (s *Server) probeStaleOrLive() error {
	if _, err := os.Stat(s.socketPath); err != nil {
		return nil // nothing there
	}
	c, err := net.Dial("unix", s.socketPath)
	if err == nil {
		c.Close()
		return herrors.New(herrors.KindFatalIO, "control socket is held by another live daemon")
	}
	// Stale socket file from a crashed daemon: remove it and proceed.
	return os.Remove(s.socketPath)
}

// Serve runs the accept loop, the hub, and the update-forwarding and
// unsolicited-push drains until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.hub.onDisconnectUI = func() {
		s.eng.Process(context.Background(), engine.LauncherClosed{})
	}

	go s.hub.run()
	go s.drainUnsolicited(ctx)

	defer os.Remove(s.socketPath)
	defer s.listener.Close()

	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		nc, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return herrors.FatalIO("control socket accept failed", err)
			}
		}
		go s.handleConn(ctx, nc)
	}
}

// drainUnsolicited forwards background-daemon pushes (spec §4.3) to the
// active UI, running them through the engine first so status/ambient
// pushes update session state exactly as a direct plugin response would.
func (s *Server) drainUnsolicited(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.br.Unsolicited():
			if !ok {
				return
			}
			for _, u := range s.eng.HandlePluginPush(msg.PluginID, msg.Response) {
				s.forward(u)
			}
		}
	}
}

func (s *Server) forward(u engine.Update) {
	if engine.IsInternal(u) {
		return
	}
	s.publishEvent(u)
	method, params := encodeUpdate(u)
	if method == "" {
		return
	}
	s.hub.notifyActiveUI(method, params)
}

// publishEvent fans the three update kinds SPEC_FULL §4.6 names out onto
// the optional NATS publisher; a nil/disabled publisher makes every call a
// no-op.
func (s *Server) publishEvent(u engine.Update) {
	if s.events == nil {
		return
	}
	switch u := u.(type) {
	case engine.PluginStatusUpdate:
		s.events.PublishPluginStatus(u)
	case engine.AmbientUpdate:
		s.events.PublishAmbientUpdate(u)
	case engine.PluginActivated:
		s.events.PublishPluginActivated(u)
	}
}

func (s *Server) handleConn(ctx context.Context, nc net.Conn) {
	c := &conn{hub: s.hub, nc: nc, send: make(chan Message, 256), role: rolePending}
	go c.writePump()

	scanner := bufio.NewScanner(nc)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)

	registered := false
	defer func() {
		if registered {
			s.hub.unregister <- c
		} else {
			close(c.send)
			nc.Close()
		}
	}()

	for scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			logging.RPC().Warn().Err(err).Msg("rpc: malformed message, dropping connection")
			return
		}

		if !registered {
			if msg.Method != "register" {
				logging.RPC().Warn().Str("method", msg.Method).Msg("rpc: expected register as first message")
				return
			}
			var p registerParams
			if err := json.Unmarshal(msg.Params, &p); err != nil {
				c.send <- errorResponse(msg.ID, protocolErrorCode, "malformed register params")
				return
			}
			switch p.Role {
			case roleUI:
				c.role = roleUIPeer
			case rolePlugin:
				c.role = rolePluginPeer
			default:
				c.send <- errorResponse(msg.ID, protocolErrorCode, "unknown register role")
				return
			}
			c.name = p.Name
			c.id = uuid.NewString()
			s.hub.register <- c
			registered = true
			c.send <- successResponse(msg.ID, registerResult{SessionID: c.id})
			continue
		}

		s.handleMessage(ctx, c, msg)
	}
}

func (s *Server) handleMessage(ctx context.Context, c *conn, msg Message) {
	if msg.isNotification() {
		if c.role != roleUIPeer {
			return // only the active UI drives the engine directly
		}
		ev, err := decodeEvent(msg.Method, msg.Params)
		if err != nil {
			logging.RPC().Warn().Err(err).Str("method", msg.Method).Msg("rpc: unrecognized event")
			return
		}
		for _, u := range s.eng.Process(ctx, ev) {
			s.forward(u)
		}
		return
	}

	// Request/response style calls, spec §6 "query-style calls (e.g.
	// list_plugins, index_stats, shutdown)".
	switch msg.Method {
	case "list_plugins":
		c.send <- successResponse(msg.ID, s.listPlugins())
	case "index_stats":
		c.send <- successResponse(msg.ID, s.idx.Stats())
	case "shutdown":
		c.send <- successResponse(msg.ID, map[string]bool{"ok": true})
		if s.shutdown != nil {
			go s.shutdown()
		}
	default:
		c.send <- errorResponse(msg.ID, protocolErrorCode, "unknown method: "+msg.Method)
	}
}

type pluginSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) listPlugins() []pluginSummary {
	plugins := s.plugins.All()
	out := make([]pluginSummary, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, pluginSummary{ID: p.ID, Name: p.Manifest.Name})
	}
	return out
}
