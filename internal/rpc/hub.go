package rpc

import (
	"bufio"
	"encoding/json"
	"net"
	"sync"

	"github.com/hamr-launcher/hamrd/internal/logging"
)

// peerRole classifies a connection once its register handshake completes,
// per spec §4.6 "classify peers as Pending/UI/Plugin via an explicit
// register handshake".
type peerRole int

const (
	rolePending peerRole = iota
	roleUIPeer
	rolePluginPeer
)

// conn is one live control-socket connection -- the rpc package's analogue
// of the teacher's websocket.Client, retargeted from a gorilla/websocket
// frame to a newline-delimited JSON-RPC line.
type conn struct {
	hub  *hub
	nc   net.Conn
	send chan Message

	role peerRole
	name string // UI display name or plugin id, set at register time
	id   string // opaque per-connection id
}

// hub owns the connection table and the active-UI pointer. It is the
// control socket's single writer, exactly the way the teacher's Hub.Run
// goroutine is the only writer of Hub.clients.
type hub struct {
	mu      sync.RWMutex
	conns   map[*conn]bool
	activeUI *conn

	register   chan *conn
	unregister chan *conn

	// onDisconnectUI fires when the active UI connection drops, so the
	// server can synthesize a LauncherClosed event (spec §4.6).
	onDisconnectUI func()
}

func newHub() *hub {
	return &hub{
		conns:      make(map[*conn]bool),
		register:   make(chan *conn),
		unregister: make(chan *conn),
	}
}

// run is the hub's accept-loop counterpart: it owns every mutation of the
// connection table, so register/unregister never race a broadcast.
func (h *hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.conns[c] = true
			if c.role == roleUIPeer {
				h.activeUI = c
			}
			h.mu.Unlock()
			logging.RPC().Info().Str("peer", c.name).Msg("rpc: peer registered")

		case c := <-h.unregister:
			h.mu.Lock()
			wasActiveUI := h.activeUI == c
			if _, ok := h.conns[c]; ok {
				delete(h.conns, c)
				close(c.send)
			}
			if wasActiveUI {
				h.activeUI = nil
			}
			h.mu.Unlock()
			logging.RPC().Info().Str("peer", c.name).Msg("rpc: peer unregistered")
			if wasActiveUI && h.onDisconnectUI != nil {
				h.onDisconnectUI()
			}
		}
	}
}

// notifyActiveUI sends a notification to the active UI connection, if any.
// A slow/gone UI silently drops the message rather than blocking the
// engine's forward goroutine, matching the teacher's "slow client gets
// disconnected instead of stalling the hub" policy.
func (h *hub) notifyActiveUI(method string, params any) {
	h.mu.RLock()
	c := h.activeUI
	h.mu.RUnlock()
	if c == nil {
		return
	}
	select {
	case c.send <- notification(method, params):
	default:
		logging.RPC().Warn().Msg("rpc: active UI send buffer full, dropping update")
	}
}

func (c *conn) writePump() {
	w := bufio.NewWriter(c.nc)
	defer c.nc.Close()
	for msg := range c.send {
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		if _, err := w.Write(data); err != nil {
			return
		}
		if err := w.WriteByte('\n'); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}
