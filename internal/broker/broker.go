package broker

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hamr-launcher/hamrd/internal/herrors"
	"github.com/hamr-launcher/hamrd/internal/logging"
	"github.com/hamr-launcher/hamrd/internal/types"
)

// PluginMessage is an unsolicited response from a background daemon --
// status pushes, ambient updates, full index refreshes -- that arrived
// outside any particular Send's request/response cycle (spec §4.3
// "Background daemons ... one instance serves many sessions").
type PluginMessage struct {
	PluginID string
	Response Response
}

// Broker owns every live plugin process: one ActiveProcess per open
// non-background plugin session, and one persistent daemonProcess per
// background-daemon plugin shared across all sessions (spec §3, §4.3).
type Broker struct {
	mu       sync.Mutex
	active   map[uint64]*ActiveProcess // session token -> process
	daemons  map[string]*daemonProcess // plugin id -> persistent connection

	unsolicited chan PluginMessage
	sessionSeq  uint64

	cron *cron.Cron
}

func New() *Broker {
	return &Broker{
		active:      make(map[uint64]*ActiveProcess),
		daemons:     make(map[string]*daemonProcess),
		unsolicited: make(chan PluginMessage, 64),
	}
}

// Unsolicited returns the channel the RPC broker drains for background
// daemon pushes not tied to a specific Send call.
func (b *Broker) Unsolicited() <-chan PluginMessage { return b.unsolicited }

// NextSessionToken returns a monotonically increasing session token, per
// spec §4.1 "Generate a monotonically increasing session token."
func (b *Broker) NextSessionToken() uint64 {
	return atomic.AddUint64(&b.sessionSeq, 1)
}

// OpenSession ensures a process is running for plugin and associates it
// with session, per spec §4.1's plugin-open sequence ("Ensure the plugin
// process is running (start if needed). ... For background daemons, reuse
// the persistent connection.").
func (b *Broker) OpenSession(plugin *types.Plugin, session uint64) error {
	if plugin.Manifest.Daemon && plugin.Manifest.Background {
		return b.ensureDaemon(plugin)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.active[session]; ok && !existing.Defunct {
		return nil
	}
	c, err := connectPlugin(plugin)
	if err != nil {
		return herrors.PluginCrash(plugin.ID, err)
	}
	b.active[session] = &ActiveProcess{PluginID: plugin.ID, SessionToken: session, conn: c}
	return nil
}

func (b *Broker) ensureDaemon(plugin *types.Plugin) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d, ok := b.daemons[plugin.ID]; ok && !d.defunct {
		return nil
	}
	c, err := connectPlugin(plugin)
	if err != nil {
		return herrors.PluginCrash(plugin.ID, err)
	}
	d := &daemonProcess{plugin: plugin, conn: c}
	b.daemons[plugin.ID] = d
	go b.pumpUnsolicited(d)
	return nil
}

// pumpUnsolicited continuously reads lines from a background daemon's
// connection and forwards every one onto the unsolicited channel; Send
// for a background daemon also reads from this same connection under d.mu,
// so a response correlated to a specific request is consumed there instead
// and never reaches this loop (see Send).
func (b *Broker) pumpUnsolicited(d *daemonProcess) {
	for {
		d.mu.Lock()
		resp, err := d.conn.recv()
		d.mu.Unlock()
		if err != nil {
			b.mu.Lock()
			d.defunct = true
			b.mu.Unlock()
			logging.Broker().Warn().Err(err).Str("plugin", d.plugin.ID).Msg("broker: background daemon connection lost")
			return
		}
		select {
		case b.unsolicited <- PluginMessage{PluginID: d.plugin.ID, Response: resp}:
		default:
			logging.Broker().Warn().Str("plugin", d.plugin.ID).Msg("broker: unsolicited channel full, dropping message")
		}
	}
}

// CloseSession terminates the non-background process associated with
// session, per spec §4.1 "Opening a non-background plugin kills the prior
// active_process."
func (b *Broker) CloseSession(session uint64) {
	b.mu.Lock()
	p, ok := b.active[session]
	if ok {
		delete(b.active, session)
	}
	b.mu.Unlock()
	if ok && p.conn != nil {
		if err := p.conn.Close(); err != nil {
			logging.Broker().Warn().Err(err).Str("plugin", p.PluginID).Msg("broker: error closing plugin process")
		}
	}
}

// Send delivers req to plugin's process for session and returns a channel
// that will carry exactly one Response (or be closed on error/ctx
// cancellation without a value). The engine awaits the channel inside
// Engine.Process, while its lock is held.
func (b *Broker) Send(ctx context.Context, plugin *types.Plugin, session uint64, req Request) (<-chan Response, error) {
	req.Session = session

	var c conn
	if plugin.Manifest.Daemon && plugin.Manifest.Background {
		b.mu.Lock()
		d, ok := b.daemons[plugin.ID]
		b.mu.Unlock()
		if !ok || d.defunct {
			return nil, herrors.PluginCrash(plugin.ID, nil)
		}
		return b.sendDaemon(ctx, d, req), nil
	}

	b.mu.Lock()
	p, ok := b.active[session]
	b.mu.Unlock()
	if !ok || p.Defunct {
		return nil, herrors.PluginCrash(plugin.ID, nil)
	}
	c = p.conn

	out := make(chan Response, 1)
	go func() {
		defer close(out)
		if err := c.send(req); err != nil {
			b.markDefunct(session)
			logging.Broker().Warn().Err(err).Str("plugin", plugin.ID).Msg("broker: write failed")
			return
		}
		resp, err := c.recv()
		if err != nil {
			b.markDefunct(session)
			logging.Broker().Warn().Err(err).Str("plugin", plugin.ID).Msg("broker: read failed")
			return
		}
		select {
		case out <- resp:
		case <-ctx.Done():
		}
	}()
	return out, nil
}

// sendDaemon serializes request/response pairs through a background
// daemon's single shared connection: d.mu is held for the full
// send-then-recv so pumpUnsolicited never races a correlated response off
// the wire.
func (b *Broker) sendDaemon(ctx context.Context, d *daemonProcess, req Request) <-chan Response {
	out := make(chan Response, 1)
	go func() {
		defer close(out)
		d.mu.Lock()
		err := d.conn.send(req)
		var resp Response
		if err == nil {
			resp, err = d.conn.recv()
		}
		d.mu.Unlock()
		if err != nil {
			b.mu.Lock()
			d.defunct = true
			b.mu.Unlock()
			logging.Broker().Warn().Err(err).Str("plugin", d.plugin.ID).Msg("broker: daemon request failed")
			return
		}
		select {
		case out <- resp:
		case <-ctx.Done():
		}
	}()
	return out
}

func (b *Broker) markDefunct(session uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.active[session]; ok {
		p.Defunct = true
	}
}

// probeDeadline is the inline-match probe's fixed budget (spec §4.1, §4.3).
const probeDeadline = 150 * time.Millisecond

// Probe sends a single {step: match, query} request to plugin over its own
// short-lived connection and returns the decoded result, or (nil, nil) on
// any timeout or decode failure -- "Timeout or parse error -> return None,
// never raise" (spec §4.3). Per spec §9 open question (c), the probe uses
// a dedicated connection rather than sharing the plugin's normal session,
// since a probe can race an in-flight normal request for the same plugin.
func (b *Broker) Probe(ctx context.Context, plugin *types.Plugin, query string) (*types.ResultItem, error) {
	ctx, cancel := context.WithTimeout(ctx, probeDeadline)
	defer cancel()

	c, err := connectPlugin(plugin)
	if err != nil {
		return nil, nil
	}
	defer c.Close()

	type result struct {
		resp Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		if err := c.send(Request{Step: StepMatch, Query: query}); err != nil {
			done <- result{err: err}
			return
		}
		resp, err := c.recv()
		done <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, nil
	case r := <-done:
		if r.err != nil || r.resp.Type != RespMatch || len(r.resp.Match) == 0 {
			return nil, nil
		}
		var item types.ResultItem
		if err := json.Unmarshal(r.resp.Match, &item); err != nil {
			return nil, nil
		}
		return &item, nil
	}
}

// StartWatchdog registers the background-daemon liveness check on a
// robfig/cron scheduler at the "@every 5s" cadence (spec §4.3), the same
// cron-driven shape the teacher's plugin scheduler uses for its own
// recurring jobs rather than a bespoke time.Ticker loop.
func (b *Broker) StartWatchdog() {
	b.cron = cron.New()
	_, err := b.cron.AddFunc("@every 5s", b.checkDaemons)
	if err != nil {
		logging.Broker().Error().Err(err).Msg("broker: failed to register watchdog job")
		return
	}
	b.cron.Start()
}

func (b *Broker) StopWatchdog() {
	if b.cron != nil {
		b.cron.Stop()
	}
}

func (b *Broker) checkDaemons() {
	b.mu.Lock()
	defunct := make([]*daemonProcess, 0)
	for _, d := range b.daemons {
		if d.defunct {
			defunct = append(defunct, d)
		}
	}
	b.mu.Unlock()

	for _, d := range defunct {
		logging.Broker().Info().Str("plugin", d.plugin.ID).Msg("broker: restarting defunct background daemon")
		if err := b.ensureDaemon(d.plugin); err != nil {
			logging.Broker().Warn().Err(err).Str("plugin", d.plugin.ID).Msg("broker: restart failed, will retry next tick")
		}
	}
}

// Shutdown terminates every live plugin process, per spec §4.3 "Shutting
// down the daemon terminates all plugin processes."
func (b *Broker) Shutdown() {
	b.StopWatchdog()
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.active {
		if p.conn != nil {
			_ = p.conn.Close()
		}
	}
	for _, d := range b.daemons {
		if d.conn != nil {
			_ = d.conn.Close()
		}
	}
}
