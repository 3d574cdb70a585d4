package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/hamr-launcher/hamrd/internal/engine"
	"github.com/hamr-launcher/hamrd/internal/logging"
	"github.com/hamr-launcher/hamrd/internal/types"
)

// Config configures the optional NATS publisher.
type Config struct {
	URL string
}

// Publisher fans a subset of engine updates out onto NATS. It is always
// safe to call Publish* on a disabled Publisher -- they are no-ops.
type Publisher struct {
	conn    *nats.Conn
	enabled bool
}

// NewPublisher connects to cfg.URL, or returns a disabled no-op publisher
// if it is empty or unreachable -- connection failure here is never fatal,
// this is an optional observability add-on, never the control path.
func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.URL == "" {
		logging.RPC().Info().Msg("events: no nats_url configured, ambient fan-out disabled")
		return &Publisher{enabled: false}, nil
	}

	opts := []nats.Option{
		nats.Name("hamrd"),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logging.RPC().Warn().Err(err).Msg("events: nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.RPC().Info().Str("url", nc.ConnectedUrl()).Msg("events: nats reconnected")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		logging.RPC().Warn().Err(err).Str("url", cfg.URL).Msg("events: failed to connect, ambient fan-out disabled")
		return &Publisher{enabled: false}, nil
	}

	logging.RPC().Info().Str("url", conn.ConnectedUrl()).Msg("events: nats publisher connected")
	return &Publisher{conn: conn, enabled: true}, nil
}

func (p *Publisher) Close() {
	if p.enabled && p.conn != nil {
		p.conn.Close()
	}
}

func (p *Publisher) publish(subject string, v any) {
	if !p.enabled {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		logging.RPC().Warn().Err(err).Str("subject", subject).Msg("events: publish failed")
	}
}

// PluginStatusEvent is the wire shape published for a PluginStatusUpdate.
type PluginStatusEvent struct {
	PluginID    string         `json:"pluginId"`
	Badges      []types.Badge  `json:"badges,omitempty"`
	Description string         `json:"description,omitempty"`
}

func (p *Publisher) PublishPluginStatus(u engine.PluginStatusUpdate) {
	p.publish(SubjectPluginStatus, PluginStatusEvent{PluginID: u.PluginID, Badges: u.Badges, Description: u.Description})
}

// AmbientEvent is the wire shape published for an AmbientUpdate; Item is
// nil when the ambient slot was cleared.
type AmbientEvent struct {
	PluginID string `json:"pluginId"`
	ItemID   string `json:"itemId,omitempty"`
	Name     string `json:"name,omitempty"`
	Cleared  bool   `json:"cleared"`
}

func (p *Publisher) PublishAmbientUpdate(u engine.AmbientUpdate) {
	ev := AmbientEvent{PluginID: u.PluginID, Cleared: u.Item == nil}
	if u.Item != nil {
		ev.ItemID = u.Item.ID
		ev.Name = u.Item.Name
	}
	p.publish(SubjectPluginAmbient, ev)
}

// PluginActivatedEvent is the wire shape published for a PluginActivated.
type PluginActivatedEvent struct {
	PluginID string `json:"pluginId"`
	Name     string `json:"name"`
}

func (p *Publisher) PublishPluginActivated(u engine.PluginActivated) {
	p.publish(SubjectPluginActivated, PluginActivatedEvent{PluginID: u.PluginID, Name: u.Name})
}
