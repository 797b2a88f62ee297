// Package nats publishes committed domain events to a NATS JetStream
// stream for downstream consumers (settlement, notifications, archival).
package nats

import (
	"context"
	"fmt"
	"log/slog"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/heartmarshall/lotbid-backend/internal/config"
	"github.com/heartmarshall/lotbid-backend/internal/domain"
	"github.com/heartmarshall/lotbid-backend/internal/eventbus"
)

// SinkName identifies this sink in logs and metrics.
const SinkName = "nats"

type jsPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher is an eventbus.Sink backed by JetStream.
type Publisher struct {
	js     jsPublisher
	prefix string
}

// NewPublisher creates a Publisher writing under subjects "<prefix>.>".
func NewPublisher(js jsPublisher, prefix string) *Publisher {
	return &Publisher{js: js, prefix: prefix}
}

func (p *Publisher) Name() string { return SinkName }

// Deliver publishes one event. The message id is derived from the event so
// JetStream's duplicate window drops redeliveries.
func (p *Publisher) Deliver(ctx context.Context, ev domain.Event) error {
	payload, err := eventbus.Encode(ev)
	if err != nil {
		return err
	}

	subject := Subject(p.prefix, ev)
	if _, err := p.js.Publish(ctx, subject, payload, jetstream.WithMsgID(eventbus.MessageID(ev))); err != nil {
		return fmt.Errorf("jetstream publish %s: %w", subject, err)
	}
	return nil
}

// Subject returns "<prefix>.<type>.<key>", e.g. "auction.bid.placed.<item id>".
func Subject(prefix string, ev domain.Event) string {
	return fmt.Sprintf("%s.%s.%s", prefix, ev.Type(), ev.Key())
}

// Client owns the NATS connection and the JetStream context.
type Client struct {
	nc  *natsgo.Conn
	js  jetstream.JetStream
	cfg config.NATSConfig
}

// Connect dials NATS and ensures the events stream exists.
func Connect(ctx context.Context, cfg config.NATSConfig, log *slog.Logger) (*Client, error) {
	nc, err := natsgo.Connect(cfg.URL,
		natsgo.Name("lotbid"),
		natsgo.Timeout(cfg.ConnectTimeout),
		natsgo.MaxReconnects(-1),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", slog.String("error", err.Error()))
			}
		}),
		natsgo.ReconnectHandler(func(c *natsgo.Conn) {
			log.Info("nats reconnected", slog.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        cfg.Stream,
		Description: "Bid, extension and close events",
		Subjects:    []string{cfg.SubjectPrefix + ".>"},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      cfg.MaxAge,
		Replicas:    1,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create stream %s: %w", cfg.Stream, err)
	}

	return &Client{nc: nc, js: js, cfg: cfg}, nil
}

// Publisher returns a sink publishing through this client.
func (c *Client) Publisher() *Publisher {
	return NewPublisher(c.js, c.cfg.SubjectPrefix)
}

// Close drains pending publishes and closes the connection.
func (c *Client) Close() error {
	return c.nc.Drain()
}

// Ping reports whether the connection is usable, for health checks.
func (c *Client) Ping(ctx context.Context) error {
	if !c.nc.IsConnected() {
		return fmt.Errorf("nats: %s", c.nc.Status())
	}
	return c.nc.FlushWithContext(ctx)
}
