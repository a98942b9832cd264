package bus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Config holds the bus client configuration.
type Config struct {
	URL            string        `yaml:"url"`
	Token          string        `yaml:"token"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReconnectWait  time.Duration `yaml:"reconnect_wait"`
	MaxReconnects  int           `yaml:"max_reconnects"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:            nats.DefaultURL,
		ConnectTimeout: 5 * time.Second,
		ReconnectWait:  2 * time.Second,
		MaxReconnects:  -1, // infinite
	}
}

// Client is the fleetwatch NATS messaging client. Reconnection is the
// broker client's problem: the registry tolerates arbitrary delivery gaps
// and the liveness sweep is what makes a gap visible as "offline".
type Client struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	source string
	logger *slog.Logger
}

// Connect creates a new bus client and connects to NATS.
func Connect(cfg Config, source string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name(source),
		nats.Timeout(cfg.ConnectTimeout),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("bus disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("bus reconnected")
		}),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("bus connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("bus jetstream: %w", err)
	}

	return &Client{
		nc:     nc,
		js:     js,
		source: source,
		logger: logger.With("component", "bus"),
	}, nil
}

// Publish publishes raw bytes to the given subject.
func (c *Client) Publish(subject string, data []byte) error {
	return c.nc.Publish(subject, data)
}

// PublishEvent creates and publishes an enveloped event in one call.
func (c *Client) PublishEvent(subject, eventType string, payload any) error {
	ev, err := NewEvent(eventType, c.source, payload)
	if err != nil {
		return err
	}
	data, err := ev.Marshal()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return c.nc.Publish(subject, data)
}

// Subscribe subscribes to a subject (wildcards allowed) and calls the
// handler with the concrete subject and raw payload of each message.
func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) (*nats.Subscription, error) {
	return c.nc.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
}

// ProvisionStreams creates or updates the JetStream streams used for
// report capture and replay.
func (c *Client) ProvisionStreams(ctx context.Context) error {
	for _, cfg := range StreamConfigs {
		if _, err := c.js.CreateOrUpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("provision stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

// Close drains and closes the NATS connection, letting in-flight delivery
// callbacks finish before the process exits.
func (c *Client) Close() error {
	if c.nc != nil {
		return c.nc.Drain()
	}
	return nil
}
