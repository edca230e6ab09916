package broker

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/eugenenazirov/taskconf/internal/config"
)

const (
	defaultHeartbeat = 10 * time.Second
	defaultLocale    = "en_US"
)

// DialFunc opens an AMQP connection.
type DialFunc func(url string, cfg amqp.Config) (*amqp.Connection, error)

// Connector dials the broker using the resolved timeout and retry policy.
type Connector struct {
	timeout time.Duration
	policy  RetryPolicy
	logger  *zap.Logger
	dial    DialFunc
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithDialer overrides the dial function (primarily for tests).
func WithDialer(dial DialFunc) ConnectorOption {
	return func(c *Connector) {
		c.dial = dial
	}
}

// WithRetryPolicy overrides the policy derived from the configuration.
func WithRetryPolicy(policy RetryPolicy) ConnectorOption {
	return func(c *Connector) {
		c.policy = policy
	}
}

// NewConnector returns a Connector for cfg.
func NewConnector(cfg *config.Config, logger *zap.Logger, opts ...ConnectorOption) *Connector {
	c := &Connector{
		timeout: time.Duration(cfg.ConnectionTimeout()) * time.Second,
		policy:  RetryPolicyFrom(cfg),
		logger:  logger,
		dial:    amqp.DialConfig,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the retry policy in effect.
func (c *Connector) Policy() RetryPolicy {
	return c.policy
}

// Timeout returns the per-attempt connect timeout.
func (c *Connector) Timeout() time.Duration {
	return c.timeout
}

// Connect dials brokerURL, retrying per the policy until it succeeds, the
// retries are exhausted or ctx is done.
func (c *Connector) Connect(ctx context.Context, brokerURL string) (*amqp.Connection, error) {
	amqpCfg := amqp.Config{
		Heartbeat: defaultHeartbeat,
		Locale:    defaultLocale,
		Dial:      amqp.DefaultDial(c.timeout),
	}
	target := redactURL(brokerURL)

	var (
		conn    *amqp.Connection
		attempt int
	)
	operation := func() error {
		attempt++
		var err error
		conn, err = c.dial(brokerURL, amqpCfg)
		return err
	}
	notify := func(err error, next time.Duration) {
		c.logger.Error("broker connection error, retrying",
			zap.String("broker", target),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", next),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, c.policy.BackOff(ctx), notify); err != nil {
		return nil, fmt.Errorf("connect to broker %s after %d attempt(s): %w", target, attempt, err)
	}

	c.logger.Info("connected to broker", zap.String("broker", target), zap.Int("attempts", attempt))
	return conn, nil
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
