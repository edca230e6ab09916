package application

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/eugenenazirov/taskconf/internal/broker"
	"github.com/eugenenazirov/taskconf/internal/config"
	"github.com/eugenenazirov/taskconf/internal/logging"
	"github.com/eugenenazirov/taskconf/internal/ratelimit"
)

// App encapsulates the resolved configuration and the components built from it.
type App struct {
	cfg       *config.Config
	role      config.Role
	logger    *zap.Logger
	connector *broker.Connector
}

type options struct {
	logger        *zap.Logger
	logOptions    []logging.Option
	connectorOpts []broker.ConnectorOption
}

// Option customizes application wiring.
type Option func(*options)

// WithLogger uses logger instead of building one from the role's daemon settings.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogOptions appends options applied to the role logger.
func WithLogOptions(opts ...logging.Option) Option {
	return func(o *options) {
		o.logOptions = append(o.logOptions, opts...)
	}
}

// WithConnectorOptions appends options applied to the broker connector.
func WithConnectorOptions(opts ...broker.ConnectorOption) Option {
	return func(o *options) {
		o.connectorOpts = append(o.connectorOpts, opts...)
	}
}

// New resolves the configuration through loader and wires the components for role.
// Nothing is built when resolution fails.
func New(loader *config.Loader, role config.Role, opts ...Option) (*App, error) {
	if loader == nil {
		return nil, errors.New("application: loader is required")
	}
	if _, err := config.ParseRole(string(role)); err != nil {
		return nil, err
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger, err = logging.ForDaemon(cfg.Daemon(role), o.logOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s logger: %w", role, err)
		}
	}
	logger = logger.With(zap.String("role", string(role)))

	return &App{
		cfg:       cfg,
		role:      role,
		logger:    logger,
		connector: broker.NewConnector(cfg, logger, o.connectorOpts...),
	}, nil
}

// Config returns the resolved snapshot.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the role logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Role returns the daemon role the application runs as.
func (a *App) Role() config.Role {
	return a.role
}

// Daemon returns the process identity of the application's role.
func (a *App) Daemon() config.Daemon {
	return a.cfg.Daemon(a.role)
}

// Concurrency returns the worker pool size, falling back to the host CPU
// count when the configuration leaves it at zero.
func (a *App) Concurrency() int {
	if n := a.cfg.Concurrency(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Connector returns the broker connector.
func (a *App) Connector() *broker.Connector {
	return a.connector
}

// TaskLimiter returns the rate limiter for a task with the given rate
// annotation ("" uses the configured default).
func (a *App) TaskLimiter(taskRate string) (ratelimit.Limiter, error) {
	limiter, err := ratelimit.ForTask(a.cfg, taskRate)
	if err != nil {
		return nil, fmt.Errorf("task rate limit %q: %w", taskRate, err)
	}
	return limiter, nil
}

// DeclareTopology connects to the broker and declares the configured queues.
func (a *App) DeclareTopology(ctx context.Context, brokerURL string) error {
	conn, err := a.connector.Connect(ctx, brokerURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			a.logger.Warn("closing broker connection failed", zap.Error(closeErr))
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open broker channel: %w", err)
	}
	defer func() {
		_ = ch.Close()
	}()

	queues := a.cfg.Queues()
	if err := broker.Declare(ch, queues); err != nil {
		return err
	}

	a.logger.Info("declared queue topology", zap.Strings("queues", queues.Names()))
	return nil
}
