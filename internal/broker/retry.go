package broker

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/eugenenazirov/taskconf/internal/config"
)

const (
	defaultInitialInterval = 2 * time.Second
	defaultMaxInterval     = 30 * time.Second
)

// RetryPolicy controls how lost or failed broker connections are retried.
type RetryPolicy struct {
	Enabled bool
	// MaxRetries bounds the number of retries; zero retries forever.
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// RetryPolicyFrom derives the policy from a resolved configuration.
func RetryPolicyFrom(cfg *config.Config) RetryPolicy {
	return RetryPolicy{
		Enabled:         cfg.ConnectionRetry(),
		MaxRetries:      cfg.ConnectionMaxRetries(),
		InitialInterval: defaultInitialInterval,
		MaxInterval:     defaultMaxInterval,
	}
}

// Unbounded reports whether retries never give up.
func (p RetryPolicy) Unbounded() bool {
	return p.MaxRetries <= 0
}

// BackOff builds the backoff schedule for one connection attempt sequence.
// A disabled policy allows a single attempt. An unbounded policy is never
// wrapped with a retry cap, since a cap of zero would mean no retries.
func (p RetryPolicy) BackOff(ctx context.Context) backoff.BackOffContext {
	if !p.Enabled {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	exp := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	exp.MaxElapsedTime = 0

	var b backoff.BackOff = exp
	if !p.Unbounded() {
		b = backoff.WithMaxRetries(b, uint64(p.MaxRetries))
	}
	return backoff.WithContext(b, ctx)
}
