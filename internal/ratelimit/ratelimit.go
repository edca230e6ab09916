// Package ratelimit turns task rate-limit strings such as "100/m" into token
// bucket limiters, honouring the configured default rate and the global
// disable switch.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/eugenenazirov/taskconf/internal/config"
)

// ErrInvalidRate is returned for malformed rate strings.
var ErrInvalidRate = errors.New("invalid rate limit")

var periods = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
}

// Parse reads "N", "N/s", "N/m" or "N/h". A bare number is per second and a
// zero or empty rate means no limit.
func Parse(spec string) (rate.Limit, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return rate.Inf, nil
	}

	count, unit, found := strings.Cut(spec, "/")
	period := time.Second
	if found {
		p, ok := periods[strings.ToLower(strings.TrimSpace(unit))]
		if !ok {
			return 0, fmt.Errorf("%w: unknown period in %q", ErrInvalidRate, spec)
		}
		period = p
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(count), 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, spec)
	}
	if n == 0 {
		return rate.Inf, nil
	}
	return rate.Limit(n / period.Seconds()), nil
}

// Limiter gates task executions.
type Limiter interface {
	Allow() bool
	Wait(ctx context.Context) error
}

type limiterAdapter struct {
	limiter *rate.Limiter
}

// New returns a token bucket limiter. Non-positive bursts are raised to one.
func New(limit rate.Limit, burst int) Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &limiterAdapter{
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Unlimited returns a Limiter that never blocks.
func Unlimited() Limiter {
	return New(rate.Inf, 1)
}

func (l *limiterAdapter) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}

func (l *limiterAdapter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// ForTask builds the limiter for a task whose own rate is taskRate (empty
// when the task declares none). Disabled rate limits win over everything,
// then the task's rate, then the configured default.
func ForTask(cfg *config.Config, taskRate string) (Limiter, error) {
	if cfg.RateLimitsDisabled() {
		return Unlimited(), nil
	}

	spec := strings.TrimSpace(taskRate)
	if spec == "" {
		spec = cfg.DefaultRateLimit().OrElse("")
	}

	limit, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	return New(limit, 1), nil
}
