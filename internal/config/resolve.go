package config

import (
	"errors"
	"math"
	"strconv"
	"time"
)

// Provider supplies operator overrides. Get returns def when key is not set;
// repeated calls with the same key must return the same value.
type Provider interface {
	Get(key string, def any) any
}

// Resolve overlays the overrides of p on the built-in defaults. It either
// returns a fully populated snapshot or the first *ConfigError encountered.
func Resolve(p Provider) (*Config, error) {
	if p == nil {
		return nil, errors.New("config: provider is required")
	}

	r := &resolver{p: p}
	cfg := &Config{}

	cfg.exchange = r.str(KeyExchange, defaultExchange)
	cfg.exchangeType = r.requiredStr(KeyExchangeType, defaultExchangeType)
	cfg.consumerRoutingKey = r.str(KeyConsumerRoutingKey, defaultConsumerRoutingKey)
	cfg.consumerQueue = r.requiredStr(KeyConsumerQueue, defaultConsumerQueue)

	derived := defaultTopology(cfg.consumerQueue, cfg.exchange, cfg.exchangeType, cfg.consumerRoutingKey)
	cfg.queues = r.topology(KeyConsumerQueues, derived)

	cfg.resultExpires = r.duration(KeyTaskResultExpires, defaultTaskResultExpires)

	cfg.worker.LogLevel = r.severity(KeyWorkerLogLevel, defaultWorkerLogLevel)
	cfg.beat.LogLevel = r.severity(KeyBeatLogLevel, defaultBeatLogLevel)
	cfg.monitor.LogLevel = r.severity(KeyMonitorLogLevel, defaultMonitorLogLevel)

	cfg.publisherRoutingKey = r.str(KeyPublisherRoutingKey, defaultPublisherRoutingKey)
	cfg.connectionTimeout = r.count(KeyConnectionTimeout, defaultConnectionTimeout)
	cfg.connectionRetry = r.boolean(KeyConnectionRetry, defaultConnectionRetry)
	cfg.connectionMaxRetries = r.retries(KeyConnectionMaxRetries, defaultConnectionMaxRetries)
	cfg.taskSerializer = r.str(KeyTaskSerializer, defaultTaskSerializer)
	cfg.backend = r.str(KeyBackend, defaultBackend)
	cfg.cacheBackend = r.optionalStr(KeyCacheBackend)
	cfg.defaultRateLimit = r.optionalRate(KeyDefaultRateLimit)
	cfg.disableRateLimits = r.boolean(KeyDisableRateLimits, defaultDisableRateLimits)
	cfg.alwaysEager = r.boolean(KeyAlwaysEager, defaultAlwaysEager)
	cfg.concurrency = r.count(KeyWorkerConcurrency, defaultWorkerConcurrency)
	cfg.worker.PidFile = r.str(KeyWorkerPidFile, defaultWorkerPidFile)
	cfg.worker.LogFile = r.str(KeyWorkerLogFile, defaultWorkerLogFile)
	cfg.beat.PidFile = r.str(KeyBeatPidFile, defaultBeatPidFile)
	cfg.beat.LogFile = r.str(KeyBeatLogFile, defaultBeatLogFile)
	cfg.beatScheduleFilename = r.str(KeyBeatScheduleFilename, defaultBeatScheduleFilename)
	cfg.monitor.PidFile = r.str(KeyMonitorPidFile, defaultMonitorPidFile)
	cfg.monitor.LogFile = r.str(KeyMonitorLogFile, defaultMonitorLogFile)
	cfg.sendEvents = r.boolean(KeySendEvents, defaultSendEvents)
	cfg.storeErrorsEvenIfIgnored = r.boolean(KeyStoreErrorsEvenIfIgnored, defaultStoreErrors)

	// Error mails default to on unless the host runs in debug mode.
	debug := r.boolean(KeyDebug, defaultDebug)
	cfg.sendTaskErrorEmails = r.boolean(KeySendTaskErrorEmails, !debug)

	if r.err != nil {
		return nil, r.err
	}
	return cfg, nil
}

// resolver records the first coercion failure; later lookups become no-ops.
type resolver struct {
	p   Provider
	err error
}

func (r *resolver) fail(kind ErrorKind, key string, value any) {
	if r.err == nil {
		r.err = newConfigError(kind, key, value, nil)
	}
}

func (r *resolver) get(key string, def any) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	return r.p.Get(key, def), true
}

func (r *resolver) str(key, def string) string {
	raw, ok := r.get(key, def)
	if !ok {
		return def
	}
	s, ok := raw.(string)
	if !ok {
		r.fail(InvalidValue, key, raw)
		return def
	}
	return s
}

// requiredStr rejects an empty override. The derived queue topology is built
// from these values, so an empty one would otherwise surface under the
// topology key.
func (r *resolver) requiredStr(key, def string) string {
	s := r.str(key, def)
	if r.err == nil && s == "" {
		r.fail(InvalidValue, key, s)
		return def
	}
	return s
}

func (r *resolver) optionalStr(key string) Optional[string] {
	raw, ok := r.get(key, nil)
	if !ok || raw == nil {
		return None[string]()
	}
	s, ok := raw.(string)
	if !ok {
		r.fail(InvalidValue, key, raw)
		return None[string]()
	}
	return Some(s)
}

// optionalRate also accepts a bare number, as YAML yields for "rate: 100".
func (r *resolver) optionalRate(key string) Optional[string] {
	raw, ok := r.get(key, nil)
	if !ok || raw == nil {
		return None[string]()
	}
	switch v := raw.(type) {
	case string:
		return Some(v)
	case float32:
		return Some(strconv.FormatFloat(float64(v), 'f', -1, 32))
	case float64:
		return Some(strconv.FormatFloat(v, 'f', -1, 64))
	}
	n, ok := asInt(raw)
	if !ok {
		r.fail(InvalidValue, key, raw)
		return None[string]()
	}
	return Some(strconv.Itoa(n))
}

func (r *resolver) boolean(key string, def bool) bool {
	raw, ok := r.get(key, def)
	if !ok {
		return def
	}
	b, ok := raw.(bool)
	if !ok {
		r.fail(InvalidValue, key, raw)
		return def
	}
	return b
}

func (r *resolver) integer(key string, def int) int {
	raw, ok := r.get(key, def)
	if !ok {
		return def
	}
	n, ok := asInt(raw)
	if !ok {
		r.fail(InvalidValue, key, raw)
		return def
	}
	return n
}

// count is an integer that must not be negative.
func (r *resolver) count(key string, def int) int {
	n := r.integer(key, def)
	if r.err == nil && n < 0 {
		r.fail(InvalidValue, key, n)
		return def
	}
	return n
}

// retries treats an explicit null like zero: retry forever.
func (r *resolver) retries(key string, def int) int {
	raw, ok := r.get(key, def)
	if !ok {
		return def
	}
	if raw == nil {
		return 0
	}
	n, ok := asInt(raw)
	if !ok || n < 0 {
		r.fail(InvalidValue, key, raw)
		return def
	}
	return n
}

// duration accepts a time.Duration as is and an integer as seconds.
func (r *resolver) duration(key string, def time.Duration) time.Duration {
	raw, ok := r.get(key, def)
	if !ok {
		return def
	}
	in := classifyDuration(raw)
	switch in.kind {
	case durationAbsent:
		return def
	case durationSeconds, durationTyped:
		return in.value
	default:
		r.fail(InvalidDuration, key, raw)
		return def
	}
}

func (r *resolver) severity(key, def string) Severity {
	raw, ok := r.get(key, def)
	if !ok {
		return 0
	}
	s, ok := raw.(string)
	if !ok {
		r.fail(InvalidLogLevel, key, raw)
		return 0
	}
	sev, err := ParseSeverity(s)
	if err != nil {
		r.fail(InvalidLogLevel, key, raw)
		return 0
	}
	return sev
}

// topology replaces def entirely when an override is present.
func (r *resolver) topology(key string, def QueueTopology) QueueTopology {
	raw, ok := r.get(key, def)
	if !ok {
		return def
	}
	if raw == nil {
		return def
	}
	topology, err := decodeTopology(raw)
	if err != nil {
		if r.err == nil {
			r.err = newConfigError(InvalidValue, key, raw, err)
		}
		return def
	}
	return topology
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if n > math.MaxInt || n < math.MinInt {
			return 0, false
		}
		return int(n), true
	case uint:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		if uint64(n) > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
