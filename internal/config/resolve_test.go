package config

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

type mapProvider map[string]any

func (m mapProvider) Get(key string, def any) any {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

func mustResolve(t *testing.T, p Provider) *Config {
	t.Helper()

	cfg, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	return cfg
}

func expectKind(t *testing.T, err error, kind ErrorKind) *ConfigError {
	t.Helper()

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if cfgErr.Kind != kind {
		t.Fatalf("expected kind %s, got %s", kind, cfgErr.Kind)
	}
	return cfgErr
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	cfg := mustResolve(t, mapProvider{})

	strs := map[string][2]string{
		"exchange":               {cfg.Exchange(), "celery"},
		"exchange type":          {cfg.ExchangeType(), "direct"},
		"publisher routing key":  {cfg.PublisherRoutingKey(), "celery"},
		"consumer routing key":   {cfg.ConsumerRoutingKey(), "celery"},
		"consumer queue":         {cfg.ConsumerQueue(), "celery"},
		"task serializer":        {cfg.TaskSerializer(), "pickle"},
		"backend":                {cfg.Backend(), "database"},
		"worker pid file":        {cfg.Worker().PidFile, "celeryd.pid"},
		"worker log file":        {cfg.Worker().LogFile, "celeryd.log"},
		"beat pid file":          {cfg.Beat().PidFile, "celerybeat.pid"},
		"beat log file":          {cfg.Beat().LogFile, "celerybeat.log"},
		"beat schedule filename": {cfg.BeatScheduleFilename(), "celerybeat-schedule"},
		"monitor pid file":       {cfg.Monitor().PidFile, "celerymon.pid"},
		"monitor log file":       {cfg.Monitor().LogFile, "celerymon.log"},
	}
	for name, pair := range strs {
		if pair[0] != pair[1] {
			t.Fatalf("%s: expected %q, got %q", name, pair[1], pair[0])
		}
	}

	if cfg.ConnectionTimeout() != 4 {
		t.Fatalf("expected connection timeout 4, got %d", cfg.ConnectionTimeout())
	}
	if !cfg.ConnectionRetry() {
		t.Fatalf("expected connection retry to be enabled")
	}
	if cfg.ConnectionMaxRetries() != 100 {
		t.Fatalf("expected 100 max retries, got %d", cfg.ConnectionMaxRetries())
	}
	if cfg.CacheBackend().IsSet() {
		t.Fatalf("expected cache backend to be absent")
	}
	if cfg.DefaultRateLimit().IsSet() {
		t.Fatalf("expected default rate limit to be absent")
	}
	if cfg.RateLimitsDisabled() {
		t.Fatalf("expected rate limits to be enabled")
	}
	if cfg.ResultExpires() != 5*24*time.Hour {
		t.Fatalf("expected 5 days result expiry, got %s", cfg.ResultExpires())
	}
	if cfg.AlwaysEager() {
		t.Fatalf("expected always eager to be off")
	}
	if cfg.Concurrency() != 0 {
		t.Fatalf("expected concurrency sentinel 0, got %d", cfg.Concurrency())
	}
	if cfg.Worker().LogLevel != SeverityWarning {
		t.Fatalf("expected worker level WARNING, got %s", cfg.Worker().LogLevel)
	}
	if cfg.Beat().LogLevel != SeverityInfo || cfg.Monitor().LogLevel != SeverityInfo {
		t.Fatalf("expected beat and monitor level INFO, got %s / %s", cfg.Beat().LogLevel, cfg.Monitor().LogLevel)
	}
	if cfg.SendEvents() || cfg.StoreErrorsEvenIfIgnored() {
		t.Fatalf("expected event and error-storage flags to be off")
	}
	if !cfg.SendTaskErrorEmails() {
		t.Fatalf("expected error emails outside debug mode")
	}

	want := QueueTopology{"celery": {Name: "celery", Exchange: "celery", ExchangeType: "direct", RoutingKey: "celery"}}
	if got := cfg.Queues(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected default topology %v, got %v", want, got)
	}
}

func TestResolveOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key   string
		value any
		got   func(*Config) any
		want  any
	}{
		{KeyExchange, "tasks", func(c *Config) any { return c.Exchange() }, "tasks"},
		{KeyExchangeType, "topic", func(c *Config) any { return c.ExchangeType() }, "topic"},
		{KeyPublisherRoutingKey, "pub", func(c *Config) any { return c.PublisherRoutingKey() }, "pub"},
		{KeyConsumerRoutingKey, "sub", func(c *Config) any { return c.ConsumerRoutingKey() }, "sub"},
		{KeyConsumerQueue, "q", func(c *Config) any { return c.ConsumerQueue() }, "q"},
		{KeyConnectionTimeout, 10, func(c *Config) any { return c.ConnectionTimeout() }, 10},
		{KeyConnectionRetry, false, func(c *Config) any { return c.ConnectionRetry() }, false},
		{KeyConnectionMaxRetries, 5, func(c *Config) any { return c.ConnectionMaxRetries() }, 5},
		{KeyTaskSerializer, "json", func(c *Config) any { return c.TaskSerializer() }, "json"},
		{KeyBackend, "redis", func(c *Config) any { return c.Backend() }, "redis"},
		{KeyCacheBackend, "memcached://127.0.0.1:11211/", func(c *Config) any { return c.CacheBackend().OrElse("") }, "memcached://127.0.0.1:11211/"},
		{KeyDefaultRateLimit, "10/m", func(c *Config) any { return c.DefaultRateLimit().OrElse("") }, "10/m"},
		{KeyDisableRateLimits, true, func(c *Config) any { return c.RateLimitsDisabled() }, true},
		{KeyAlwaysEager, true, func(c *Config) any { return c.AlwaysEager() }, true},
		{KeyWorkerConcurrency, 8, func(c *Config) any { return c.Concurrency() }, 8},
		{KeyWorkerPidFile, "/run/w.pid", func(c *Config) any { return c.Worker().PidFile }, "/run/w.pid"},
		{KeyWorkerLogFile, "/var/log/w.log", func(c *Config) any { return c.Worker().LogFile }, "/var/log/w.log"},
		{KeyWorkerLogLevel, "error", func(c *Config) any { return c.Worker().LogLevel }, SeverityError},
		{KeyBeatPidFile, "b.pid", func(c *Config) any { return c.Beat().PidFile }, "b.pid"},
		{KeyBeatLogFile, "b.log", func(c *Config) any { return c.Beat().LogFile }, "b.log"},
		{KeyBeatLogLevel, "critical", func(c *Config) any { return c.Beat().LogLevel }, SeverityCritical},
		{KeyBeatScheduleFilename, "sched.db", func(c *Config) any { return c.BeatScheduleFilename() }, "sched.db"},
		{KeyMonitorPidFile, "m.pid", func(c *Config) any { return c.Monitor().PidFile }, "m.pid"},
		{KeyMonitorLogFile, "m.log", func(c *Config) any { return c.Monitor().LogFile }, "m.log"},
		{KeyMonitorLogLevel, "Fatal", func(c *Config) any { return c.Monitor().LogLevel }, SeverityFatal},
		{KeySendEvents, true, func(c *Config) any { return c.SendEvents() }, true},
		{KeyStoreErrorsEvenIfIgnored, true, func(c *Config) any { return c.StoreErrorsEvenIfIgnored() }, true},
		{KeySendTaskErrorEmails, false, func(c *Config) any { return c.SendTaskErrorEmails() }, false},
		{KeyTaskResultExpires, 600, func(c *Config) any { return c.ResultExpires() }, 600 * time.Second},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.key, func(t *testing.T) {
			t.Parallel()

			cfg := mustResolve(t, mapProvider{tc.key: tc.value})
			if got := tc.got(cfg); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	t.Parallel()

	p := mapProvider{
		KeyExchange:          "orders",
		KeyTaskResultExpires: 90,
		KeyWorkerLogLevel:    "debug",
		KeyDefaultRateLimit:  "5/s",
	}

	first := mustResolve(t, p)
	second := mustResolve(t, p)
	if first == second {
		t.Fatalf("expected distinct snapshots")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected structurally equal snapshots")
	}
}

func TestResolveResultExpires(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  time.Duration
	}{
		{name: "int seconds", value: 600, want: 600 * time.Second},
		{name: "int64 seconds", value: int64(30), want: 30 * time.Second},
		{name: "uint32 seconds", value: uint32(1), want: time.Second},
		{name: "duration", value: 10 * time.Minute, want: 10 * time.Minute},
		{name: "zero", value: 0, want: 0},
		{name: "null", value: nil, want: 5 * 24 * time.Hour},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := mustResolve(t, mapProvider{KeyTaskResultExpires: tc.value})
			if cfg.ResultExpires() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, cfg.ResultExpires())
			}
		})
	}
}

func TestResolveResultExpiresRejectsOtherTypes(t *testing.T) {
	t.Parallel()

	for _, value := range []any{1.5, "600", "10m", true, []int{1}} {
		_, err := Resolve(mapProvider{KeyTaskResultExpires: value})
		if !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("expected ErrInvalidDuration for %#v, got %v", value, err)
		}
		cfgErr := expectKind(t, err, InvalidDuration)
		if cfgErr.Key != KeyTaskResultExpires {
			t.Fatalf("expected error for %s, got %s", KeyTaskResultExpires, cfgErr.Key)
		}
	}
}

func TestResolveLogLevelIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"debug", "DEBUG", "Debug"} {
		cfg := mustResolve(t, mapProvider{KeyWorkerLogLevel: level})
		if cfg.Worker().LogLevel != SeverityDebug {
			t.Fatalf("expected %q to resolve to DEBUG, got %s", level, cfg.Worker().LogLevel)
		}
	}
}

func TestResolveRejectsUnknownLogLevel(t *testing.T) {
	t.Parallel()

	for _, key := range []string{KeyWorkerLogLevel, KeyBeatLogLevel, KeyMonitorLogLevel} {
		for _, value := range []any{"VERBOSE", "", 10} {
			cfg, err := Resolve(mapProvider{key: value})
			if cfg != nil {
				t.Fatalf("expected no snapshot on failure")
			}
			if !errors.Is(err, ErrInvalidLogLevel) {
				t.Fatalf("%s=%#v: expected ErrInvalidLogLevel, got %v", key, value, err)
			}
			if cfgErr := expectKind(t, err, InvalidLogLevel); cfgErr.Key != key {
				t.Fatalf("expected error key %s, got %s", key, cfgErr.Key)
			}
		}
	}
}

func TestResolveDerivesTopology(t *testing.T) {
	t.Parallel()

	cfg := mustResolve(t, mapProvider{
		KeyExchange:           "orders",
		KeyExchangeType:       "topic",
		KeyConsumerRoutingKey: "orders.new",
		KeyConsumerQueue:      "orders-queue",
	})

	want := QueueTopology{
		"orders-queue": {Name: "orders-queue", Exchange: "orders", RoutingKey: "orders.new", ExchangeType: "topic"},
	}
	if got := cfg.Queues(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolveTopologyOverrideReplacesDefault(t *testing.T) {
	t.Parallel()

	override := QueueTopology{
		"images": {Exchange: "media", ExchangeType: "direct", RoutingKey: "media.images"},
		"video":  {Exchange: "media", ExchangeType: "topic", RoutingKey: "media.video.#"},
	}
	cfg := mustResolve(t, mapProvider{
		KeyExchange:           "ignored",
		KeyExchangeType:       "fanout",
		KeyConsumerRoutingKey: "ignored.key",
		KeyConsumerQueue:      "ignored-queue",
		KeyConsumerQueues:     override,
	})

	got := cfg.Queues()
	if len(got) != 2 {
		t.Fatalf("expected exactly two queues, got %v", got)
	}
	if names := got.Names(); names[0] != "images" || names[1] != "video" {
		t.Fatalf("unexpected queue names %v", names)
	}
	if got["video"].Name != "video" || got["video"].RoutingKey != "media.video.#" {
		t.Fatalf("unexpected video queue %+v", got["video"])
	}
	if cfg.Exchange() != "ignored" {
		t.Fatalf("expected exchange to resolve independently, got %s", cfg.Exchange())
	}
}

func TestResolveTopologyFromGenericMapping(t *testing.T) {
	t.Parallel()

	cfg := mustResolve(t, mapProvider{
		KeyConsumerQueues: map[string]any{
			"default": map[string]any{
				"exchange":      "celery",
				"exchange_type": "direct",
				"routing_key":   "celery",
			},
		},
	})

	want := QueueDefinition{Name: "default", Exchange: "celery", ExchangeType: "direct", RoutingKey: "celery"}
	if got := cfg.Queues()["default"]; got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestResolveRejectsInvalidTopology(t *testing.T) {
	t.Parallel()

	tests := map[string]any{
		"empty":                 QueueTopology{},
		"missing exchange type": map[string]any{"q": map[string]any{"exchange": "x"}},
		"unknown field":         map[string]any{"q": map[string]any{"exchange_type": "direct", "durable": true}},
		"not a mapping":         "celery",
	}

	for name, value := range tests {
		value := value
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Resolve(mapProvider{KeyConsumerQueues: value})
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("expected ErrInvalidValue, got %v", err)
			}
		})
	}
}

func TestResolveSendTaskErrorEmails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider mapProvider
		want     bool
	}{
		{name: "debug on", provider: mapProvider{KeyDebug: true}, want: false},
		{name: "debug off", provider: mapProvider{KeyDebug: false}, want: true},
		{name: "override beats debug on", provider: mapProvider{KeyDebug: true, KeySendTaskErrorEmails: true}, want: true},
		{name: "override beats debug off", provider: mapProvider{KeyDebug: false, KeySendTaskErrorEmails: false}, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := mustResolve(t, tc.provider)
			if cfg.SendTaskErrorEmails() != tc.want {
				t.Fatalf("expected %t, got %t", tc.want, cfg.SendTaskErrorEmails())
			}
		})
	}
}

func TestResolvePreservesUnboundedRetrySentinel(t *testing.T) {
	t.Parallel()

	for _, value := range []any{0, nil} {
		cfg := mustResolve(t, mapProvider{KeyConnectionMaxRetries: value})
		if cfg.ConnectionMaxRetries() != 0 {
			t.Fatalf("expected sentinel 0 for %#v, got %d", value, cfg.ConnectionMaxRetries())
		}
	}

	if _, err := Resolve(mapProvider{KeyConnectionMaxRetries: -1}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for negative retries, got %v", err)
	}
}

func TestResolveRejectsMismatchedTypes(t *testing.T) {
	t.Parallel()

	tests := map[string]any{
		KeyExchange:          5,
		KeyConnectionTimeout: "4",
		KeyConnectionRetry:   "yes",
		KeyCacheBackend:      42,
		KeyDebug:             "true",
		KeyWorkerConcurrency: 2.5,
	}

	for key, value := range tests {
		_, err := Resolve(mapProvider{key: value})
		if cfgErr := expectKind(t, err, InvalidValue); cfgErr.Key != key {
			t.Fatalf("expected error for %s, got %s", key, cfgErr.Key)
		}
	}
}

func TestResolveRequiresProvider(t *testing.T) {
	t.Parallel()

	if _, err := Resolve(nil); err == nil {
		t.Fatalf("expected error for nil provider")
	}
}

func TestQueuesReturnsCopy(t *testing.T) {
	t.Parallel()

	cfg := mustResolve(t, mapProvider{})
	queues := cfg.Queues()
	queues["extra"] = QueueDefinition{ExchangeType: "direct"}
	delete(queues, "celery")

	again := cfg.Queues()
	if _, ok := again["celery"]; !ok || len(again) != 1 {
		t.Fatalf("expected snapshot topology to be unaffected, got %v", again)
	}
}

func TestSettingsUsesExternalNames(t *testing.T) {
	t.Parallel()

	cfg := mustResolve(t, mapProvider{KeyDefaultRateLimit: "1/s"})
	settings := cfg.Settings()

	if settings[KeyTaskResultExpires] != "120h0m0s" {
		t.Fatalf("unexpected result expiry rendering %v", settings[KeyTaskResultExpires])
	}
	if settings[KeyCacheBackend] != nil {
		t.Fatalf("expected absent cache backend to render as nil")
	}
	if settings[KeyDefaultRateLimit] != "1/s" {
		t.Fatalf("unexpected default rate limit %v", settings[KeyDefaultRateLimit])
	}
	if settings[KeyWorkerLogLevel] != "WARNING" {
		t.Fatalf("unexpected worker log level %v", settings[KeyWorkerLogLevel])
	}
	if _, ok := settings[KeyDebug]; ok {
		t.Fatalf("debug flag is not part of the snapshot")
	}
}

func TestDaemonByRole(t *testing.T) {
	t.Parallel()

	cfg := mustResolve(t, mapProvider{KeyBeatPidFile: "beat.pid", KeyMonitorPidFile: "mon.pid"})
	if cfg.Daemon(RoleBeat).PidFile != "beat.pid" || cfg.Daemon(RoleMonitor).PidFile != "mon.pid" {
		t.Fatalf("unexpected daemon identities")
	}
	if cfg.Daemon(RoleWorker) != cfg.Worker() {
		t.Fatalf("expected worker identity for worker role")
	}

	if _, err := ParseRole("scheduler"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected unknown role to fail, got %v", err)
	}
	if role, err := ParseRole("beat"); err != nil || role != RoleBeat {
		t.Fatalf("expected beat role, got %q (%v)", role, err)
	}
}

func TestResolveReportsEmptyTopologyFieldByName(t *testing.T) {
	t.Parallel()

	for _, key := range []string{KeyExchangeType, KeyConsumerQueue} {
		_, err := Resolve(mapProvider{key: ""})
		if cfgErr := expectKind(t, err, InvalidValue); cfgErr.Key != key {
			t.Fatalf("expected error for %s, got %s", key, cfgErr.Key)
		}
	}
}

func TestResolveAcceptsNumericDefaultRateLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  any
		want string
	}{
		{raw: 100, want: "100"},
		{raw: int64(5), want: "5"},
		{raw: uint8(0), want: "0"},
		{raw: 0.5, want: "0.5"},
		{raw: "10/m", want: "10/m"},
	}

	for _, tc := range tests {
		cfg := mustResolve(t, mapProvider{KeyDefaultRateLimit: tc.raw})
		if got, ok := cfg.DefaultRateLimit().Get(); !ok || got != tc.want {
			t.Fatalf("rate %#v: expected %q, got %q (set=%t)", tc.raw, tc.want, got, ok)
		}
	}

	_, err := Resolve(mapProvider{KeyDefaultRateLimit: true})
	if cfgErr := expectKind(t, err, InvalidValue); cfgErr.Key != KeyDefaultRateLimit {
		t.Fatalf("expected error for %s, got %s", KeyDefaultRateLimit, cfgErr.Key)
	}
}

func TestResolveRejectsNegativeCounts(t *testing.T) {
	t.Parallel()

	for _, key := range []string{KeyConnectionTimeout, KeyWorkerConcurrency} {
		_, err := Resolve(mapProvider{key: -1})
		if cfgErr := expectKind(t, err, InvalidValue); cfgErr.Key != key {
			t.Fatalf("expected error for %s, got %s", key, cfgErr.Key)
		}

		cfg := mustResolve(t, mapProvider{key: 0})
		if got := cfg.Settings()[key]; got != 0 {
			t.Fatalf("expected %s to keep 0, got %v", key, got)
		}
	}
}
