package config

import "time"

// Role identifies which daemon a process runs as.
type Role string

// Known daemon roles.
const (
	RoleWorker  Role = "worker"
	RoleBeat    Role = "beat"
	RoleMonitor Role = "monitor"
)

// ParseRole validates a role name.
func ParseRole(name string) (Role, error) {
	switch r := Role(name); r {
	case RoleWorker, RoleBeat, RoleMonitor:
		return r, nil
	default:
		return "", newConfigError(InvalidValue, "role", name, nil)
	}
}

// Daemon is the process identity of one daemon role.
type Daemon struct {
	PidFile  string
	LogFile  string
	LogLevel Severity
}

// Config is the resolved configuration snapshot. It is built once by Resolve
// and is read-only afterwards; accessors returning maps hand out copies.
type Config struct {
	exchange            string
	exchangeType        string
	publisherRoutingKey string
	consumerRoutingKey  string
	consumerQueue       string
	queues              QueueTopology

	connectionTimeout    int
	connectionRetry      bool
	connectionMaxRetries int

	taskSerializer    string
	backend           string
	cacheBackend      Optional[string]
	defaultRateLimit  Optional[string]
	disableRateLimits bool
	resultExpires     time.Duration
	alwaysEager       bool

	concurrency          int
	worker               Daemon
	beat                 Daemon
	beatScheduleFilename string
	monitor              Daemon

	sendEvents               bool
	storeErrorsEvenIfIgnored bool
	sendTaskErrorEmails      bool
}

// Exchange is the AMQP exchange tasks are published to.
func (c *Config) Exchange() string { return c.exchange }

// ExchangeType is the type of Exchange (direct, topic, fanout, ...).
func (c *Config) ExchangeType() string { return c.exchangeType }

// PublisherRoutingKey is the routing key used when publishing tasks.
func (c *Config) PublisherRoutingKey() string { return c.publisherRoutingKey }

// ConsumerRoutingKey is the routing key used when consuming tasks.
func (c *Config) ConsumerRoutingKey() string { return c.consumerRoutingKey }

// ConsumerQueue is the name of the default consumer queue.
func (c *Config) ConsumerQueue() string { return c.consumerQueue }

// Queues returns a copy of the queue topology. It is never empty.
func (c *Config) Queues() QueueTopology { return c.queues.clone() }

// ConnectionTimeout is the broker connect timeout in seconds.
func (c *Config) ConnectionTimeout() int { return c.connectionTimeout }

// ConnectionRetry reports whether lost broker connections are re-established.
func (c *Config) ConnectionRetry() bool { return c.connectionRetry }

// ConnectionMaxRetries bounds reconnection attempts. Zero means retry forever.
func (c *Config) ConnectionMaxRetries() int { return c.connectionMaxRetries }

func (c *Config) TaskSerializer() string { return c.taskSerializer }

// Backend identifies the result backend storing task tombstones.
func (c *Config) Backend() string { return c.backend }

func (c *Config) CacheBackend() Optional[string] { return c.cacheBackend }

// DefaultRateLimit applies to tasks without a rate limit of their own.
func (c *Config) DefaultRateLimit() Optional[string] { return c.defaultRateLimit }

func (c *Config) RateLimitsDisabled() bool { return c.disableRateLimits }

// ResultExpires is how long task tombstones are kept.
func (c *Config) ResultExpires() time.Duration { return c.resultExpires }

// AlwaysEager makes tasks execute locally instead of being sent to the queue.
func (c *Config) AlwaysEager() bool { return c.alwaysEager }

// Concurrency is the number of worker processes. Zero means the host CPU count.
func (c *Config) Concurrency() int { return c.concurrency }

func (c *Config) Worker() Daemon { return c.worker }

func (c *Config) Beat() Daemon { return c.beat }

// BeatScheduleFilename is the beat scheduler's persistent schedule file.
func (c *Config) BeatScheduleFilename() string { return c.beatScheduleFilename }

func (c *Config) Monitor() Daemon { return c.monitor }

// Daemon returns the identity of the given role.
func (c *Config) Daemon(role Role) Daemon {
	switch role {
	case RoleBeat:
		return c.beat
	case RoleMonitor:
		return c.monitor
	default:
		return c.worker
	}
}

// SendEvents enables events for monitors.
func (c *Config) SendEvents() bool { return c.sendEvents }

func (c *Config) StoreErrorsEvenIfIgnored() bool { return c.storeErrorsEvenIfIgnored }

// SendTaskErrorEmails reports whether task errors are mailed to admins.
func (c *Config) SendTaskErrorEmails() bool { return c.sendTaskErrorEmails }

// Settings returns the snapshot keyed by external setting name. Absent
// optionals are nil and durations are rendered as strings.
func (c *Config) Settings() map[string]any {
	queues := make(map[string]map[string]string, len(c.queues))
	for name, def := range c.queues {
		queues[name] = map[string]string{
			"exchange":      def.Exchange,
			"exchange_type": def.ExchangeType,
			"routing_key":   def.RoutingKey,
		}
	}

	return map[string]any{
		KeyExchange:                 c.exchange,
		KeyExchangeType:             c.exchangeType,
		KeyPublisherRoutingKey:      c.publisherRoutingKey,
		KeyConsumerRoutingKey:       c.consumerRoutingKey,
		KeyConsumerQueue:            c.consumerQueue,
		KeyConsumerQueues:           queues,
		KeyConnectionTimeout:        c.connectionTimeout,
		KeyConnectionRetry:          c.connectionRetry,
		KeyConnectionMaxRetries:     c.connectionMaxRetries,
		KeyTaskSerializer:           c.taskSerializer,
		KeyBackend:                  c.backend,
		KeyCacheBackend:             optionalValue(c.cacheBackend),
		KeyDefaultRateLimit:         optionalValue(c.defaultRateLimit),
		KeyDisableRateLimits:        c.disableRateLimits,
		KeyTaskResultExpires:        c.resultExpires.String(),
		KeyAlwaysEager:              c.alwaysEager,
		KeyWorkerConcurrency:        c.concurrency,
		KeyWorkerPidFile:            c.worker.PidFile,
		KeyWorkerLogFile:            c.worker.LogFile,
		KeyWorkerLogLevel:           c.worker.LogLevel.String(),
		KeyBeatPidFile:              c.beat.PidFile,
		KeyBeatLogFile:              c.beat.LogFile,
		KeyBeatLogLevel:             c.beat.LogLevel.String(),
		KeyBeatScheduleFilename:     c.beatScheduleFilename,
		KeyMonitorPidFile:           c.monitor.PidFile,
		KeyMonitorLogFile:           c.monitor.LogFile,
		KeyMonitorLogLevel:          c.monitor.LogLevel.String(),
		KeySendEvents:               c.sendEvents,
		KeyStoreErrorsEvenIfIgnored: c.storeErrorsEvenIfIgnored,
		KeySendTaskErrorEmails:      c.sendTaskErrorEmails,
	}
}

func optionalValue[T any](o Optional[T]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}
