package config

import "time"

// External setting names understood by Resolve.
const (
	KeyExchange                 = "CELERY_AMQP_EXCHANGE"
	KeyExchangeType             = "CELERY_AMQP_EXCHANGE_TYPE"
	KeyPublisherRoutingKey      = "CELERY_AMQP_PUBLISHER_ROUTING_KEY"
	KeyConsumerRoutingKey       = "CELERY_AMQP_CONSUMER_ROUTING_KEY"
	KeyConsumerQueue            = "CELERY_AMQP_CONSUMER_QUEUE"
	KeyConsumerQueues           = "CELERY_AMQP_CONSUMER_QUEUES"
	KeyConnectionTimeout        = "CELERY_AMQP_CONNECTION_TIMEOUT"
	KeyConnectionRetry          = "CELERY_AMQP_CONNECTION_RETRY"
	KeyConnectionMaxRetries     = "CELERY_AMQP_CONNECTION_MAX_RETRIES"
	KeyTaskSerializer           = "CELERY_TASK_SERIALIZER"
	KeyBackend                  = "CELERY_BACKEND"
	KeyCacheBackend             = "CELERY_CACHE_BACKEND"
	KeyDefaultRateLimit         = "CELERY_DEFAULT_RATE_LIMIT"
	KeyDisableRateLimits        = "CELERY_DISABLE_RATE_LIMITS"
	KeyTaskResultExpires        = "CELERY_TASK_RESULT_EXPIRES"
	KeyAlwaysEager              = "CELERY_ALWAYS_EAGER"
	KeyWorkerConcurrency        = "CELERYD_CONCURRENCY"
	KeyWorkerPidFile            = "CELERYD_PID_FILE"
	KeyWorkerLogFile            = "CELERYD_LOG_FILE"
	KeyWorkerLogLevel           = "CELERYD_DAEMON_LOG_LEVEL"
	KeyBeatPidFile              = "CELERYBEAT_PID_FILE"
	KeyBeatLogFile              = "CELERYBEAT_LOG_FILE"
	KeyBeatLogLevel             = "CELERYBEAT_LOG_LEVEL"
	KeyBeatScheduleFilename     = "CELERYBEAT_SCHEDULE_FILENAME"
	KeyMonitorPidFile           = "CELERYMON_PID_FILE"
	KeyMonitorLogFile           = "CELERYMON_LOG_FILE"
	KeyMonitorLogLevel          = "CELERYMON_LOG_LEVEL"
	KeySendEvents               = "CELERY_SEND_EVENTS"
	KeyStoreErrorsEvenIfIgnored = "CELERY_STORE_ERRORS_EVEN_IF_IGNORED"
	KeySendTaskErrorEmails      = "SEND_CELERY_TASK_ERROR_EMAILS"
)

// KeyDebug is the host debug-mode flag. It is not a setting of its own; it
// only supplies the default of KeySendTaskErrorEmails.
const KeyDebug = "DEBUG"

const (
	defaultExchange             = "celery"
	defaultExchangeType         = "direct"
	defaultPublisherRoutingKey  = "celery"
	defaultConsumerRoutingKey   = "celery"
	defaultConsumerQueue        = "celery"
	defaultConnectionTimeout    = 4
	defaultConnectionRetry      = true
	defaultConnectionMaxRetries = 100
	defaultTaskSerializer       = "pickle"
	defaultBackend              = "database"
	defaultDisableRateLimits    = false
	defaultTaskResultExpires    = 5 * 24 * time.Hour
	defaultAlwaysEager          = false
	defaultWorkerConcurrency    = 0 // host CPU count
	defaultWorkerPidFile        = "celeryd.pid"
	defaultWorkerLogFile        = "celeryd.log"
	defaultWorkerLogLevel       = "WARN"
	defaultBeatPidFile          = "celerybeat.pid"
	defaultBeatLogFile          = "celerybeat.log"
	defaultBeatLogLevel         = "INFO"
	defaultBeatScheduleFilename = "celerybeat-schedule"
	defaultMonitorPidFile       = "celerymon.pid"
	defaultMonitorLogFile       = "celerymon.log"
	defaultMonitorLogLevel      = "INFO"
	defaultSendEvents           = false
	defaultStoreErrors          = false
	defaultDebug                = false
)
