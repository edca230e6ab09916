package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLogLevel is returned when a log level is not a known severity.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidDuration is returned when a duration setting is neither an integer number of seconds nor a duration.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidValue is returned when an override does not have the type its setting expects.
	ErrInvalidValue = errors.New("invalid value")
)

// ErrorKind classifies resolution failures.
type ErrorKind int

const (
	InvalidLogLevel ErrorKind = iota + 1
	InvalidDuration
	InvalidValue
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidLogLevel:
		return "InvalidLogLevel"
	case InvalidDuration:
		return "InvalidDuration"
	case InvalidValue:
		return "InvalidValue"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case InvalidLogLevel:
		return ErrInvalidLogLevel
	case InvalidDuration:
		return ErrInvalidDuration
	default:
		return ErrInvalidValue
	}
}

// ConfigError reports the setting that failed to resolve. It matches the
// sentinel of its kind with errors.Is.
type ConfigError struct {
	Kind  ErrorKind
	Key   string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: %s: %s (got %T %v)", e.Key, e.Kind.sentinel(), e.Value, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newConfigError(kind ErrorKind, key string, value any, err error) *ConfigError {
	return &ConfigError{Kind: kind, Key: key, Value: value, Err: err}
}
