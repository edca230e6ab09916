package config

import (
	"fmt"
	"strings"
)

// Severity is a daemon log level.
type Severity int

// Severity levels, ordered from most to least verbose.
const (
	SeverityDebug Severity = iota + 1
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
	SeverityFatal
)

var severityNames = map[Severity]string{
	SeverityDebug:    "DEBUG",
	SeverityInfo:     "INFO",
	SeverityWarning:  "WARNING",
	SeverityError:    "ERROR",
	SeverityCritical: "CRITICAL",
	SeverityFatal:    "FATAL",
}

// severityLookup maps upper-cased input to a level. WARN is accepted because
// it is the historical default of the worker daemon.
var severityLookup = map[string]Severity{
	"DEBUG":    SeverityDebug,
	"INFO":     SeverityInfo,
	"WARNING":  SeverityWarning,
	"WARN":     SeverityWarning,
	"ERROR":    SeverityError,
	"CRITICAL": SeverityCritical,
	"FATAL":    SeverityFatal,
}

// ParseSeverity normalizes a level name case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	if sev, ok := severityLookup[strings.ToUpper(name)]; ok {
		return sev, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, name)
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if _, ok := severityNames[s]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLogLevel, int(s))
	}
	return []byte(s.String()), nil
}
