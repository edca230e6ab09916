// Package config resolves the runtime configuration of the task-queue
// daemons. Every setting has a built-in default that an operator may override
// through a Provider; Resolve overlays the overrides, coerces them into their
// semantic types and returns an immutable *Config snapshot that is handed to
// workers, the beat scheduler and the monitor.
package config
