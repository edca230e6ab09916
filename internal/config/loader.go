package config

import "sync"

// Loader resolves a Provider exactly once. Concurrent callers of Load block
// until the single resolution finishes and then share its result.
type Loader struct {
	provider Provider

	once sync.Once
	cfg  *Config
	err  error
}

// NewLoader returns a Loader over p. Nothing is read until Load is called.
func NewLoader(p Provider) *Loader {
	return &Loader{provider: p}
}

// Load returns the snapshot, resolving it on first use.
func (l *Loader) Load() (*Config, error) {
	l.once.Do(func() {
		l.cfg, l.err = Resolve(l.provider)
	})
	return l.cfg, l.err
}
