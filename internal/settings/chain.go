package settings

// Chain consults its sources in order; the first source that has a key wins.
type Chain []Source

// NewChain returns a Chain over sources, highest precedence first. Nil
// sources are skipped.
func NewChain(sources ...Source) Chain {
	chain := make(Chain, 0, len(sources))
	for _, s := range sources {
		if s != nil {
			chain = append(chain, s)
		}
	}
	return chain
}

// Get returns the first value set for key, typed against def, or def when no
// source sets the key.
func (c Chain) Get(key string, def any) any {
	for _, s := range c {
		if v, ok := s.Lookup(key); ok {
			return Decode(v, def)
		}
	}
	return def
}

// Lookup implements Source so chains can be nested.
func (c Chain) Lookup(key string) (any, bool) {
	for _, s := range c {
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}
