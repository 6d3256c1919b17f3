package cache

// ScopedKeyer prefixes every key produced by an inner Keyer. The server uses
// it to keep its entries apart from CLI entries when both share one Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TopologyKey returns the prefixed topology key.
func (k *ScopedKeyer) TopologyKey(framesHash string, opts TopologyKeyOpts) string {
	return k.prefix + k.inner.TopologyKey(framesHash, opts)
}

// ViewKey returns the prefixed view key.
func (k *ScopedKeyer) ViewKey(topologyHash string, opts ViewKeyOpts) string {
	return k.prefix + k.inner.ViewKey(topologyHash, opts)
}
