// Package cache stores extracted topologies and rendered layer views so that
// repeated requests over identical frames skip the extraction pass.
//
// Four backends implement [Cache]: [FileCache] for the CLI, [MemoryCache] for
// tests and single-process servers, [RedisCache] for shared deployments and
// [NullCache] when caching is disabled. Keys come from a [Keyer], which hashes
// the frame content together with everything that influences the result.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. The bool reports whether it was a hit;
	// expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default expiries.
const (
	TTLTopology = 24 * time.Hour
	TTLView     = 24 * time.Hour
)

// TopologyKeyOpts carries the inputs besides frame content that change an
// extraction result.
type TopologyKeyOpts struct {
	// ConfigHash identifies the column mapping in effect.
	ConfigHash string `json:"config"`
}

// ViewKeyOpts carries the inputs that change a rendered layer view.
type ViewKeyOpts struct {
	Layer  int    `json:"layer"`
	Layers int    `json:"layers"`
	Format string `json:"format,omitempty"`

	// RenderHash identifies the layer labels and drawing options.
	RenderHash string `json:"render,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	TopologyKey(framesHash string, opts TopologyKeyOpts) string
	ViewKey(topologyHash string, opts ViewKeyOpts) string
}

// DefaultKeyer hashes every key component into a fixed-length key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TopologyKey returns "topology:<sha256>".
func (DefaultKeyer) TopologyKey(framesHash string, opts TopologyKeyOpts) string {
	return hashKey("topology", framesHash, opts)
}

// ViewKey returns "view:<sha256>".
func (DefaultKeyer) ViewKey(topologyHash string, opts ViewKeyOpts) string {
	return hashKey("view", topologyHash, opts)
}
