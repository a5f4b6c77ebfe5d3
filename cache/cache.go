package cache

import (
	"context"
	"time"
)

// Client caches the last configuration text retrieved from a device, keyed
// by device name and datastore source.
type Client interface {
	// store a config for a device source
	Put(ctx context.Context, device, source, config string)
	// read a cached config, a miss is reported when the entry is absent or expired
	Get(ctx context.Context, device, source string) (string, bool)
	// drop all entries of a device
	Invalidate(ctx context.Context, device string)
	// list devices with at least one live entry
	List(ctx context.Context) []string
	// disconnect from the cache
	Close() error
}

// New returns an in-memory cache whose entries expire after ttl.
func New(ttl time.Duration) Client {
	return newLocalCache(ttl)
}
