package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

type entry struct {
	config    string
	expiresAt time.Time
}

type localCache struct {
	m   sync.RWMutex
	ttl time.Duration
	// device name -> source -> entry
	entries map[string]map[string]*entry

	now func() time.Time
}

func newLocalCache(ttl time.Duration) *localCache {
	return &localCache{
		ttl:     ttl,
		entries: make(map[string]map[string]*entry),
		now:     time.Now,
	}
}

func (c *localCache) Put(_ context.Context, device, source, config string) {
	c.m.Lock()
	defer c.m.Unlock()
	sources, ok := c.entries[device]
	if !ok {
		sources = make(map[string]*entry)
		c.entries[device] = sources
	}
	sources[source] = &entry{
		config:    config,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *localCache) Get(_ context.Context, device, source string) (string, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	e, ok := c.entries[device][source]
	if !ok {
		return "", false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries[device], source)
		return "", false
	}
	return e.config, true
}

func (c *localCache) Invalidate(_ context.Context, device string) {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.entries, device)
}

func (c *localCache) List(_ context.Context) []string {
	c.m.RLock()
	defer c.m.RUnlock()
	devices := make([]string, 0, len(c.entries))
	now := c.now()
	for device, sources := range c.entries {
		for _, e := range sources {
			if now.After(e.expiresAt) {
				continue
			}
			devices = append(devices, device)
			break
		}
	}
	sort.Strings(devices)
	return devices
}

func (c *localCache) Close() error {
	c.m.Lock()
	defer c.m.Unlock()
	c.entries = make(map[string]map[string]*entry)
	return nil
}
