// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package instance

import (
	gocache "github.com/patrickmn/go-cache"
)

// Cache maps authority hosts to their MetadataEntry. Keys are used exactly as given.
// An entry is only added if its key is absent and is never removed.
type Cache struct {
	items *gocache.Cache
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	// No expiration and no janitor: entries live as long as the cache.
	return &Cache{items: gocache.New(gocache.NoExpiration, 0)}
}

// Get returns the entry for host.
func (c *Cache) Get(host string) (*MetadataEntry, bool) {
	v, ok := c.items.Get(host)
	if !ok {
		return nil, false
	}
	return v.(*MetadataEntry), true
}

// Add stores entry under host if host has no entry yet. It reports whether
// this call stored it.
func (c *Cache) Add(host string, entry *MetadataEntry) bool {
	return c.items.Add(host, entry, gocache.NoExpiration) == nil
}

// Len returns the number of hosts in the cache.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}
