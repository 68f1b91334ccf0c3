package domain

import (
	"maps"
	"slices"
)

// PathCache records the instances created during one top-level build, keyed
// by their path ("Cart.Store.Name"). It is not safe for concurrent use.
type PathCache struct {
	instances map[string]any
}

// NewPathCache creates an empty cache.
func NewPathCache() *PathCache {
	return &PathCache{instances: make(map[string]any)}
}

// Register stores instance under path. The last write for a path wins.
func (c *PathCache) Register(path string, instance any) {
	c.instances[path] = instance
}

// Get returns the instance built at path.
func (c *PathCache) Get(path string) (any, bool) {
	instance, ok := c.instances[path]
	return instance, ok
}

// Paths returns the registered paths in sorted order.
func (c *PathCache) Paths() []string {
	return slices.Sorted(maps.Keys(c.instances))
}

// Clear drops every registered instance.
func (c *PathCache) Clear() {
	clear(c.instances)
}
