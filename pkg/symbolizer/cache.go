// Copyright 2024 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symbolizer

import (
	"sync"
)

// Cache caches symbol tables of binaries in a thread-safe way.
// Failures are cached as well: a binary that had no symbols will not get them later.
type Cache struct {
	mu     sync.RWMutex
	tables map[string]cacheVal
}

type cacheVal struct {
	tab *Table
	err error
}

func (c *Cache) Table(bin string, load func(string) (*Table, error)) (*Table, error) {
	c.mu.RLock()
	val, ok := c.tables[bin]
	c.mu.RUnlock()
	if ok {
		return val.tab, val.err
	}
	tab, err := load(bin)
	c.mu.Lock()
	if c.tables == nil {
		c.tables = make(map[string]cacheVal)
	}
	c.tables[bin] = cacheVal{tab, err}
	c.mu.Unlock()
	return tab, err
}
