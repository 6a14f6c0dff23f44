// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used cache
of byte payloads.

Each entry carries a short tag next to its payload (the logo store keeps the
Content-Type there). When created with compression enabled via [New], payloads
are stored zstd-compressed whenever that makes them smaller, and are
transparently decompressed by [Cache.Get] and [Cache.Peek].
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type Cache struct {
	size  int
	order *list.List               // front is most recently used
	items map[string]*list.Element // key -> element holding *entry
	lock  sync.Mutex

	enc *zstd.Encoder // nil when compression is disabled
	dec *zstd.Decoder

	hits   atomic.Uint64
	misses atomic.Uint64
}

type entry struct {
	key        string
	tag        string
	data       []byte
	compressed bool
}

// Stats is a snapshot of cache usage.
type Stats struct {
	Len    int
	Hits   uint64
	Misses uint64
}

// New creates a cache holding at most size entries.
//
// It returns ErrInvalidSize if size is not a positive integer.
func New(size int, compress bool) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:  size,
		order: list.New(),
		items: make(map[string]*list.Element, size),
	}

	if compress {
		// nil writer/reader: only EncodeAll/DecodeAll are used, which are safe for concurrent calls.
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.enc, c.dec = enc, dec
	}

	return c, nil
}

// Add stores data under key, making it the most recently used entry.
//
// The payload is copied. Add reports whether an older entry was evicted to make room.
func (c *Cache) Add(key, tag string, data []byte) bool {
	stored, compressed := c.pack(data)

	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)

		ent := el.Value.(*entry)
		ent.tag, ent.data, ent.compressed = tag, stored, compressed

		return false
	}

	c.items[key] = c.order.PushFront(&entry{key: key, tag: tag, data: stored, compressed: compressed})

	if c.order.Len() <= c.size {
		return false
	}

	if oldest := c.order.Back(); oldest != nil {
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
	}

	return true
}

// Get returns the payload and tag for key and marks the entry as most recently used.
//
// The returned slice is owned by the caller.
func (c *Cache) Get(key string) ([]byte, string, bool) {
	return c.lookup(key, true)
}

// Peek is like Get but leaves the LRU order untouched and does not count towards Stats.
func (c *Cache) Peek(key string) ([]byte, string, bool) {
	return c.lookup(key, false)
}

func (c *Cache) lookup(key string, touch bool) ([]byte, string, bool) {
	c.lock.Lock()

	el, ok := c.items[key]
	if !ok {
		c.lock.Unlock()

		if touch {
			c.misses.Add(1)
		}

		return nil, "", false
	}

	if touch {
		c.order.MoveToFront(el)
	}

	ent := *el.Value.(*entry)

	c.lock.Unlock()

	data, err := c.unpack(ent.data, ent.compressed)
	if err != nil {
		return nil, "", false
	}

	if touch {
		c.hits.Add(1)
	}

	return data, ent.tag, true
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}

	c.order.Remove(el)
	delete(c.items, key)

	return true
}

// Keys returns every key, from the least to the most recently used.
func (c *Cache) Keys() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]string, 0, len(c.items))
	for el := c.order.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*entry).key)
	}

	return keys
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.order.Len()
}

// Stats returns a snapshot of the entry count and hit/miss counters.
func (c *Cache) Stats() Stats {
	return Stats{Len: c.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// pack compresses data when enabled and worthwhile, otherwise copies it.
// It runs without the lock held.
func (c *Cache) pack(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}

	if c.enc != nil {
		if packed := c.enc.EncodeAll(data, nil); len(packed) < len(data) {
			return packed, true
		}
	}

	return append([]byte(nil), data...), false
}

func (c *Cache) unpack(data []byte, compressed bool) ([]byte, error) {
	if !compressed {
		if data == nil {
			return nil, nil
		}

		return append([]byte(nil), data...), nil
	}

	return c.dec.DecodeAll(data, nil)
}
