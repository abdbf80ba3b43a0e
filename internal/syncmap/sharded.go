// MIT License
//
// Copyright (c) 2022-2026 ActorPool Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package syncmap

import "github.com/zeebo/xxh3"

// shardCount must be a power of two so the shard index reduces to a mask.
const shardCount = 32

// Sharded is a string-keyed concurrent map split across a fixed number of
// shards to reduce lock contention on hot tables (actor registry, pending
// ask table). Shard selection hashes the key with xxh3.
type Sharded[V any] struct {
	shards [shardCount]*Map[string, V]
}

// NewSharded creates an empty Sharded map.
func NewSharded[V any]() *Sharded[V] {
	s := new(Sharded[V])
	for i := range s.shards {
		s.shards[i] = New[string, V]()
	}
	return s
}

func (s *Sharded[V]) shard(key string) *Map[string, V] {
	return s.shards[xxh3.HashString(key)&(shardCount-1)]
}

// Set stores a key-value pair.
func (s *Sharded[V]) Set(key string, v V) {
	s.shard(key).Set(key, v)
}

// Get returns the value associated with the given key.
func (s *Sharded[V]) Get(key string) (V, bool) {
	return s.shard(key).Get(key)
}

// GetOrSet returns the existing value for the key if present; otherwise it
// stores and returns the given value.
func (s *Sharded[V]) GetOrSet(key string, v V) (V, bool) {
	return s.shard(key).GetOrSet(key, v)
}

// Delete removes the entry for the given key if present.
func (s *Sharded[V]) Delete(key string) {
	s.shard(key).Delete(key)
}

// Take removes and returns the entry for the given key.
func (s *Sharded[V]) Take(key string) (V, bool) {
	return s.shard(key).Take(key)
}

// Len returns the total number of entries across all shards.
func (s *Sharded[V]) Len() int {
	total := 0
	for _, shard := range s.shards {
		total += shard.Len()
	}
	return total
}

// Range calls f for every entry across all shards.
func (s *Sharded[V]) Range(f func(string, V)) {
	for _, shard := range s.shards {
		shard.Range(f)
	}
}

// Reset removes all entries from all shards.
func (s *Sharded[V]) Reset() {
	for _, shard := range s.shards {
		shard.Reset()
	}
}
