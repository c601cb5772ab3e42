// Copyright (C) 2026 The Unseen Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package registry provides thread-safe tables mapping opaque API handles
// to the layer's private records.
//
// Each handle namespace (instances, devices, swapchains, ...) gets its own
// Table. Tables are sharded so that lookups for unrelated handles do not
// contend on a single lock, which matters on the per-present hot path.
package registry

import (
	"sync"

	"github.com/kvark/unseen/core/fault"
)

// The table errors.
const (
	// ErrDuplicateHandle is returned by Register when the handle is already
	// present. It indicates a contract violation upstream, the same handle
	// value was produced twice without an intervening destroy.
	ErrDuplicateHandle = fault.Const("duplicate handle")
	// ErrNotFound is returned by Lookup for handles that were never
	// registered or have already been unregistered.
	ErrNotFound = fault.Const("handle not found")
	// ErrStaleHandle is returned by Unregister when the handle is not
	// present. Unregistering twice is a caller bug.
	ErrStaleHandle = fault.Const("stale handle")
)

const shardCount = 16

// Table is a sharded map from a handle namespace to records of type V.
// All methods are safe for concurrent use.
type Table[K ~uint64, V any] struct {
	shards [shardCount]shard[K, V]
}

type shard[K ~uint64, V any] struct {
	mutex   sync.RWMutex
	entries map[K]V
}

// NewTable returns an empty handle table.
func NewTable[K ~uint64, V any]() *Table[K, V] {
	t := &Table[K, V]{}
	for i := range t.shards {
		t.shards[i].entries = map[K]V{}
	}
	return t
}

func (t *Table[K, V]) shard(handle K) *shard[K, V] {
	return &t.shards[uint64(handle)%shardCount]
}

// Register inserts the record for the handle.
// Returns ErrDuplicateHandle if the handle is already registered.
func (t *Table[K, V]) Register(handle K, record V) error {
	s := t.shard(handle)
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, present := s.entries[handle]; present {
		return ErrDuplicateHandle
	}
	s.entries[handle] = record
	return nil
}

// Lookup returns the record for the handle.
// Returns ErrNotFound for unknown handles.
func (t *Table[K, V]) Lookup(handle K) (V, error) {
	s := t.shard(handle)
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	record, present := s.entries[handle]
	if !present {
		var zero V
		return zero, ErrNotFound
	}
	return record, nil
}

// Unregister removes the handle and returns its record, transferring
// ownership of the record to the caller for teardown.
// Returns ErrStaleHandle if the handle is not registered.
func (t *Table[K, V]) Unregister(handle K) (V, error) {
	s := t.shard(handle)
	s.mutex.Lock()
	defer s.mutex.Unlock()
	record, present := s.entries[handle]
	if !present {
		var zero V
		return zero, ErrStaleHandle
	}
	delete(s.entries, handle)
	return record, nil
}

// Count returns the number of registered handles.
func (t *Table[K, V]) Count() int {
	n := 0
	for i := range t.shards {
		s := &t.shards[i]
		s.mutex.RLock()
		n += len(s.entries)
		s.mutex.RUnlock()
	}
	return n
}

// Range calls f for each registered handle until f returns false.
// f sees a snapshot of each shard and may mutate the table, so entries
// registered or unregistered concurrently may or may not be visited.
func (t *Table[K, V]) Range(f func(handle K, record V) bool) {
	type entry struct {
		handle K
		record V
	}
	for i := range t.shards {
		s := &t.shards[i]
		s.mutex.RLock()
		entries := make([]entry, 0, len(s.entries))
		for handle, record := range s.entries {
			entries = append(entries, entry{handle, record})
		}
		s.mutex.RUnlock()
		for _, e := range entries {
			if !f(e.handle, e.record) {
				return
			}
		}
	}
}
