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

package registry_test

import (
	"sync"
	"testing"

	"github.com/kvark/unseen/core/assert"
	"github.com/kvark/unseen/core/log"
	"github.com/kvark/unseen/layer/registry"
	"github.com/kvark/unseen/vulkan"
)

func TestTableRegisterLookup(t *testing.T) {
	ctx := log.Testing(t)
	table := registry.NewTable[vulkan.SwapchainKHR, string]()

	err := table.Register(1, "one")
	assert.For(ctx, "register").ThatError(err).Succeeded()

	record, err := table.Lookup(1)
	assert.For(ctx, "lookup").ThatError(err).Succeeded()
	assert.For(ctx, "record").ThatString(record).Equals("one")

	_, err = table.Lookup(2)
	assert.For(ctx, "missing").ThatError(err).Equals(registry.ErrNotFound)
}

func TestTableDuplicate(t *testing.T) {
	ctx := log.Testing(t)
	table := registry.NewTable[vulkan.Device, int]()
	table.Register(7, 1)
	err := table.Register(7, 2)
	assert.For(ctx, "duplicate").ThatError(err).Equals(registry.ErrDuplicateHandle)

	record, err := table.Lookup(7)
	assert.For(ctx, "lookup").ThatError(err).Succeeded()
	assert.For(ctx, "kept original").ThatInteger(record).Equals(1)
}

func TestTableUnregister(t *testing.T) {
	ctx := log.Testing(t)
	table := registry.NewTable[vulkan.Instance, string]()
	table.Register(3, "three")

	record, err := table.Unregister(3)
	assert.For(ctx, "unregister").ThatError(err).Succeeded()
	assert.For(ctx, "record").ThatString(record).Equals("three")

	_, err = table.Unregister(3)
	assert.For(ctx, "stale").ThatError(err).Equals(registry.ErrStaleHandle)
	_, err = table.Lookup(3)
	assert.For(ctx, "gone").ThatError(err).Equals(registry.ErrNotFound)
}

func TestTableCountAndRange(t *testing.T) {
	ctx := log.Testing(t)
	table := registry.NewTable[vulkan.Image, int]()
	for i := 1; i <= 40; i++ {
		table.Register(vulkan.Image(i), i)
	}
	assert.For(ctx, "count").ThatInteger(table.Count()).Equals(40)

	sum := 0
	table.Range(func(handle vulkan.Image, record int) bool {
		sum += record
		return true
	})
	assert.For(ctx, "sum").ThatInteger(sum).Equals(40 * 41 / 2)

	seen := 0
	table.Range(func(vulkan.Image, int) bool {
		seen++
		return false
	})
	assert.For(ctx, "early out").ThatInteger(seen).Equals(1)
}

func TestTableConcurrent(t *testing.T) {
	ctx := log.Testing(t)
	table := registry.NewTable[vulkan.Queue, int]()
	wg := sync.WaitGroup{}
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				handle := vulkan.Queue(g*1000 + i)
				table.Register(handle, i)
				table.Lookup(handle)
				if i%2 == 0 {
					table.Unregister(handle)
				}
			}
		}(g)
	}
	wg.Wait()
	assert.For(ctx, "count").ThatInteger(table.Count()).Equals(8 * 50)
}
