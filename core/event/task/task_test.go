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

package task_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kvark/unseen/core/assert"
	"github.com/kvark/unseen/core/event/task"
	"github.com/kvark/unseen/core/log"
)

func TestSignalFires(t *testing.T) {
	ctx := log.Testing(t)
	signal, fire := task.NewSignal()
	assert.For(ctx, "before fire").That(signal.Fired()).IsFalse()
	fire(ctx)
	assert.For(ctx, "after fire").That(signal.Fired()).IsTrue()
	assert.For(ctx, "wait").That(signal.Wait(ctx)).IsTrue()
}

func TestSignalTryWaitTimeout(t *testing.T) {
	ctx := log.Testing(t)
	signal, _ := task.NewSignal()
	assert.For(ctx, "timeout").That(signal.TryWait(ctx, 5*time.Millisecond)).IsFalse()
}

func TestOnce(t *testing.T) {
	ctx := log.Testing(t)
	runs := 0
	once := task.Once(func(context.Context) error { runs++; return nil })
	once(ctx)
	once(ctx)
	assert.For(ctx, "runs").ThatInteger(runs).Equals(1)
}

func TestDirect(t *testing.T) {
	ctx := log.Testing(t)
	ran := false
	handle := task.Direct(ctx, func(context.Context) error { ran = true; return nil })
	assert.For(ctx, "ran").That(ran).IsTrue()
	assert.For(ctx, "result").ThatError(handle.Result(ctx)).Succeeded()
}

func TestPoolRunsEverything(t *testing.T) {
	ctx := log.Testing(t)
	executor, shutdown := task.Pool(4, 2)
	count := uint32(0)
	events := task.Events{}
	batched := task.Batch(executor, &events)
	for i := 0; i < 20; i++ {
		batched(ctx, func(context.Context) error {
			atomic.AddUint32(&count, 1)
			return nil
		})
	}
	assert.For(ctx, "drained").That(events.Wait(ctx, time.Second)).IsTrue()
	assert.For(ctx, "count").ThatInteger(int(atomic.LoadUint32(&count))).Equals(20)
	shutdown(ctx)
}

func TestTryPoolRejectsWhenFull(t *testing.T) {
	ctx := log.Testing(t)
	executor, shutdown := task.TryPool(1, 1)
	defer shutdown(ctx)

	release := make(chan struct{})
	started := make(chan struct{})
	blocker := func(context.Context) error {
		close(started)
		<-release
		return nil
	}
	_, accepted := executor(ctx, blocker)
	assert.For(ctx, "first").That(accepted).IsTrue()
	<-started

	// The worker is busy; one more fits in the queue, the rest bounce.
	_, queued := executor(ctx, task.Noop())
	assert.For(ctx, "queued").That(queued).IsTrue()
	_, overflow := executor(ctx, task.Noop())
	assert.For(ctx, "overflow").That(overflow).IsFalse()

	close(release)
}

func TestTryPoolDrainsQueuedOnShutdown(t *testing.T) {
	ctx := log.Testing(t)
	executor, shutdown := task.TryPool(4, 1)
	count := uint32(0)
	events := task.Events{}
	for i := 0; i < 4; i++ {
		handle, accepted := executor(ctx, func(context.Context) error {
			atomic.AddUint32(&count, 1)
			return nil
		})
		assert.For(ctx, "accepted %v", i).That(accepted).IsTrue()
		events.Add(handle)
	}
	shutdown(ctx)
	assert.For(ctx, "drained").That(events.Wait(ctx, time.Second)).IsTrue()
	assert.For(ctx, "count").ThatInteger(int(atomic.LoadUint32(&count))).Equals(4)

	_, accepted := executor(ctx, task.Noop())
	assert.For(ctx, "after shutdown").That(accepted).IsFalse()
}

func TestEventsPending(t *testing.T) {
	ctx := log.Testing(t)
	events := task.Events{}
	signal, fire := task.NewSignal()
	events.Add(signal)
	assert.For(ctx, "pending").ThatInteger(events.Pending()).Equals(1)
	fire(ctx)
	assert.For(ctx, "after fire").ThatInteger(events.Pending()).Equals(0)
	assert.For(ctx, "wait").That(events.Wait(ctx, time.Second)).IsTrue()
}
