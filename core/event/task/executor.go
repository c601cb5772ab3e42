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

package task

import (
	"context"
	"sync"
)

// Executor is the signature for a function that executes a Task.
// When the task is invoked depends on the specific Executor.
// The returned handle can be used to wait for the task to complete and
// collect its error return value.
type Executor func(ctx context.Context, task Task) Handle

// Direct is a synchronous implementation of an Executor that runs the task
// before returning. In general it is easier to just invoke the task, so this
// is only used in cases where you want to hand the Executor to something
// that is agnostic about how tasks are scheduled.
func Direct(ctx context.Context, task Task) Handle {
	h, r := Prepare(ctx, task)
	r()
	return h
}

// Go is an asynchronous implementation of an Executor that starts a new
// goroutine to run the task.
func Go(ctx context.Context, task Task) Handle {
	h, r := Prepare(ctx, task)
	go r()
	return h
}

// Pool returns a new Executor that uses a pool of goroutines to run the
// tasks, and a Task that shuts down the pool.
// The number of goroutines in the pool is controlled by parallel, and it
// must be greater than 0. The length of the submission queue is controlled
// by queue; the executor blocks while the queue is full.
// The shutdown task may only be called once, and it is an error to call the
// executor again after the shutdown task has run.
func Pool(queue int, parallel int) (Executor, Task) {
	q := make(chan Runner, queue)
	for i := 0; i < parallel; i++ {
		go func() {
			for r := range q {
				r()
			}
		}()
	}
	executor := func(ctx context.Context, task Task) Handle {
		h, r := Prepare(ctx, task)
		q <- r
		return h
	}
	shutdown := func(context.Context) error {
		close(q)
		return nil
	}
	return executor, shutdown
}

// TryPool is like Pool except that submission never blocks.
// The returned TryExecutor reports whether the task was accepted; when the
// queue is full the task is rejected instead of queued, which makes it
// suitable for best-effort work that must not stall the submitting thread.
// The shutdown task stops accepting new work and lets already queued tasks
// drain.
func TryPool(queue int, parallel int) (TryExecutor, Task) {
	p := &tryPool{q: make(chan Runner, queue)}
	for i := 0; i < parallel; i++ {
		go func() {
			for r := range p.q {
				r()
			}
		}()
	}
	return p.submit, p.shutdown
}

type tryPool struct {
	mutex  sync.Mutex
	q      chan Runner
	closed bool
}

func (p *tryPool) submit(ctx context.Context, task Task) (Handle, bool) {
	h, r := Prepare(ctx, task)
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return h, false
	}
	select {
	case p.q <- r:
		return h, true
	default:
		return h, false
	}
}

func (p *tryPool) shutdown(context.Context) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if !p.closed {
		p.closed = true
		close(p.q)
	}
	return nil
}

// TryExecutor is an Executor variant that can reject a task instead of
// blocking on submission.
type TryExecutor func(ctx context.Context, task Task) (Handle, bool)

// Batch returns an executor that uses the supplied executor to run tasks,
// and automatically adds the completion signals for those tasks to the
// supplied Events list.
func Batch(executor Executor, events *Events) Executor {
	return func(ctx context.Context, task Task) Handle {
		h := executor(ctx, task)
		events.Add(h)
		return h
	}
}
