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

import "context"

// Handle is a reference to a running task submitted to an executor.
// It can be used to check if the task has completed and get its error result
// if it has one.
type Handle struct {
	Signal
	err *error
}

// Result returns the error result of the task.
// It will block until the task has completed or the context is cancelled.
func (h Handle) Result(ctx context.Context) error {
	if !h.Signal.Wait(ctx) {
		return StopReason(ctx)
	}
	return *h.err
}

// Runner is the type for a task that has been prepared to run by an
// executor. Invoking the runner will execute the underlying task, and
// trigger the signal when it completes.
type Runner func()

// Prepare builds a new Handle, Runner pair for a Task.
// The handle's signal will be closed when the task completes. The returned
// runner must be executed exactly once.
// In general this is only used by Executor implementations when scheduling
// new tasks.
func Prepare(ctx context.Context, task Task) (Handle, Runner) {
	var result error
	signal, fire := NewSignal()
	runner := func() {
		defer fire(ctx)
		if Stopped(ctx) {
			result = StopReason(ctx)
		} else {
			result = task(ctx)
		}
	}
	return Handle{signal, &result}, runner
}
