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

package capture

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kvark/unseen/core/event/task"
	"github.com/kvark/unseen/core/image"
	"github.com/kvark/unseen/core/log"
)

// Frame is one frame handed to the worker pool. Its Data lives in a
// staging buffer the frame owns until Release.
type Frame struct {
	// Index is the stream-local frame number, used in the file name.
	Index uint64
	// Format is the pixel format of Data.
	Format *image.Format
	// Width and Height are the frame dimensions in pixels.
	Width, Height int
	// RowPitch is the byte stride between rows of Data. 0 means packed.
	RowPitch int
	// Data holds the frame pixels, possibly not yet complete when Wait is
	// set.
	Data []byte
	// Wait, when non-nil, blocks until Data is complete. It returns an
	// error when the frame should be dropped.
	Wait func(ctx context.Context) error
	// Release returns the staging buffer to its pool. Called exactly once
	// by the pipeline, on every path.
	Release func()
}

// Stream captures the frames of one swapchain. Frames of different streams
// share the capturer's workers but never block each other: each stream has
// its own staging pool and its own in-flight accounting.
type Stream struct {
	capturer *Capturer
	name     string
	staging  *Pool
	enabled  bool

	next      uint64
	scheduled uint64
	pending   task.Events
}

// NewStream returns a stream named name capturing frames of imageSize
// bytes. The name becomes the file name prefix and is matched against the
// configured filter.
func (c *Capturer) NewStream(ctx context.Context, name string, imageSize int) *Stream {
	enabled := c.cfg.Enabled
	if f := c.cfg.Filter; enabled && f != "" && !strings.Contains(name, f) {
		log.D(ctx, "%v does not match capture filter %q, not capturing", name, f)
		enabled = false
	}
	return &Stream{
		capturer: c,
		name:     name,
		staging:  NewPool(c.cfg.StagingBuffers, imageSize),
		enabled:  enabled,
	}
}

// Name returns the stream's file name prefix.
func (s *Stream) Name() string { return s.name }

// NextFrame consumes the next frame index and reports whether that frame
// should be captured. Every presented frame consumes an index, captured or
// not, so file names always reflect the true presentation order.
func (s *Stream) NextFrame() (uint64, bool) {
	index := atomic.AddUint64(&s.next, 1) - 1
	if !s.enabled {
		return index, false
	}
	cfg := s.capturer.cfg
	if index%uint64(cfg.Frequency) != 0 {
		return index, false
	}
	if cfg.MaxFrames > 0 && atomic.LoadUint64(&s.scheduled) >= cfg.MaxFrames {
		return index, false
	}
	atomic.AddUint64(&s.scheduled, 1)
	return index, true
}

// Reserve takes a staging buffer for one frame's readback.
// Returns false, counting the frame as dropped, when the pool is empty.
func (s *Stream) Reserve(ctx context.Context) (*Buffer, bool) {
	buffer, ok := s.staging.Reserve()
	if !ok {
		atomic.AddUint64(&s.capturer.droppedStaging, 1)
		log.W(ctx, "dropping frame of %v: no staging buffer free", s.name)
		return nil, false
	}
	return buffer, true
}

// Capture queues the frame for processing. The frame's staging buffer is
// released by the pipeline on every path, including rejection.
// Returns false, counting the frame as dropped, when the worker queue is
// full.
func (s *Stream) Capture(ctx context.Context, frame Frame) bool {
	handle, ok := s.capturer.exec(ctx, func(ctx context.Context) error {
		return s.capturer.process(ctx, s, frame)
	})
	if !ok {
		frame.Release()
		atomic.AddUint64(&s.capturer.droppedQueue, 1)
		log.W(ctx, "dropping frame %v of %v: capture queue full", frame.Index, s.name)
		return false
	}
	s.pending.Add(handle)
	return true
}

// InFlight returns the number of queued frames not yet fully processed.
func (s *Stream) InFlight() int { return s.pending.Pending() }

// Drain blocks until every queued frame of this stream has been processed,
// the timeout expires or the context is cancelled. Returns true when the
// stream is fully drained.
func (s *Stream) Drain(ctx context.Context, timeout time.Duration) bool {
	if !s.pending.Wait(ctx, timeout) {
		log.W(ctx, "%v still has %v frames in flight after %v", s.name, s.pending.Pending(), timeout)
		return false
	}
	return true
}
