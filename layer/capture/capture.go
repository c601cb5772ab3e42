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

// Package capture turns presented frames into image files on disk.
//
// The hot path only reserves a staging buffer and queues work; pixel
// conversion, encoding and file IO all happen on a bounded worker pool.
// Whenever keeping up would mean stalling the application the pipeline
// drops the frame instead: full queue, exhausted staging pool and
// readback timeouts all count as drops, never as errors.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/kvark/unseen/core/event/task"
	"github.com/kvark/unseen/core/image"
	"github.com/kvark/unseen/core/log"
	"github.com/kvark/unseen/layer/config"
)

// Capturer owns the worker pool and output directory shared by all capture
// streams of a process.
type Capturer struct {
	cfg      config.Config
	exec     task.TryExecutor
	shutdown task.Task

	captured       uint64
	droppedQueue   uint64
	droppedStaging uint64
	timedOut       uint64
	failed         uint64
}

// Stats is a snapshot of the capturer's frame accounting.
type Stats struct {
	// Captured frames were written to disk.
	Captured uint64
	// DroppedQueue frames were dropped because the worker queue was full.
	DroppedQueue uint64
	// DroppedStaging frames were dropped because no staging buffer was
	// free.
	DroppedStaging uint64
	// TimedOut frames were dropped because their readback did not complete
	// within the configured timeout.
	TimedOut uint64
	// Failed frames hit a conversion, encoding or IO error.
	Failed uint64
}

// New returns a capturer writing to cfg.OutputDir.
// The output directory is created and probed for writability up front, so a
// misconfiguration surfaces at load time rather than as silently missing
// frames later.
func New(ctx context.Context, cfg config.Config) (*Capturer, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating capture directory %q", cfg.OutputDir)
	}
	probe := filepath.Join(cfg.OutputDir, ".probe")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return nil, errors.Wrapf(err, "capture directory %q is not writable", cfg.OutputDir)
	}
	os.Remove(probe)

	exec, shutdown := task.TryPool(cfg.QueueDepth, cfg.Workers)
	log.I(ctx, "frame capture ready: dir=%v format=%v workers=%v queue=%v",
		cfg.OutputDir, cfg.Format, cfg.Workers, cfg.QueueDepth)
	return &Capturer{cfg: cfg, exec: exec, shutdown: shutdown}, nil
}

// Config returns the configuration the capturer was built with.
func (c *Capturer) Config() config.Config { return c.cfg }

// Stats returns a snapshot of the frame accounting.
func (c *Capturer) Stats() Stats {
	return Stats{
		Captured:       atomic.LoadUint64(&c.captured),
		DroppedQueue:   atomic.LoadUint64(&c.droppedQueue),
		DroppedStaging: atomic.LoadUint64(&c.droppedStaging),
		TimedOut:       atomic.LoadUint64(&c.timedOut),
		Failed:         atomic.LoadUint64(&c.failed),
	}
}

// Close stops accepting frames and lets already queued frames drain.
// Streams should be drained individually before closing the capturer.
func (c *Capturer) Close(ctx context.Context) error {
	stats := c.Stats()
	log.I(ctx, "frame capture stopping: captured=%v dropped=%v timeouts=%v failures=%v",
		stats.Captured, stats.DroppedQueue+stats.DroppedStaging, stats.TimedOut, stats.Failed)
	return c.shutdown(ctx)
}

// process runs on a worker goroutine. It owns the frame's staging buffer
// and must release it on every path.
func (c *Capturer) process(ctx context.Context, s *Stream, f Frame) error {
	defer f.Release()

	if f.Wait != nil {
		if err := f.Wait(ctx); err != nil {
			atomic.AddUint64(&c.timedOut, 1)
			log.W(ctx, "dropping frame %v of %v: readback incomplete: %v", f.Index, s.name, err)
			return nil
		}
	}

	pixels, err := image.Convert(f.Data, f.Width, f.Height, f.RowPitch, f.Format, image.RGB_U8_NORM)
	if err != nil {
		atomic.AddUint64(&c.failed, 1)
		log.W(ctx, "frame %v of %v: %v", f.Index, s.name, err)
		return err
	}

	var buf bytes.Buffer
	switch c.cfg.Format {
	case config.FormatPNG:
		err = image.EncodePNG(&buf, pixels, f.Width, f.Height)
	default:
		err = image.EncodePPM(&buf, pixels, f.Width, f.Height)
	}
	if err != nil {
		atomic.AddUint64(&c.failed, 1)
		log.W(ctx, "frame %v of %v: %v", f.Index, s.name, err)
		return err
	}

	name := fmt.Sprintf("%s_frame_%05d.%s", s.name, f.Index, c.cfg.Format)
	path := filepath.Join(c.cfg.OutputDir, name)
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		atomic.AddUint64(&c.failed, 1)
		log.W(ctx, "frame %v of %v: %v", f.Index, s.name, err)
		return err
	}

	if c.cfg.Thumbnails {
		if err := c.writeThumbnail(s, f, pixels); err != nil {
			// A bad thumbnail does not invalidate the full frame.
			log.W(ctx, "thumbnail for frame %v of %v: %v", f.Index, s.name, err)
		}
	}

	atomic.AddUint64(&c.captured, 1)
	log.D(ctx, "captured %v", path)
	return nil
}

func (c *Capturer) writeThumbnail(s *Stream, f Frame, pixels []byte) error {
	var buf bytes.Buffer
	if err := image.EncodeThumbnail(&buf, pixels, f.Width, f.Height, c.cfg.ThumbnailSize); err != nil {
		return err
	}
	name := fmt.Sprintf("%s_frame_%05d_thumb.png", s.name, f.Index)
	return writeAtomic(filepath.Join(c.cfg.OutputDir, name), buf.Bytes())
}

// writeAtomic writes data to path through a temporary file and a rename, so
// a reader never observes a half-written frame.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(err, "writing frame")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "publishing frame")
	}
	return nil
}
