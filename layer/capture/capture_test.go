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

package capture_test

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kvark/unseen/core/assert"
	"github.com/kvark/unseen/core/image"
	"github.com/kvark/unseen/core/log"
	"github.com/kvark/unseen/layer/capture"
	"github.com/kvark/unseen/layer/config"
)

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	return cfg
}

// submitBGRA pushes one solid-color 2x2 BGRA frame through the stream.
func submitBGRA(ctx context.Context, s *capture.Stream, b, g, r byte) bool {
	index, want := s.NextFrame()
	if !want {
		return false
	}
	buffer, ok := s.Reserve(ctx)
	if !ok {
		return false
	}
	for i := 0; i < 4; i++ {
		copy(buffer.Data[i*4:], []byte{b, g, r, 0xff})
	}
	return s.Capture(ctx, capture.Frame{
		Index:   index,
		Format:  image.BGRA_U8_NORM,
		Width:   2,
		Height:  2,
		Data:    buffer.Data,
		Release: buffer.Release,
	})
}

func readPPM(ctx context.Context, path string) (image.PPMHeader, []byte) {
	f, err := os.Open(path)
	assert.For(ctx, "open %v", path).Critical().ThatError(err).Succeeded()
	defer f.Close()
	header, pixels, err := image.DecodePPM(bufio.NewReader(f))
	assert.For(ctx, "decode %v", path).Critical().ThatError(err).Succeeded()
	return header, pixels
}

func TestCaptureWritesFrames(t *testing.T) {
	ctx := log.Testing(t)
	cfg := testConfig(t)
	c, err := capture.New(ctx, cfg)
	assert.For(ctx, "new").Critical().ThatError(err).Succeeded()
	defer c.Close(ctx)

	s := c.NewStream(ctx, "swapchain_1", 16)
	for i := 0; i < 3; i++ {
		assert.For(ctx, "submit %v", i).That(submitBGRA(ctx, s, byte(i), 0x20, 0x30)).IsTrue()
	}
	assert.For(ctx, "drain").That(s.Drain(ctx, time.Second)).IsTrue()

	for i := 0; i < 3; i++ {
		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("swapchain_1_frame_%05d.ppm", i))
		header, pixels := readPPM(ctx, path)
		assert.For(ctx, "dimensions %v", i).That([2]int{header.Width, header.Height}).Equals([2]int{2, 2})
		// BGRA source swizzled to RGB.
		assert.For(ctx, "pixel %v", i).ThatSlice(pixels[:3]).Equals([]byte{0x30, 0x20, byte(i)})
	}
	assert.For(ctx, "captured").ThatInteger(int(c.Stats().Captured)).Equals(3)
}

func TestCaptureFrequency(t *testing.T) {
	ctx := log.Testing(t)
	cfg := testConfig(t)
	cfg.Frequency = 2
	c, err := capture.New(ctx, cfg)
	assert.For(ctx, "new").Critical().ThatError(err).Succeeded()
	defer c.Close(ctx)

	s := c.NewStream(ctx, "swapchain_1", 16)
	captured := 0
	for i := 0; i < 5; i++ {
		if submitBGRA(ctx, s, 0, 0, 0) {
			captured++
		}
	}
	assert.For(ctx, "scheduled").ThatInteger(captured).Equals(3)
	assert.For(ctx, "drain").That(s.Drain(ctx, time.Second)).IsTrue()

	// Indices 0, 2 and 4; the skipped frames kept their numbers.
	for _, i := range []int{0, 2, 4} {
		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("swapchain_1_frame_%05d.ppm", i))
		_, err := os.Stat(path)
		assert.For(ctx, "frame %v exists", i).ThatError(err).Succeeded()
	}
	for _, i := range []int{1, 3} {
		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("swapchain_1_frame_%05d.ppm", i))
		_, err := os.Stat(path)
		assert.For(ctx, "frame %v skipped", i).ThatError(err).Failed()
	}
}

func TestCaptureMaxFrames(t *testing.T) {
	ctx := log.Testing(t)
	cfg := testConfig(t)
	cfg.MaxFrames = 2
	c, err := capture.New(ctx, cfg)
	assert.For(ctx, "new").Critical().ThatError(err).Succeeded()
	defer c.Close(ctx)

	s := c.NewStream(ctx, "swapchain_1", 16)
	captured := 0
	for i := 0; i < 5; i++ {
		if submitBGRA(ctx, s, 0, 0, 0) {
			captured++
		}
	}
	assert.For(ctx, "scheduled").ThatInteger(captured).Equals(2)
	assert.For(ctx, "drain").That(s.Drain(ctx, time.Second)).IsTrue()
	assert.For(ctx, "captured").ThatInteger(int(c.Stats().Captured)).Equals(2)
}

func TestCaptureFilter(t *testing.T) {
	ctx := log.Testing(t)
	cfg := testConfig(t)
	cfg.Filter = "swapchain_7"
	c, err := capture.New(ctx, cfg)
	assert.For(ctx, "new").Critical().ThatError(err).Succeeded()
	defer c.Close(ctx)

	matched := c.NewStream(ctx, "swapchain_7", 16)
	other := c.NewStream(ctx, "swapchain_8", 16)
	assert.For(ctx, "matched").That(submitBGRA(ctx, matched, 0, 0, 0)).IsTrue()
	assert.For(ctx, "other").That(submitBGRA(ctx, other, 0, 0, 0)).IsFalse()
}

func TestCaptureReadbackTimeout(t *testing.T) {
	ctx := log.Testing(t)
	cfg := testConfig(t)
	c, err := capture.New(ctx, cfg)
	assert.For(ctx, "new").Critical().ThatError(err).Succeeded()
	defer c.Close(ctx)

	s := c.NewStream(ctx, "swapchain_1", 16)
	index, want := s.NextFrame()
	assert.For(ctx, "want").Critical().That(want).IsTrue()
	buffer, ok := s.Reserve(ctx)
	assert.For(ctx, "reserve").Critical().That(ok).IsTrue()
	s.Capture(ctx, capture.Frame{
		Index:   index,
		Format:  image.BGRA_U8_NORM,
		Width:   2,
		Height:  2,
		Data:    buffer.Data,
		Wait:    func(context.Context) error { return fmt.Errorf("fence wait returned VK_TIMEOUT") },
		Release: buffer.Release,
	})
	assert.For(ctx, "drain").That(s.Drain(ctx, time.Second)).IsTrue()

	stats := c.Stats()
	assert.For(ctx, "timed out").ThatInteger(int(stats.TimedOut)).Equals(1)
	assert.For(ctx, "captured").ThatInteger(int(stats.Captured)).Equals(0)
	// The staging buffer came back to the pool.
	_, ok = s.Reserve(ctx)
	assert.For(ctx, "buffer returned").That(ok).IsTrue()
}

func TestCaptureQueueFullDrops(t *testing.T) {
	ctx := log.Testing(t)
	cfg := testConfig(t)
	cfg.Workers = 1
	cfg.QueueDepth = 1
	c, err := capture.New(ctx, cfg)
	assert.For(ctx, "new").Critical().ThatError(err).Succeeded()
	defer c.Close(ctx)

	s := c.NewStream(ctx, "swapchain_1", 16)
	release := make(chan struct{})
	started := make(chan struct{})
	defer close(release)

	submit := func(name string, wait func(context.Context) error) bool {
		index, _ := s.NextFrame()
		buffer, ok := s.Reserve(ctx)
		assert.For(ctx, "reserve for %v", name).Critical().That(ok).IsTrue()
		return s.Capture(ctx, capture.Frame{
			Index:   index,
			Format:  image.BGRA_U8_NORM,
			Width:   2,
			Height:  2,
			Data:    buffer.Data,
			Wait:    wait,
			Release: buffer.Release,
		})
	}

	// The first frame parks the only worker, the second fills the queue,
	// everything after that must be dropped.
	ok := submit("parked", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	assert.For(ctx, "parked").That(ok).IsTrue()
	<-started
	parked := func(context.Context) error { <-release; return nil }
	assert.For(ctx, "queued").That(submit("queued", parked)).IsTrue()
	for i := 0; i < 4; i++ {
		assert.For(ctx, "overflow %v", i).That(submit("overflow", parked)).IsFalse()
	}
	assert.For(ctx, "dropped").ThatInteger(int(c.Stats().DroppedQueue)).Equals(4)
}

func TestCaptureThumbnails(t *testing.T) {
	ctx := log.Testing(t)
	cfg := testConfig(t)
	cfg.Thumbnails = true
	cfg.ThumbnailSize = 16
	c, err := capture.New(ctx, cfg)
	assert.For(ctx, "new").Critical().ThatError(err).Succeeded()
	defer c.Close(ctx)

	s := c.NewStream(ctx, "swapchain_1", 16)
	assert.For(ctx, "submit").That(submitBGRA(ctx, s, 1, 2, 3)).IsTrue()
	assert.For(ctx, "drain").That(s.Drain(ctx, time.Second)).IsTrue()

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "swapchain_1_frame_00000_thumb.png"))
	assert.For(ctx, "thumbnail").ThatError(err).Succeeded()
}

func TestCaptureBadOutputDir(t *testing.T) {
	ctx := log.Testing(t)
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "file")
	assert.For(ctx, "block the path").Critical().
		ThatError(os.WriteFile(cfg.OutputDir, []byte("x"), 0644)).Succeeded()
	_, err := capture.New(ctx, cfg)
	assert.For(ctx, "new").ThatError(err).Failed()
}

func TestStagingPool(t *testing.T) {
	ctx := log.Testing(t)
	pool := capture.NewPool(2, 8)
	assert.For(ctx, "size").ThatInteger(pool.BufferSize()).Equals(8)
	assert.For(ctx, "available").ThatInteger(pool.Available()).Equals(2)

	a, ok := pool.Reserve()
	assert.For(ctx, "first").That(ok).IsTrue()
	b, ok := pool.Reserve()
	assert.For(ctx, "second").That(ok).IsTrue()
	_, ok = pool.Reserve()
	assert.For(ctx, "exhausted").That(ok).IsFalse()

	a.Release()
	a.Release() // idempotent
	assert.For(ctx, "after release").ThatInteger(pool.Available()).Equals(1)
	b.Release()
	assert.For(ctx, "all back").ThatInteger(pool.Available()).Equals(2)
}
