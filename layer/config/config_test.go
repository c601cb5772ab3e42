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

package config_test

import (
	"testing"
	"time"

	"github.com/kvark/unseen/core/assert"
	"github.com/kvark/unseen/core/log"
	"github.com/kvark/unseen/layer/config"
)

func TestDefaults(t *testing.T) {
	ctx := log.Testing(t)
	cfg, err := config.FromEnv()
	assert.For(ctx, "load").ThatError(err).Succeeded()
	assert.For(ctx, "enabled").That(cfg.Enabled).IsTrue()
	assert.For(ctx, "dir").ThatString(cfg.OutputDir).Equals("./captured_frames")
	assert.For(ctx, "format").ThatString(cfg.Format).Equals(config.FormatPPM)
	assert.For(ctx, "frequency").ThatInteger(int(cfg.Frequency)).Equals(1)
	assert.For(ctx, "max frames").ThatInteger(int(cfg.MaxFrames)).Equals(0)
	assert.For(ctx, "workers").ThatInteger(cfg.Workers).Equals(2)
	assert.For(ctx, "queue").ThatInteger(cfg.QueueDepth).Equals(8)
	assert.For(ctx, "staging").ThatInteger(cfg.StagingBuffers).Equals(8)
	assert.For(ctx, "timeout").That(cfg.ReadbackTimeout).Equals(250 * time.Millisecond)
}

func TestEnvironmentOverrides(t *testing.T) {
	ctx := log.Testing(t)
	t.Setenv("VK_CAPTURE_OUTPUT_DIR", "/tmp/frames")
	t.Setenv("VK_CAPTURE_FORMAT", "png")
	t.Setenv("VK_CAPTURE_FREQUENCY", "3")
	t.Setenv("VK_CAPTURE_MAX_FRAMES", "10")
	t.Setenv("VK_CAPTURE_FILTER", "swapchain_2")
	t.Setenv("VK_CAPTURE_THUMBNAILS", "true")
	t.Setenv("VK_CAPTURE_WORKERS", "4")
	t.Setenv("VK_CAPTURE_READBACK_TIMEOUT_MS", "50")

	cfg, err := config.FromEnv()
	assert.For(ctx, "load").ThatError(err).Succeeded()
	assert.For(ctx, "dir").ThatString(cfg.OutputDir).Equals("/tmp/frames")
	assert.For(ctx, "format").ThatString(cfg.Format).Equals(config.FormatPNG)
	assert.For(ctx, "frequency").ThatInteger(int(cfg.Frequency)).Equals(3)
	assert.For(ctx, "max frames").ThatInteger(int(cfg.MaxFrames)).Equals(10)
	assert.For(ctx, "filter").ThatString(cfg.Filter).Equals("swapchain_2")
	assert.For(ctx, "thumbnails").That(cfg.Thumbnails).IsTrue()
	assert.For(ctx, "workers").ThatInteger(cfg.Workers).Equals(4)
	assert.For(ctx, "timeout").That(cfg.ReadbackTimeout).Equals(50 * time.Millisecond)
}

func TestDisable(t *testing.T) {
	ctx := log.Testing(t)
	t.Setenv("VK_CAPTURE_ENABLE", "0")
	cfg, err := config.FromEnv()
	assert.For(ctx, "load").ThatError(err).Succeeded()
	assert.For(ctx, "enabled").That(cfg.Enabled).IsFalse()
}

func TestDisableUnderHistoricalName(t *testing.T) {
	ctx := log.Testing(t)
	t.Setenv("VK_UNSEEN_ENABLE", "0")
	cfg, err := config.FromEnv()
	assert.For(ctx, "load").ThatError(err).Succeeded()
	assert.For(ctx, "enabled").That(cfg.Enabled).IsFalse()
}

func TestBadFormat(t *testing.T) {
	ctx := log.Testing(t)
	t.Setenv("VK_CAPTURE_FORMAT", "jpeg")
	_, err := config.FromEnv()
	assert.For(ctx, "load").ThatError(err).Failed()
}

func TestValidate(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty dir", func(c *config.Config) { c.OutputDir = "" }},
		{"zero frequency", func(c *config.Config) { c.Frequency = 0 }},
		{"zero workers", func(c *config.Config) { c.Workers = 0 }},
		{"zero queue", func(c *config.Config) { c.QueueDepth = 0 }},
		{"zero staging", func(c *config.Config) { c.StagingBuffers = 0 }},
		{"zero timeout", func(c *config.Config) { c.ReadbackTimeout = 0 }},
	} {
		cfg := config.Default()
		test.mutate(&cfg)
		assert.For(ctx, test.name).ThatError(cfg.Validate()).Failed()
	}
	assert.For(ctx, "default").ThatError(config.Default().Validate()).Succeeded()
}
