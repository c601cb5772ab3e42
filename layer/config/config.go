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

// Package config loads the capture configuration from the environment.
//
// The layer is injected into foreign processes, so the environment is its
// only configuration surface. The core consumes the resulting Config as
// plain values and never reads the environment itself.
package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Output formats.
const (
	FormatPPM = "ppm"
	FormatPNG = "png"
)

// Config holds the capture settings for one process.
type Config struct {
	// Enabled turns frame capture on. When false the layer still forwards
	// every call but never captures.
	Enabled bool
	// OutputDir is the directory captured frames are written to.
	OutputDir string
	// Format selects the output container, FormatPPM or FormatPNG.
	Format string
	// Frequency captures every Nth presented frame. 1 captures everything.
	Frequency uint32
	// MaxFrames stops capturing after this many frames per swapchain.
	// 0 means unlimited.
	MaxFrames uint64
	// Filter, when non-empty, restricts capture to swapchains whose name
	// contains the substring.
	Filter string
	// Thumbnails additionally writes a downscaled PNG preview per frame.
	Thumbnails bool
	// ThumbnailSize bounds the longest edge of thumbnail images.
	ThumbnailSize int
	// Workers is the number of goroutines encoding and writing frames.
	Workers int
	// QueueDepth bounds the number of frames waiting for a worker. When
	// the queue is full the newest frame is dropped.
	QueueDepth int
	// StagingBuffers bounds the pool of readback buffers. A frame whose
	// readback cannot get a buffer is dropped.
	StagingBuffers int
	// ReadbackTimeout bounds the wait for a device-side transfer. A frame
	// whose transfer has not completed in time is dropped.
	ReadbackTimeout time.Duration
}

// The environment variables, kept compatible with the original layer.
const (
	envEnable = "VK_CAPTURE_ENABLE"
	// envEnableAlias is the switch under its historical name, still honored.
	envEnableAlias     = "VK_UNSEEN_ENABLE"
	envOutputDir       = "VK_CAPTURE_OUTPUT_DIR"
	envFormat          = "VK_CAPTURE_FORMAT"
	envFrequency       = "VK_CAPTURE_FREQUENCY"
	envMaxFrames       = "VK_CAPTURE_MAX_FRAMES"
	envFilter          = "VK_CAPTURE_FILTER"
	envThumbnails      = "VK_CAPTURE_THUMBNAILS"
	envThumbnailSize   = "VK_CAPTURE_THUMBNAIL_SIZE"
	envWorkers         = "VK_CAPTURE_WORKERS"
	envQueueDepth      = "VK_CAPTURE_QUEUE_DEPTH"
	envStagingBuffers  = "VK_CAPTURE_STAGING_BUFFERS"
	envReadbackTimeout = "VK_CAPTURE_READBACK_TIMEOUT_MS"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Enabled:         true,
		OutputDir:       "./captured_frames",
		Format:          FormatPPM,
		Frequency:       1,
		MaxFrames:       0,
		Filter:          "",
		Thumbnails:      false,
		ThumbnailSize:   256,
		Workers:         2,
		QueueDepth:      8,
		StagingBuffers:  8,
		ReadbackTimeout: 250 * time.Millisecond,
	}
}

// FromEnv returns the configuration described by the process environment,
// falling back to Default for anything unset.
func FromEnv() (Config, error) {
	def := Default()

	v := viper.New()
	bind := func(key, env string, value interface{}) {
		v.SetDefault(key, value)
		v.BindEnv(key, env)
	}
	v.SetDefault("enable", def.Enabled)
	v.BindEnv("enable", envEnable, envEnableAlias)
	bind("output_dir", envOutputDir, def.OutputDir)
	bind("format", envFormat, def.Format)
	bind("frequency", envFrequency, def.Frequency)
	bind("max_frames", envMaxFrames, def.MaxFrames)
	bind("filter", envFilter, def.Filter)
	bind("thumbnails", envThumbnails, def.Thumbnails)
	bind("thumbnail_size", envThumbnailSize, def.ThumbnailSize)
	bind("workers", envWorkers, def.Workers)
	bind("queue_depth", envQueueDepth, def.QueueDepth)
	bind("staging_buffers", envStagingBuffers, def.StagingBuffers)
	bind("readback_timeout_ms", envReadbackTimeout, int(def.ReadbackTimeout/time.Millisecond))

	cfg := Config{
		Enabled:         v.GetBool("enable"),
		OutputDir:       v.GetString("output_dir"),
		Format:          v.GetString("format"),
		Frequency:       v.GetUint32("frequency"),
		MaxFrames:       v.GetUint64("max_frames"),
		Filter:          v.GetString("filter"),
		Thumbnails:      v.GetBool("thumbnails"),
		ThumbnailSize:   v.GetInt("thumbnail_size"),
		Workers:         v.GetInt("workers"),
		QueueDepth:      v.GetInt("queue_depth"),
		StagingBuffers:  v.GetInt("staging_buffers"),
		ReadbackTimeout: time.Duration(v.GetInt("readback_timeout_ms")) * time.Millisecond,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate returns an error describing the first invalid setting, if any.
func (c Config) Validate() error {
	if c.Format != FormatPPM && c.Format != FormatPNG {
		return errors.Errorf("unsupported capture format %q", c.Format)
	}
	if c.OutputDir == "" {
		return errors.New("capture output directory must not be empty")
	}
	if c.Frequency < 1 {
		return errors.Errorf("capture frequency must be at least 1, got %d", c.Frequency)
	}
	if c.Workers < 1 {
		return errors.Errorf("capture workers must be at least 1, got %d", c.Workers)
	}
	if c.QueueDepth < 1 {
		return errors.Errorf("capture queue depth must be at least 1, got %d", c.QueueDepth)
	}
	if c.StagingBuffers < 1 {
		return errors.Errorf("staging buffer count must be at least 1, got %d", c.StagingBuffers)
	}
	if c.ThumbnailSize < 1 {
		return errors.Errorf("thumbnail size must be at least 1, got %d", c.ThumbnailSize)
	}
	if c.ReadbackTimeout <= 0 {
		return errors.Errorf("readback timeout must be positive, got %v", c.ReadbackTimeout)
	}
	return nil
}
