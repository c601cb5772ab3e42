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

// Package layer implements the frame capture layer.
//
// The layer inserts itself between the application and the next layer or
// driver. Every intercepted call forwards down the chain with its semantics
// intact; on the way through, the layer tracks instances, devices and
// swapchains, answers headless surface queries itself, and schedules a copy
// of every presented frame for capture. An application must behave
// identically with and without the layer loaded, whatever the capture
// pipeline is doing.
package layer

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kvark/unseen/core/image"
	"github.com/kvark/unseen/core/log"
	"github.com/kvark/unseen/layer/capture"
	"github.com/kvark/unseen/layer/config"
	"github.com/kvark/unseen/layer/headless"
	"github.com/kvark/unseen/layer/registry"
	"github.com/kvark/unseen/vulkan"
)

// The layer's identity, reported by the enumeration entry points.
const (
	LayerName                  = "VK_LAYER_PRIVATE_unseen"
	LayerDescription           = "Headless rendering and frame capture layer"
	LayerSpecVersion           = uint32(1<<22 | 3<<12) // Vulkan 1.3
	LayerImplementationVersion = uint32(1)

	// The surface extensions the layer implements itself instead of
	// forwarding.
	SurfaceExtension         = "VK_KHR_surface"
	HeadlessSurfaceExtension = "VK_EXT_headless_surface"
)

// How long teardown waits for in-flight frames before giving up on them.
const drainTimeout = 5 * time.Second

// Layer is the process-wide layer state.
type Layer struct {
	cfg config.Config
	// capturer is nil when capture is disabled; the layer then only
	// forwards and serves headless surfaces.
	capturer *capture.Capturer

	instances  *registry.Table[vulkan.Instance, *instanceState]
	physicals  *registry.Table[vulkan.PhysicalDevice, *instanceState]
	devices    *registry.Table[vulkan.Device, *deviceState]
	queues     *registry.Table[vulkan.Queue, *deviceState]
	swapchains *registry.Table[vulkan.SwapchainKHR, *swapchainState]
}

type instanceState struct {
	handle   vulkan.Instance
	dispatch instanceDispatch
	shim     *headless.Shim
}

type deviceState struct {
	handle   vulkan.Device
	instance *instanceState
	dispatch deviceDispatch
}

type swapchainState struct {
	handle vulkan.SwapchainKHR
	device *deviceState

	// The negotiated parameters, queried from the driver after creation.
	// The create request is not trusted.
	format vulkan.Format
	extent vulkan.Extent2D

	// Capture state. stream is nil when this swapchain is not captured,
	// the other fields are then unset.
	stream    *capture.Stream
	srcFormat *image.Format
	images    []vulkan.Image
	rowPitch  uint32
	imageSize uint64
	// mapped holds the persistent mappings of host-visible images, in
	// image index order. nil when the images need fenced readback instead.
	mapped [][]byte
}

// Load builds the layer from the process environment.
func Load(ctx context.Context) (*Layer, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, errors.Wrap(err, "loading capture configuration")
	}
	return New(ctx, cfg)
}

// New builds the layer with an explicit configuration.
func New(ctx context.Context, cfg config.Config) (*Layer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Layer{
		cfg:        cfg,
		instances:  registry.NewTable[vulkan.Instance, *instanceState](),
		physicals:  registry.NewTable[vulkan.PhysicalDevice, *instanceState](),
		devices:    registry.NewTable[vulkan.Device, *deviceState](),
		queues:     registry.NewTable[vulkan.Queue, *deviceState](),
		swapchains: registry.NewTable[vulkan.SwapchainKHR, *swapchainState](),
	}
	if !cfg.Enabled {
		log.I(ctx, "frame capture disabled, forwarding only")
		return l, nil
	}
	if capturer, err := capture.New(ctx, cfg); err != nil {
		// A broken capture setup must not take the application down; the
		// layer keeps forwarding without capture.
		log.W(ctx, "frame capture disabled: %v", err)
	} else {
		l.capturer = capturer
	}
	return l, nil
}

// Unload drains every capture stream and shuts the capture pipeline down.
// Swapchains still registered at unload get their in-flight frames waited
// for, bounded by the drain timeout.
func (l *Layer) Unload(ctx context.Context) error {
	l.swapchains.Range(func(handle vulkan.SwapchainKHR, sc *swapchainState) bool {
		if sc.stream != nil {
			sc.stream.Drain(ctx, drainTimeout)
		}
		return true
	})
	if l.capturer != nil {
		return l.capturer.Close(ctx)
	}
	return nil
}

// Stats returns the capture pipeline's frame accounting. The zero Stats is
// returned when capture is disabled.
func (l *Layer) Stats() capture.Stats {
	if l.capturer == nil {
		return capture.Stats{}
	}
	return l.capturer.Stats()
}

// EnumerateLayerProperties answers vkEnumerateInstanceLayerProperties for
// this layer.
func (l *Layer) EnumerateLayerProperties() ([]vulkan.LayerProperties, vulkan.Result) {
	return []vulkan.LayerProperties{{
		LayerName:             LayerName,
		SpecVersion:           LayerSpecVersion,
		ImplementationVersion: LayerImplementationVersion,
		Description:           LayerDescription,
	}}, vulkan.Success
}

// EnumerateExtensionProperties answers
// vkEnumerateInstanceExtensionProperties for this layer.
func (l *Layer) EnumerateExtensionProperties(layerName string) ([]vulkan.ExtensionProperties, vulkan.Result) {
	switch layerName {
	case LayerName, "":
		return []vulkan.ExtensionProperties{
			{ExtensionName: SurfaceExtension, SpecVersion: 25},
			{ExtensionName: HeadlessSurfaceExtension, SpecVersion: 1},
		}, vulkan.Success
	default:
		return nil, vulkan.ErrLayerNotPresent
	}
}
