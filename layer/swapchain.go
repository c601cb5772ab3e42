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

package layer

import (
	"context"
	"fmt"
	"time"

	"github.com/kvark/unseen/core/image"
	"github.com/kvark/unseen/core/log"
	"github.com/kvark/unseen/vulkan"
)

// sourceFormat maps a swapchain pixel format onto the capture pipeline's
// source format, or nil for formats capture does not understand.
func sourceFormat(f vulkan.Format) *image.Format {
	switch f {
	case vulkan.FormatB8G8R8A8Unorm, vulkan.FormatB8G8R8A8SRGB:
		return image.BGRA_U8_NORM
	case vulkan.FormatR8G8B8A8Unorm, vulkan.FormatR8G8B8A8SRGB:
		return image.RGBA_U8_NORM
	case vulkan.FormatR8G8B8Unorm:
		return image.RGB_U8_NORM
	}
	return nil
}

func (l *Layer) createSwapchain(ctx context.Context, device vulkan.Device, info *vulkan.SwapchainCreateInfoKHR) (vulkan.SwapchainKHR, vulkan.Result) {
	state, err := l.devices.Lookup(device)
	if err != nil {
		return 0, vulkan.ErrInitializationFailed
	}
	if state.dispatch.createSwapchain == nil {
		return 0, vulkan.ErrExtensionNotPresent
	}

	// The old swapchain is retired by the driver on a successful create;
	// stop tracking it so late frames do not reference retired images.
	if info != nil && info.OldSwapchain != 0 {
		if old, err := l.swapchains.Unregister(info.OldSwapchain); err == nil {
			l.releaseSwapchain(ctx, old)
		}
	}

	swapchain, result := state.dispatch.createSwapchain(ctx, device, info)
	if !result.IsSuccess() {
		return swapchain, result
	}

	sc := l.trackSwapchain(ctx, state, swapchain, info)
	if err := l.swapchains.Register(swapchain, sc); err != nil {
		// Tracking failure must not break the application; the swapchain
		// just goes uncaptured.
		log.W(ctx, "swapchain 0x%x: %v", uint64(swapchain), err)
	}
	return swapchain, result
}

// trackSwapchain builds the layer's record of a freshly created swapchain.
// The driver, not the create request, is the source of truth for the
// parameters: the driver may legally negotiate a different format, extent
// or image count than asked for.
func (l *Layer) trackSwapchain(ctx context.Context, state *deviceState, swapchain vulkan.SwapchainKHR, info *vulkan.SwapchainCreateInfoKHR) *swapchainState {
	sc := &swapchainState{handle: swapchain, device: state}
	sc.format = info.ImageFormat
	sc.extent = info.ImageExtent

	d := &state.dispatch
	if d.swapchainParameters != nil {
		format, extent, result := d.swapchainParameters(state.handle, swapchain)
		if result.IsSuccess() {
			if format != info.ImageFormat || extent != info.ImageExtent {
				log.I(ctx, "swapchain 0x%x: driver negotiated %v %vx%v (requested %v %vx%v)",
					uint64(swapchain), format, extent.Width, extent.Height,
					info.ImageFormat, info.ImageExtent.Width, info.ImageExtent.Height)
			}
			sc.format, sc.extent = format, extent
		} else {
			log.W(ctx, "swapchain 0x%x: parameter query returned %v, trusting the request", uint64(swapchain), result)
		}
	}

	if l.capturer == nil {
		return sc
	}
	srcFormat := sourceFormat(sc.format)
	if srcFormat == nil {
		log.W(ctx, "swapchain 0x%x: format %v is not capturable", uint64(swapchain), sc.format)
		return sc
	}
	if d.getSwapchainImages == nil {
		log.W(ctx, "swapchain 0x%x: no image query, not capturing", uint64(swapchain))
		return sc
	}
	images, result := d.getSwapchainImages(ctx, state.handle, swapchain)
	if !result.IsSuccess() || len(images) == 0 {
		log.W(ctx, "swapchain 0x%x: image query returned %v, not capturing", uint64(swapchain), result)
		return sc
	}
	layout := d.imageLayout(state.handle, images[0])
	if layout.Size == 0 {
		log.W(ctx, "swapchain 0x%x: images are not linear, not capturing", uint64(swapchain))
		return sc
	}

	sc.images = images
	sc.rowPitch = layout.RowPitch
	sc.imageSize = layout.Size

	// Host-visible images stay persistently mapped for the swapchain's
	// lifetime, so the present hook is a plain memcpy. Otherwise every
	// captured frame does a fenced device copy.
	mapped := make([][]byte, len(images))
	hostVisible := true
	for i, img := range images {
		data, result := d.mapImage(state.handle, img)
		if !result.IsSuccess() {
			hostVisible = false
			for j := 0; j < i; j++ {
				d.unmapImage(state.handle, images[j])
			}
			break
		}
		mapped[i] = data
	}
	if hostVisible {
		sc.mapped = mapped
	}

	sc.srcFormat = srcFormat
	sc.stream = l.capturer.NewStream(ctx,
		fmt.Sprintf("swapchain_%d", uint64(swapchain)), int(layout.Size))
	log.I(ctx, "capturing swapchain 0x%x: %v %vx%v images=%v pitch=%v hostVisible=%v",
		uint64(swapchain), sc.format, sc.extent.Width, sc.extent.Height,
		len(images), layout.RowPitch, hostVisible)
	return sc
}

// acquireNextImage is observation only: the index flows back through the
// application's own present call, so nothing is recorded here.
func (l *Layer) acquireNextImage(ctx context.Context, device vulkan.Device, swapchain vulkan.SwapchainKHR, timeout time.Duration) (uint32, vulkan.Result) {
	state, err := l.devices.Lookup(device)
	if err != nil || state.dispatch.acquireNextImage == nil {
		return 0, vulkan.ErrDeviceLost
	}
	index, result := state.dispatch.acquireNextImage(ctx, device, swapchain, timeout)
	if result.IsSuccess() {
		log.D(ctx, "swapchain 0x%x acquired image %v", uint64(swapchain), index)
	}
	return index, result
}

func (l *Layer) destroySwapchain(ctx context.Context, device vulkan.Device, swapchain vulkan.SwapchainKHR) {
	state, err := l.devices.Lookup(device)
	if err != nil {
		return
	}
	if sc, err := l.swapchains.Unregister(swapchain); err == nil {
		l.releaseSwapchain(ctx, sc)
	}
	if state.dispatch.destroySwapchain != nil {
		state.dispatch.destroySwapchain(ctx, device, swapchain)
	}
	log.D(ctx, "swapchain destroyed: 0x%x", uint64(swapchain))
}

// releaseSwapchain waits for the swapchain's in-flight frames and drops the
// image mappings. Must be called after the state is unregistered, so no new
// frames can be queued.
func (l *Layer) releaseSwapchain(ctx context.Context, sc *swapchainState) {
	if sc.stream != nil {
		sc.stream.Drain(ctx, drainTimeout)
	}
	if sc.mapped != nil {
		for _, img := range sc.images {
			sc.device.dispatch.unmapImage(sc.device.handle, img)
		}
		sc.mapped = nil
	}
}
