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

package virtual_test

import (
	"context"
	"testing"
	"time"

	"github.com/kvark/unseen/core/assert"
	"github.com/kvark/unseen/core/log"
	"github.com/kvark/unseen/vulkan"
	"github.com/kvark/unseen/vulkan/virtual"
)

// proc resolves a driver entry point the way a layer would, failing the
// test when the name does not resolve to the expected signature.
func proc[F any](ctx context.Context, d *virtual.Driver, name string) F {
	fn, ok := d.GetInstanceProcAddr(0, name).(F)
	assert.For(ctx, "resolve %v", name).Critical().That(ok).IsTrue()
	return fn
}

// boot creates an instance, device and surface on a fresh driver.
func boot(ctx context.Context, d *virtual.Driver) (vulkan.Instance, vulkan.Device, vulkan.SurfaceKHR) {
	instance, result := proc[vulkan.CreateInstanceFunc](ctx, d, vulkan.ProcCreateInstance)(ctx, &vulkan.InstanceCreateInfo{})
	assert.For(ctx, "create instance").Critical().That(result).Equals(vulkan.Success)

	physicals, result := proc[vulkan.EnumeratePhysicalDevicesFunc](ctx, d, vulkan.ProcEnumeratePhysicalDevices)(ctx, instance)
	assert.For(ctx, "enumerate").Critical().That(result).Equals(vulkan.Success)
	assert.For(ctx, "one physical device").Critical().ThatSlice(physicals).IsLength(1)

	device, result := proc[vulkan.CreateDeviceFunc](ctx, d, vulkan.ProcCreateDevice)(ctx, physicals[0], &vulkan.DeviceCreateInfo{})
	assert.For(ctx, "create device").Critical().That(result).Equals(vulkan.Success)

	surface, result := proc[vulkan.CreateHeadlessSurfaceEXTFunc](ctx, d, vulkan.ProcCreateHeadlessSurfaceEXT)(ctx, instance)
	assert.For(ctx, "create surface").Critical().That(result).Equals(vulkan.Success)
	return instance, device, surface
}

func TestSwapchainNegotiation(t *testing.T) {
	ctx := log.Testing(t)
	d := virtual.New(virtual.Options{})
	_, device, surface := boot(ctx, d)

	create := proc[vulkan.CreateSwapchainKHRFunc](ctx, d, vulkan.ProcCreateSwapchainKHR)
	getImages := proc[vulkan.GetSwapchainImagesKHRFunc](ctx, d, vulkan.ProcGetSwapchainImagesKHR)

	// A request for 3 images sticks; a request for 1 is clamped up to 2.
	for _, test := range []struct {
		request uint32
		expect  int
	}{{3, 3}, {1, 2}, {100, 8}} {
		swapchain, result := create(ctx, device, &vulkan.SwapchainCreateInfoKHR{
			Surface:       surface,
			MinImageCount: test.request,
			ImageFormat:   vulkan.FormatB8G8R8A8Unorm,
			ImageExtent:   vulkan.Extent2D{Width: 16, Height: 16},
		})
		assert.For(ctx, "create %v", test.request).That(result).Equals(vulkan.Success)
		images, result := getImages(ctx, device, swapchain)
		assert.For(ctx, "images result").That(result).Equals(vulkan.Success)
		assert.For(ctx, "image count for %v", test.request).ThatSlice(images).IsLength(test.expect)
	}
}

func TestSwapchainParametersDiverge(t *testing.T) {
	ctx := log.Testing(t)
	d := virtual.New(virtual.Options{
		NegotiatedFormat: vulkan.FormatB8G8R8A8SRGB,
		NegotiatedExtent: vulkan.Extent2D{Width: 64, Height: 32},
	})
	_, device, surface := boot(ctx, d)

	swapchain, result := proc[vulkan.CreateSwapchainKHRFunc](ctx, d, vulkan.ProcCreateSwapchainKHR)(ctx, device, &vulkan.SwapchainCreateInfoKHR{
		Surface:       surface,
		MinImageCount: 2,
		ImageFormat:   vulkan.FormatR8G8B8A8Unorm,
		ImageExtent:   vulkan.Extent2D{Width: 100, Height: 100},
	})
	assert.For(ctx, "create").Critical().That(result).Equals(vulkan.Success)

	format, extent, result := proc[vulkan.GetSwapchainParametersUNSEENFunc](ctx, d, vulkan.ProcGetSwapchainParametersUNSEEN)(device, swapchain)
	assert.For(ctx, "result").That(result).Equals(vulkan.Success)
	assert.For(ctx, "format").That(format).Equals(vulkan.FormatB8G8R8A8SRGB)
	assert.For(ctx, "extent").That(extent).Equals(vulkan.Extent2D{Width: 64, Height: 32})
}

func TestRowPitchAlignment(t *testing.T) {
	ctx := log.Testing(t)
	d := virtual.New(virtual.Options{RowPitchAlignment: 256})
	_, device, surface := boot(ctx, d)

	swapchain, result := proc[vulkan.CreateSwapchainKHRFunc](ctx, d, vulkan.ProcCreateSwapchainKHR)(ctx, device, &vulkan.SwapchainCreateInfoKHR{
		Surface:       surface,
		MinImageCount: 2,
		ImageFormat:   vulkan.FormatB8G8R8A8Unorm,
		ImageExtent:   vulkan.Extent2D{Width: 30, Height: 4},
	})
	assert.For(ctx, "create").Critical().That(result).Equals(vulkan.Success)

	images, _ := proc[vulkan.GetSwapchainImagesKHRFunc](ctx, d, vulkan.ProcGetSwapchainImagesKHR)(ctx, device, swapchain)
	layout := proc[vulkan.GetImageSubresourceLayoutFunc](ctx, d, vulkan.ProcGetImageSubresourceLayout)(device, images[0])
	// 30 pixels * 4 bytes = 120, padded to the next multiple of 256.
	assert.For(ctx, "pitch").ThatInteger(int(layout.RowPitch)).Equals(256)
	assert.For(ctx, "size").ThatInteger(int(layout.Size)).Equals(256 * 4)
}

func TestFillAndMap(t *testing.T) {
	ctx := log.Testing(t)
	d := virtual.New(virtual.Options{})
	_, device, surface := boot(ctx, d)

	swapchain, _ := proc[vulkan.CreateSwapchainKHRFunc](ctx, d, vulkan.ProcCreateSwapchainKHR)(ctx, device, &vulkan.SwapchainCreateInfoKHR{
		Surface:       surface,
		MinImageCount: 2,
		ImageFormat:   vulkan.FormatB8G8R8A8Unorm,
		ImageExtent:   vulkan.Extent2D{Width: 2, Height: 2},
	})
	images := d.SwapchainImages(swapchain)
	assert.For(ctx, "filled").That(d.FillImage(images[0], func(x, y int) (byte, byte, byte, byte) {
		return 0x11, 0x22, 0x33, 0xff
	})).IsTrue()

	data, result := proc[vulkan.MapImageMemoryUNSEENFunc](ctx, d, vulkan.ProcMapImageMemoryUNSEEN)(device, images[0])
	assert.For(ctx, "map").That(result).Equals(vulkan.Success)
	// BGRA layout in memory.
	assert.For(ctx, "pixel").ThatSlice(data[:4]).Equals([]byte{0x33, 0x22, 0x11, 0xff})
}

func TestNonHostVisibleMapFails(t *testing.T) {
	ctx := log.Testing(t)
	d := virtual.New(virtual.Options{NonHostVisible: true})
	_, device, surface := boot(ctx, d)
	swapchain, _ := proc[vulkan.CreateSwapchainKHRFunc](ctx, d, vulkan.ProcCreateSwapchainKHR)(ctx, device, &vulkan.SwapchainCreateInfoKHR{
		Surface:       surface,
		MinImageCount: 2,
		ImageFormat:   vulkan.FormatB8G8R8A8Unorm,
		ImageExtent:   vulkan.Extent2D{Width: 2, Height: 2},
	})
	images := d.SwapchainImages(swapchain)
	_, result := proc[vulkan.MapImageMemoryUNSEENFunc](ctx, d, vulkan.ProcMapImageMemoryUNSEEN)(device, images[0])
	assert.For(ctx, "map").That(result).Equals(vulkan.ErrMemoryMapFailed)
}

func TestCopyImageAndFence(t *testing.T) {
	ctx := log.Testing(t)
	d := virtual.New(virtual.Options{NonHostVisible: true, CopyDelay: time.Millisecond})
	_, device, surface := boot(ctx, d)
	swapchain, _ := proc[vulkan.CreateSwapchainKHRFunc](ctx, d, vulkan.ProcCreateSwapchainKHR)(ctx, device, &vulkan.SwapchainCreateInfoKHR{
		Surface:       surface,
		MinImageCount: 2,
		ImageFormat:   vulkan.FormatB8G8R8A8Unorm,
		ImageExtent:   vulkan.Extent2D{Width: 2, Height: 1},
	})
	images := d.SwapchainImages(swapchain)
	d.FillImage(images[0], func(x, y int) (byte, byte, byte, byte) {
		return byte(x), 0x77, 0x99, 0xff
	})

	dst := make([]byte, 8)
	fence, result := proc[vulkan.CopyImageToBufferUNSEENFunc](ctx, d, vulkan.ProcCopyImageToBufferUNSEEN)(ctx, device, images[0], dst)
	assert.For(ctx, "copy").Critical().That(result).Equals(vulkan.Success)

	wait := proc[vulkan.WaitForFencesFunc](ctx, d, vulkan.ProcWaitForFences)
	assert.For(ctx, "wait").That(wait(ctx, device, fence, time.Second)).Equals(vulkan.Success)
	assert.For(ctx, "payload").ThatSlice(dst).
		Equals([]byte{0x99, 0x77, 0x00, 0xff, 0x99, 0x77, 0x01, 0xff})
}

func TestCopyTimeout(t *testing.T) {
	ctx := log.Testing(t)
	d := virtual.New(virtual.Options{NonHostVisible: true, CopyDelay: time.Second})
	_, device, surface := boot(ctx, d)
	swapchain, _ := proc[vulkan.CreateSwapchainKHRFunc](ctx, d, vulkan.ProcCreateSwapchainKHR)(ctx, device, &vulkan.SwapchainCreateInfoKHR{
		Surface:       surface,
		MinImageCount: 2,
		ImageFormat:   vulkan.FormatB8G8R8A8Unorm,
		ImageExtent:   vulkan.Extent2D{Width: 2, Height: 1},
	})
	images := d.SwapchainImages(swapchain)
	dst := make([]byte, 8)
	fence, result := proc[vulkan.CopyImageToBufferUNSEENFunc](ctx, d, vulkan.ProcCopyImageToBufferUNSEEN)(ctx, device, images[0], dst)
	assert.For(ctx, "copy").Critical().That(result).Equals(vulkan.Success)
	wait := proc[vulkan.WaitForFencesFunc](ctx, d, vulkan.ProcWaitForFences)
	assert.For(ctx, "timeout").That(wait(ctx, device, fence, 5*time.Millisecond)).Equals(vulkan.TimeoutExpired)
}

func TestAcquireCycles(t *testing.T) {
	ctx := log.Testing(t)
	d := virtual.New(virtual.Options{})
	_, device, surface := boot(ctx, d)
	swapchain, _ := proc[vulkan.CreateSwapchainKHRFunc](ctx, d, vulkan.ProcCreateSwapchainKHR)(ctx, device, &vulkan.SwapchainCreateInfoKHR{
		Surface:       surface,
		MinImageCount: 3,
		ImageFormat:   vulkan.FormatB8G8R8A8Unorm,
		ImageExtent:   vulkan.Extent2D{Width: 2, Height: 2},
	})
	acquire := proc[vulkan.AcquireNextImageKHRFunc](ctx, d, vulkan.ProcAcquireNextImageKHR)
	indices := []uint32{}
	for i := 0; i < 5; i++ {
		index, result := acquire(ctx, device, swapchain, time.Second)
		assert.For(ctx, "acquire %v", i).That(result).Equals(vulkan.Success)
		indices = append(indices, index)
	}
	assert.For(ctx, "cycle").ThatSlice(indices).Equals([]uint32{0, 1, 2, 0, 1})
}

func TestPresentCounts(t *testing.T) {
	ctx := log.Testing(t)
	d := virtual.New(virtual.Options{})
	_, device, surface := boot(ctx, d)
	swapchain, _ := proc[vulkan.CreateSwapchainKHRFunc](ctx, d, vulkan.ProcCreateSwapchainKHR)(ctx, device, &vulkan.SwapchainCreateInfoKHR{
		Surface:       surface,
		MinImageCount: 2,
		ImageFormat:   vulkan.FormatB8G8R8A8Unorm,
		ImageExtent:   vulkan.Extent2D{Width: 2, Height: 2},
	})
	queue := proc[vulkan.GetDeviceQueueFunc](ctx, d, vulkan.ProcGetDeviceQueue)(device, 0, 0)
	present := proc[vulkan.QueuePresentKHRFunc](ctx, d, vulkan.ProcQueuePresentKHR)

	result := present(ctx, queue, &vulkan.PresentInfoKHR{
		Swapchains:   []vulkan.SwapchainKHR{swapchain},
		ImageIndices: []uint32{0},
	})
	assert.For(ctx, "present").That(result).Equals(vulkan.Success)
	assert.For(ctx, "count").ThatInteger(int(d.PresentCount())).Equals(1)

	// Presenting a destroyed swapchain reports it out of date.
	proc[vulkan.DestroySwapchainKHRFunc](ctx, d, vulkan.ProcDestroySwapchainKHR)(ctx, device, swapchain)
	results := make([]vulkan.Result, 1)
	result = present(ctx, queue, &vulkan.PresentInfoKHR{
		Swapchains:   []vulkan.SwapchainKHR{swapchain},
		ImageIndices: []uint32{0},
		Results:      results,
	})
	assert.For(ctx, "stale present").That(result).Equals(vulkan.ErrOutOfDate)
	assert.For(ctx, "per swapchain").That(results[0]).Equals(vulkan.ErrOutOfDate)
}
