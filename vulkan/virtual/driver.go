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

// Package virtual implements an in-process Vulkan driver for the
// presentation slice of the API.
//
// The driver sits at the bottom of a layer chain and behaves like real
// hardware where it matters to a capture layer: swapchain parameters are
// negotiated rather than echoed, images are linear with a driver-chosen row
// pitch, and image readback completes through fences. It backs images with
// plain byte slices so tests can render into them and inspect what a layer
// captured.
package virtual

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kvark/unseen/vulkan"
)

const (
	minSwapchainImages = 2
	maxSwapchainImages = 8
)

// Options tune the driver's behavior, mostly to force the corner cases a
// layer has to survive.
type Options struct {
	// NegotiatedFormat, when not FormatUndefined, is used for every
	// swapchain regardless of the requested format.
	NegotiatedFormat vulkan.Format
	// NegotiatedExtent, when non-zero, is used for every swapchain
	// regardless of the requested extent.
	NegotiatedExtent vulkan.Extent2D
	// RowPitchAlignment pads image rows out to a multiple of this many
	// bytes. 0 keeps rows tightly packed.
	RowPitchAlignment uint32
	// NonHostVisible makes image memory unmappable, forcing readback
	// through CopyImageToBuffer and a fence wait.
	NonHostVisible bool
	// CopyDelay delays completion of every image-to-buffer copy, modelling
	// a busy transfer queue.
	CopyDelay time.Duration
}

// Driver is an in-process driver instance. The zero value is not usable;
// call New.
type Driver struct {
	opts       Options
	nextHandle uint64

	mutex      sync.Mutex
	instances  map[vulkan.Instance]*instanceObject
	physical   map[vulkan.PhysicalDevice]vulkan.Instance
	devices    map[vulkan.Device]*deviceObject
	queues     map[vulkan.Queue]vulkan.Device
	surfaces   map[vulkan.SurfaceKHR]vulkan.Instance
	swapchains map[vulkan.SwapchainKHR]*swapchainObject
	images     map[vulkan.Image]*imageObject
	fences     map[vulkan.Fence]chan struct{}

	presentCount uint64
}

type instanceObject struct {
	application string
	physical    vulkan.PhysicalDevice
}

type deviceObject struct {
	physical vulkan.PhysicalDevice
	queues   map[[2]uint32]vulkan.Queue
}

type swapchainObject struct {
	device  vulkan.Device
	surface vulkan.SurfaceKHR
	format  vulkan.Format
	extent  vulkan.Extent2D
	images  []vulkan.Image
	cursor  uint32
}

type imageObject struct {
	swapchain vulkan.SwapchainKHR
	format    vulkan.Format
	extent    vulkan.Extent2D
	layout    vulkan.ImageSubresourceLayout
	data      []byte
}

// New returns a driver configured with opts.
func New(opts Options) *Driver {
	return &Driver{
		opts:       opts,
		instances:  map[vulkan.Instance]*instanceObject{},
		physical:   map[vulkan.PhysicalDevice]vulkan.Instance{},
		devices:    map[vulkan.Device]*deviceObject{},
		queues:     map[vulkan.Queue]vulkan.Device{},
		surfaces:   map[vulkan.SurfaceKHR]vulkan.Instance{},
		swapchains: map[vulkan.SwapchainKHR]*swapchainObject{},
		images:     map[vulkan.Image]*imageObject{},
		fences:     map[vulkan.Fence]chan struct{}{},
	}
}

func (d *Driver) newHandle() vulkan.Handle {
	return vulkan.Handle(atomic.AddUint64(&d.nextHandle, 1))
}

// PresentCount returns the number of images presented so far.
func (d *Driver) PresentCount() uint64 {
	return atomic.LoadUint64(&d.presentCount)
}

func (d *Driver) createInstance(ctx context.Context, info *vulkan.InstanceCreateInfo) (vulkan.Instance, vulkan.Result) {
	instance := vulkan.Instance(d.newHandle())
	physical := vulkan.PhysicalDevice(d.newHandle())
	obj := &instanceObject{physical: physical}
	if info != nil && info.Application != nil {
		obj.application = info.Application.ApplicationName
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.instances[instance] = obj
	d.physical[physical] = instance
	return instance, vulkan.Success
}

func (d *Driver) destroyInstance(ctx context.Context, instance vulkan.Instance) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	obj, ok := d.instances[instance]
	if !ok {
		return
	}
	delete(d.physical, obj.physical)
	delete(d.instances, instance)
	for surface, owner := range d.surfaces {
		if owner == instance {
			delete(d.surfaces, surface)
		}
	}
}

func (d *Driver) enumeratePhysicalDevices(ctx context.Context, instance vulkan.Instance) ([]vulkan.PhysicalDevice, vulkan.Result) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	obj, ok := d.instances[instance]
	if !ok {
		return nil, vulkan.ErrInitializationFailed
	}
	return []vulkan.PhysicalDevice{obj.physical}, vulkan.Success
}

func (d *Driver) createDevice(ctx context.Context, physical vulkan.PhysicalDevice, info *vulkan.DeviceCreateInfo) (vulkan.Device, vulkan.Result) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if _, ok := d.physical[physical]; !ok {
		return 0, vulkan.ErrInitializationFailed
	}
	device := vulkan.Device(d.newHandle())
	d.devices[device] = &deviceObject{
		physical: physical,
		queues:   map[[2]uint32]vulkan.Queue{},
	}
	return device, vulkan.Success
}

func (d *Driver) destroyDevice(ctx context.Context, device vulkan.Device) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	obj, ok := d.devices[device]
	if !ok {
		return
	}
	for _, queue := range obj.queues {
		delete(d.queues, queue)
	}
	for swapchain, sc := range d.swapchains {
		if sc.device == device {
			d.destroySwapchainLocked(swapchain, sc)
		}
	}
	delete(d.devices, device)
}

func (d *Driver) getDeviceQueue(device vulkan.Device, family, index uint32) vulkan.Queue {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	obj, ok := d.devices[device]
	if !ok {
		return 0
	}
	key := [2]uint32{family, index}
	if queue, ok := obj.queues[key]; ok {
		return queue
	}
	queue := vulkan.Queue(d.newHandle())
	obj.queues[key] = queue
	d.queues[queue] = device
	return queue
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// bytesPerPixel returns the pixel size of the swapchain formats the driver
// supports, or 0 for anything else.
func bytesPerPixel(f vulkan.Format) uint32 {
	switch f {
	case vulkan.FormatR8G8B8A8Unorm, vulkan.FormatR8G8B8A8SRGB,
		vulkan.FormatB8G8R8A8Unorm, vulkan.FormatB8G8R8A8SRGB:
		return 4
	case vulkan.FormatR8G8B8Unorm:
		return 3
	}
	return 0
}

func (d *Driver) createSwapchainKHR(ctx context.Context, device vulkan.Device, info *vulkan.SwapchainCreateInfoKHR) (vulkan.SwapchainKHR, vulkan.Result) {
	format := info.ImageFormat
	if d.opts.NegotiatedFormat != vulkan.FormatUndefined {
		format = d.opts.NegotiatedFormat
	}
	extent := info.ImageExtent
	if d.opts.NegotiatedExtent != (vulkan.Extent2D{}) {
		extent = d.opts.NegotiatedExtent
	}
	bpp := bytesPerPixel(format)
	if bpp == 0 || extent.Width == 0 || extent.Height == 0 {
		return 0, vulkan.ErrInitializationFailed
	}
	count := clamp(info.MinImageCount, minSwapchainImages, maxSwapchainImages)

	rowPitch := extent.Width * bpp
	if align := d.opts.RowPitchAlignment; align > 1 {
		rowPitch = (rowPitch + align - 1) / align * align
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()
	if _, ok := d.devices[device]; !ok {
		return 0, vulkan.ErrInitializationFailed
	}
	swapchain := vulkan.SwapchainKHR(d.newHandle())
	sc := &swapchainObject{
		device:  device,
		surface: info.Surface,
		format:  format,
		extent:  extent,
	}
	for i := uint32(0); i < count; i++ {
		image := vulkan.Image(d.newHandle())
		size := uint64(rowPitch) * uint64(extent.Height)
		d.images[image] = &imageObject{
			swapchain: swapchain,
			format:    format,
			extent:    extent,
			layout: vulkan.ImageSubresourceLayout{
				Size:     size,
				RowPitch: rowPitch,
			},
			data: make([]byte, size),
		}
		sc.images = append(sc.images, image)
	}
	d.swapchains[swapchain] = sc
	return swapchain, vulkan.Success
}

func (d *Driver) destroySwapchainLocked(swapchain vulkan.SwapchainKHR, sc *swapchainObject) {
	for _, image := range sc.images {
		delete(d.images, image)
	}
	delete(d.swapchains, swapchain)
}

func (d *Driver) destroySwapchainKHR(ctx context.Context, device vulkan.Device, swapchain vulkan.SwapchainKHR) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if sc, ok := d.swapchains[swapchain]; ok {
		d.destroySwapchainLocked(swapchain, sc)
	}
}

func (d *Driver) getSwapchainImagesKHR(ctx context.Context, device vulkan.Device, swapchain vulkan.SwapchainKHR) ([]vulkan.Image, vulkan.Result) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	sc, ok := d.swapchains[swapchain]
	if !ok {
		return nil, vulkan.ErrOutOfDate
	}
	images := make([]vulkan.Image, len(sc.images))
	copy(images, sc.images)
	return images, vulkan.Success
}

func (d *Driver) acquireNextImageKHR(ctx context.Context, device vulkan.Device, swapchain vulkan.SwapchainKHR, timeout time.Duration) (uint32, vulkan.Result) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	sc, ok := d.swapchains[swapchain]
	if !ok {
		return 0, vulkan.ErrOutOfDate
	}
	index := sc.cursor
	sc.cursor = (sc.cursor + 1) % uint32(len(sc.images))
	return index, vulkan.Success
}

func (d *Driver) queuePresentKHR(ctx context.Context, queue vulkan.Queue, info *vulkan.PresentInfoKHR) vulkan.Result {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	overall := vulkan.Success
	for i, swapchain := range info.Swapchains {
		result := vulkan.Success
		sc, ok := d.swapchains[swapchain]
		switch {
		case !ok:
			result = vulkan.ErrOutOfDate
		case i >= len(info.ImageIndices) || int(info.ImageIndices[i]) >= len(sc.images):
			result = vulkan.ErrDeviceLost
		default:
			atomic.AddUint64(&d.presentCount, 1)
		}
		if i < len(info.Results) {
			info.Results[i] = result
		}
		if result != vulkan.Success && overall == vulkan.Success {
			overall = result
		}
	}
	return overall
}

func (d *Driver) getSwapchainParameters(device vulkan.Device, swapchain vulkan.SwapchainKHR) (vulkan.Format, vulkan.Extent2D, vulkan.Result) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	sc, ok := d.swapchains[swapchain]
	if !ok {
		return vulkan.FormatUndefined, vulkan.Extent2D{}, vulkan.ErrOutOfDate
	}
	return sc.format, sc.extent, vulkan.Success
}

func (d *Driver) getImageSubresourceLayout(device vulkan.Device, image vulkan.Image) vulkan.ImageSubresourceLayout {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if obj, ok := d.images[image]; ok {
		return obj.layout
	}
	return vulkan.ImageSubresourceLayout{}
}

func (d *Driver) mapImageMemory(device vulkan.Device, image vulkan.Image) ([]byte, vulkan.Result) {
	if d.opts.NonHostVisible {
		return nil, vulkan.ErrMemoryMapFailed
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	obj, ok := d.images[image]
	if !ok {
		return nil, vulkan.ErrMemoryMapFailed
	}
	return obj.data, vulkan.Success
}

func (d *Driver) unmapImageMemory(device vulkan.Device, image vulkan.Image) {}

func (d *Driver) copyImageToBuffer(ctx context.Context, device vulkan.Device, image vulkan.Image, dst []byte) (vulkan.Fence, vulkan.Result) {
	d.mutex.Lock()
	obj, ok := d.images[image]
	if !ok {
		d.mutex.Unlock()
		return 0, vulkan.ErrDeviceLost
	}
	if uint64(len(dst)) < obj.layout.Size {
		d.mutex.Unlock()
		return 0, vulkan.ErrOutOfHostMemory
	}
	src := obj.data
	fence := vulkan.Fence(d.newHandle())
	done := make(chan struct{})
	d.fences[fence] = done
	d.mutex.Unlock()

	go func() {
		if d.opts.CopyDelay > 0 {
			time.Sleep(d.opts.CopyDelay)
		}
		copy(dst, src)
		close(done)
	}()
	return fence, vulkan.Success
}

func (d *Driver) waitForFences(ctx context.Context, device vulkan.Device, fence vulkan.Fence, timeout time.Duration) vulkan.Result {
	d.mutex.Lock()
	done, ok := d.fences[fence]
	d.mutex.Unlock()
	if !ok {
		return vulkan.ErrDeviceLost
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		d.mutex.Lock()
		delete(d.fences, fence)
		d.mutex.Unlock()
		return vulkan.Success
	case <-timer.C:
		return vulkan.TimeoutExpired
	case <-ctx.Done():
		return vulkan.TimeoutExpired
	}
}

// FillImage overwrites every pixel of the image by calling fill with the
// pixel coordinates, writing the returned channels in the image's own
// channel order. It is how tests and harnesses stand in for rendering.
func (d *Driver) FillImage(image vulkan.Image, fill func(x, y int) (r, g, b, a byte)) bool {
	d.mutex.Lock()
	obj, ok := d.images[image]
	d.mutex.Unlock()
	if !ok {
		return false
	}
	bpp := int(bytesPerPixel(obj.format))
	pitch := int(obj.layout.RowPitch)
	bgra := obj.format == vulkan.FormatB8G8R8A8Unorm || obj.format == vulkan.FormatB8G8R8A8SRGB
	for y := 0; y < int(obj.extent.Height); y++ {
		row := obj.data[y*pitch:]
		for x := 0; x < int(obj.extent.Width); x++ {
			r, g, b, a := fill(x, y)
			px := row[x*bpp:]
			if bgra {
				px[0], px[1], px[2] = b, g, r
			} else {
				px[0], px[1], px[2] = r, g, b
			}
			if bpp == 4 {
				px[3] = a
			}
		}
	}
	return true
}

// SwapchainImages returns the image handles of the swapchain in index
// order, for harnesses that want to render before presenting.
func (d *Driver) SwapchainImages(swapchain vulkan.SwapchainKHR) []vulkan.Image {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	sc, ok := d.swapchains[swapchain]
	if !ok {
		return nil
	}
	images := make([]vulkan.Image, len(sc.images))
	copy(images, sc.images)
	return images
}
