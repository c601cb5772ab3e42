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
	"github.com/pkg/errors"

	"github.com/kvark/unseen/vulkan"
)

// resolver resolves one entry point name in the next layer or driver.
type resolver func(name string) interface{}

// resolve returns the entry point as F, failing when the name does not
// resolve or resolves to something of a different signature.
func resolve[F any](r resolver, name string) (F, error) {
	var fn F
	v := r(name)
	if v == nil {
		return fn, errors.Errorf("missing entry point %s", name)
	}
	fn, ok := v.(F)
	if !ok {
		return fn, errors.Errorf("entry point %s has unexpected type %T", name, v)
	}
	return fn, nil
}

// optional returns the entry point as F, or the zero (nil) function when it
// does not resolve.
func optional[F any](r resolver, name string) F {
	fn, _ := resolve[F](r, name)
	return fn
}

// instanceDispatch holds the down-chain instance-level entry points,
// resolved once at instance creation.
type instanceDispatch struct {
	getInstanceProcAddr vulkan.GetInstanceProcAddrFunc
	getDeviceProcAddr   vulkan.GetDeviceProcAddrFunc

	destroyInstance          vulkan.DestroyInstanceFunc
	enumeratePhysicalDevices vulkan.EnumeratePhysicalDevicesFunc
	createDevice             vulkan.CreateDeviceFunc

	// The surface entries are optional: the driver may not expose any
	// surface support at all, in which case the headless shim is the only
	// way to present.
	destroySurface      vulkan.DestroySurfaceKHRFunc
	surfaceCapabilities vulkan.GetPhysicalDeviceSurfaceCapabilitiesKHRFunc
	surfaceFormats      vulkan.GetPhysicalDeviceSurfaceFormatsKHRFunc
	surfacePresentModes vulkan.GetPhysicalDeviceSurfacePresentModesKHRFunc
	surfaceSupport      vulkan.GetPhysicalDeviceSurfaceSupportKHRFunc
}

func buildInstanceDispatch(gpa vulkan.GetInstanceProcAddrFunc, instance vulkan.Instance) (instanceDispatch, error) {
	r := resolver(func(name string) interface{} { return gpa(instance, name) })
	d := instanceDispatch{getInstanceProcAddr: gpa}
	var err error
	if d.getDeviceProcAddr, err = resolve[vulkan.GetDeviceProcAddrFunc](r, vulkan.ProcGetDeviceProcAddr); err != nil {
		return d, err
	}
	if d.destroyInstance, err = resolve[vulkan.DestroyInstanceFunc](r, vulkan.ProcDestroyInstance); err != nil {
		return d, err
	}
	if d.enumeratePhysicalDevices, err = resolve[vulkan.EnumeratePhysicalDevicesFunc](r, vulkan.ProcEnumeratePhysicalDevices); err != nil {
		return d, err
	}
	if d.createDevice, err = resolve[vulkan.CreateDeviceFunc](r, vulkan.ProcCreateDevice); err != nil {
		return d, err
	}
	d.destroySurface = optional[vulkan.DestroySurfaceKHRFunc](r, vulkan.ProcDestroySurfaceKHR)
	d.surfaceCapabilities = optional[vulkan.GetPhysicalDeviceSurfaceCapabilitiesKHRFunc](r, vulkan.ProcGetPhysicalDeviceSurfaceCapabilitiesKHR)
	d.surfaceFormats = optional[vulkan.GetPhysicalDeviceSurfaceFormatsKHRFunc](r, vulkan.ProcGetPhysicalDeviceSurfaceFormatsKHR)
	d.surfacePresentModes = optional[vulkan.GetPhysicalDeviceSurfacePresentModesKHRFunc](r, vulkan.ProcGetPhysicalDeviceSurfacePresentModesKHR)
	d.surfaceSupport = optional[vulkan.GetPhysicalDeviceSurfaceSupportKHRFunc](r, vulkan.ProcGetPhysicalDeviceSurfaceSupportKHR)
	return d, nil
}

// deviceDispatch holds the down-chain device-level entry points, resolved
// once at device creation.
type deviceDispatch struct {
	getDeviceProcAddr vulkan.GetDeviceProcAddrFunc

	destroyDevice  vulkan.DestroyDeviceFunc
	getDeviceQueue vulkan.GetDeviceQueueFunc

	// The swapchain entries are optional: the device may not have enabled
	// the swapchain extension.
	createSwapchain    vulkan.CreateSwapchainKHRFunc
	destroySwapchain   vulkan.DestroySwapchainKHRFunc
	getSwapchainImages vulkan.GetSwapchainImagesKHRFunc
	acquireNextImage   vulkan.AcquireNextImageKHRFunc
	queuePresent       vulkan.QueuePresentKHRFunc

	// The readback entries are required only when capture is enabled.
	swapchainParameters vulkan.GetSwapchainParametersUNSEENFunc
	imageLayout         vulkan.GetImageSubresourceLayoutFunc
	mapImage            vulkan.MapImageMemoryUNSEENFunc
	unmapImage          vulkan.UnmapImageMemoryUNSEENFunc
	copyImage           vulkan.CopyImageToBufferUNSEENFunc
	waitFences          vulkan.WaitForFencesFunc
}

func buildDeviceDispatch(gdpa vulkan.GetDeviceProcAddrFunc, device vulkan.Device, capture bool) (deviceDispatch, error) {
	r := resolver(func(name string) interface{} { return gdpa(device, name) })
	d := deviceDispatch{getDeviceProcAddr: gdpa}
	var err error
	if d.destroyDevice, err = resolve[vulkan.DestroyDeviceFunc](r, vulkan.ProcDestroyDevice); err != nil {
		return d, err
	}
	if d.getDeviceQueue, err = resolve[vulkan.GetDeviceQueueFunc](r, vulkan.ProcGetDeviceQueue); err != nil {
		return d, err
	}
	d.createSwapchain = optional[vulkan.CreateSwapchainKHRFunc](r, vulkan.ProcCreateSwapchainKHR)
	d.destroySwapchain = optional[vulkan.DestroySwapchainKHRFunc](r, vulkan.ProcDestroySwapchainKHR)
	d.getSwapchainImages = optional[vulkan.GetSwapchainImagesKHRFunc](r, vulkan.ProcGetSwapchainImagesKHR)
	d.acquireNextImage = optional[vulkan.AcquireNextImageKHRFunc](r, vulkan.ProcAcquireNextImageKHR)
	d.queuePresent = optional[vulkan.QueuePresentKHRFunc](r, vulkan.ProcQueuePresentKHR)

	if !capture {
		return d, nil
	}
	if d.swapchainParameters, err = resolve[vulkan.GetSwapchainParametersUNSEENFunc](r, vulkan.ProcGetSwapchainParametersUNSEEN); err != nil {
		return d, err
	}
	if d.imageLayout, err = resolve[vulkan.GetImageSubresourceLayoutFunc](r, vulkan.ProcGetImageSubresourceLayout); err != nil {
		return d, err
	}
	if d.mapImage, err = resolve[vulkan.MapImageMemoryUNSEENFunc](r, vulkan.ProcMapImageMemoryUNSEEN); err != nil {
		return d, err
	}
	if d.unmapImage, err = resolve[vulkan.UnmapImageMemoryUNSEENFunc](r, vulkan.ProcUnmapImageMemoryUNSEEN); err != nil {
		return d, err
	}
	if d.copyImage, err = resolve[vulkan.CopyImageToBufferUNSEENFunc](r, vulkan.ProcCopyImageToBufferUNSEEN); err != nil {
		return d, err
	}
	if d.waitFences, err = resolve[vulkan.WaitForFencesFunc](r, vulkan.ProcWaitForFences); err != nil {
		return d, err
	}
	return d, nil
}
