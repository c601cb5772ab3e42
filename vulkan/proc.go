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

package vulkan

import (
	"context"
	"time"
)

// Entry point names used with the proc-addr resolvers.
// The UNSEEN-suffixed names are private extensions of this model: they
// stand in for the command-buffer plumbing a native layer would use to read
// image memory back, and for the driver echoing the parameters it actually
// negotiated for a swapchain.
const (
	ProcGetInstanceProcAddr      = "vkGetInstanceProcAddr"
	ProcGetDeviceProcAddr        = "vkGetDeviceProcAddr"
	ProcCreateInstance           = "vkCreateInstance"
	ProcDestroyInstance          = "vkDestroyInstance"
	ProcEnumeratePhysicalDevices = "vkEnumeratePhysicalDevices"
	ProcCreateDevice             = "vkCreateDevice"
	ProcDestroyDevice            = "vkDestroyDevice"
	ProcGetDeviceQueue           = "vkGetDeviceQueue"

	ProcCreateSwapchainKHR    = "vkCreateSwapchainKHR"
	ProcDestroySwapchainKHR   = "vkDestroySwapchainKHR"
	ProcGetSwapchainImagesKHR = "vkGetSwapchainImagesKHR"
	ProcAcquireNextImageKHR   = "vkAcquireNextImageKHR"
	ProcQueuePresentKHR       = "vkQueuePresentKHR"

	ProcDestroySurfaceKHR                       = "vkDestroySurfaceKHR"
	ProcCreateHeadlessSurfaceEXT                = "vkCreateHeadlessSurfaceEXT"
	ProcGetPhysicalDeviceSurfaceCapabilitiesKHR = "vkGetPhysicalDeviceSurfaceCapabilitiesKHR"
	ProcGetPhysicalDeviceSurfaceFormatsKHR      = "vkGetPhysicalDeviceSurfaceFormatsKHR"
	ProcGetPhysicalDeviceSurfacePresentModesKHR = "vkGetPhysicalDeviceSurfacePresentModesKHR"
	ProcGetPhysicalDeviceSurfaceSupportKHR      = "vkGetPhysicalDeviceSurfaceSupportKHR"

	ProcEnumerateInstanceLayerProperties     = "vkEnumerateInstanceLayerProperties"
	ProcEnumerateInstanceExtensionProperties = "vkEnumerateInstanceExtensionProperties"

	ProcGetSwapchainParametersUNSEEN = "vkGetSwapchainParametersUNSEEN"
	ProcGetImageSubresourceLayout    = "vkGetImageSubresourceLayout"
	ProcMapImageMemoryUNSEEN         = "vkMapImageMemoryUNSEEN"
	ProcUnmapImageMemoryUNSEEN       = "vkUnmapImageMemoryUNSEEN"
	ProcCopyImageToBufferUNSEEN      = "vkCopyImageToBufferUNSEEN"
	ProcWaitForFences                = "vkWaitForFences"
)

// The typed signatures of the entry points. A proc-addr resolver returns
// one of these (or nil) for each of the names above; callers type-assert to
// the matching signature.
type (
	// GetInstanceProcAddrFunc resolves instance-level entry points in the
	// next layer or driver.
	GetInstanceProcAddrFunc func(instance Instance, name string) interface{}
	// GetDeviceProcAddrFunc resolves device-level entry points in the next
	// layer or driver.
	GetDeviceProcAddrFunc func(device Device, name string) interface{}

	CreateInstanceFunc           func(ctx context.Context, info *InstanceCreateInfo) (Instance, Result)
	DestroyInstanceFunc          func(ctx context.Context, instance Instance)
	EnumeratePhysicalDevicesFunc func(ctx context.Context, instance Instance) ([]PhysicalDevice, Result)
	CreateDeviceFunc             func(ctx context.Context, physicalDevice PhysicalDevice, info *DeviceCreateInfo) (Device, Result)
	DestroyDeviceFunc            func(ctx context.Context, device Device)
	GetDeviceQueueFunc           func(device Device, queueFamilyIndex, queueIndex uint32) Queue

	CreateSwapchainKHRFunc    func(ctx context.Context, device Device, info *SwapchainCreateInfoKHR) (SwapchainKHR, Result)
	DestroySwapchainKHRFunc   func(ctx context.Context, device Device, swapchain SwapchainKHR)
	GetSwapchainImagesKHRFunc func(ctx context.Context, device Device, swapchain SwapchainKHR) ([]Image, Result)
	AcquireNextImageKHRFunc   func(ctx context.Context, device Device, swapchain SwapchainKHR, timeout time.Duration) (uint32, Result)
	QueuePresentKHRFunc       func(ctx context.Context, queue Queue, info *PresentInfoKHR) Result

	DestroySurfaceKHRFunc                       func(ctx context.Context, instance Instance, surface SurfaceKHR)
	CreateHeadlessSurfaceEXTFunc                func(ctx context.Context, instance Instance) (SurfaceKHR, Result)
	GetPhysicalDeviceSurfaceCapabilitiesKHRFunc func(physicalDevice PhysicalDevice, surface SurfaceKHR) (SurfaceCapabilitiesKHR, Result)
	GetPhysicalDeviceSurfaceFormatsKHRFunc      func(physicalDevice PhysicalDevice, surface SurfaceKHR) ([]SurfaceFormatKHR, Result)
	GetPhysicalDeviceSurfacePresentModesKHRFunc func(physicalDevice PhysicalDevice, surface SurfaceKHR) ([]PresentModeKHR, Result)
	GetPhysicalDeviceSurfaceSupportKHRFunc      func(physicalDevice PhysicalDevice, queueFamilyIndex uint32, surface SurfaceKHR) (bool, Result)

	EnumerateInstanceLayerPropertiesFunc     func() ([]LayerProperties, Result)
	EnumerateInstanceExtensionPropertiesFunc func(layerName string) ([]ExtensionProperties, Result)

	// GetSwapchainParametersUNSEENFunc reports the format and extent the
	// driver actually negotiated, which may differ from the request.
	GetSwapchainParametersUNSEENFunc func(device Device, swapchain SwapchainKHR) (Format, Extent2D, Result)
	// GetImageSubresourceLayoutFunc reports the memory layout of a linear
	// image.
	GetImageSubresourceLayoutFunc func(device Device, image Image) ImageSubresourceLayout
	// MapImageMemoryUNSEENFunc maps a host-visible image, returning its raw
	// backing bytes, or ErrMemoryMapFailed-like result when the image
	// memory is not host-visible.
	MapImageMemoryUNSEENFunc func(device Device, image Image) ([]byte, Result)
	// UnmapImageMemoryUNSEENFunc releases a mapping made by
	// MapImageMemoryUNSEEN.
	UnmapImageMemoryUNSEENFunc func(device Device, image Image)
	// CopyImageToBufferUNSEENFunc schedules a copy of the image pixels into
	// dst and returns a fence that is signalled when the copy completes.
	CopyImageToBufferUNSEENFunc func(ctx context.Context, device Device, image Image, dst []byte) (Fence, Result)
	// WaitForFencesFunc blocks until the fence is signalled or the timeout
	// expires, returning TimeoutExpired in the latter case. The fence is
	// invalid after a successful wait.
	WaitForFencesFunc func(ctx context.Context, device Device, fence Fence, timeout time.Duration) Result
)
