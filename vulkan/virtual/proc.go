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

package virtual

import "github.com/kvark/unseen/vulkan"

// GetInstanceProcAddr resolves instance-level entry points, returning nil
// for names the driver does not implement. The global entry points resolve
// regardless of the instance argument, matching the loader contract.
func (d *Driver) GetInstanceProcAddr(instance vulkan.Instance, name string) interface{} {
	switch name {
	case vulkan.ProcGetInstanceProcAddr:
		return vulkan.GetInstanceProcAddrFunc(d.GetInstanceProcAddr)
	case vulkan.ProcGetDeviceProcAddr:
		return vulkan.GetDeviceProcAddrFunc(d.GetDeviceProcAddr)
	case vulkan.ProcCreateInstance:
		return vulkan.CreateInstanceFunc(d.createInstance)
	case vulkan.ProcDestroyInstance:
		return vulkan.DestroyInstanceFunc(d.destroyInstance)
	case vulkan.ProcEnumeratePhysicalDevices:
		return vulkan.EnumeratePhysicalDevicesFunc(d.enumeratePhysicalDevices)
	case vulkan.ProcCreateDevice:
		return vulkan.CreateDeviceFunc(d.createDevice)
	case vulkan.ProcDestroySurfaceKHR:
		return vulkan.DestroySurfaceKHRFunc(d.destroySurfaceKHR)
	case vulkan.ProcCreateHeadlessSurfaceEXT:
		return vulkan.CreateHeadlessSurfaceEXTFunc(d.createHeadlessSurfaceEXT)
	case vulkan.ProcGetPhysicalDeviceSurfaceCapabilitiesKHR:
		return vulkan.GetPhysicalDeviceSurfaceCapabilitiesKHRFunc(d.getSurfaceCapabilities)
	case vulkan.ProcGetPhysicalDeviceSurfaceFormatsKHR:
		return vulkan.GetPhysicalDeviceSurfaceFormatsKHRFunc(d.getSurfaceFormats)
	case vulkan.ProcGetPhysicalDeviceSurfacePresentModesKHR:
		return vulkan.GetPhysicalDeviceSurfacePresentModesKHRFunc(d.getSurfacePresentModes)
	case vulkan.ProcGetPhysicalDeviceSurfaceSupportKHR:
		return vulkan.GetPhysicalDeviceSurfaceSupportKHRFunc(d.getSurfaceSupport)
	case vulkan.ProcEnumerateInstanceLayerProperties:
		return vulkan.EnumerateInstanceLayerPropertiesFunc(d.enumerateLayerProperties)
	case vulkan.ProcEnumerateInstanceExtensionProperties:
		return vulkan.EnumerateInstanceExtensionPropertiesFunc(d.enumerateExtensionProperties)
	}
	// Device-level entries are resolvable through the instance too.
	return d.GetDeviceProcAddr(0, name)
}

// GetDeviceProcAddr resolves device-level entry points, returning nil for
// names the driver does not implement.
func (d *Driver) GetDeviceProcAddr(device vulkan.Device, name string) interface{} {
	switch name {
	case vulkan.ProcGetDeviceProcAddr:
		return vulkan.GetDeviceProcAddrFunc(d.GetDeviceProcAddr)
	case vulkan.ProcDestroyDevice:
		return vulkan.DestroyDeviceFunc(d.destroyDevice)
	case vulkan.ProcGetDeviceQueue:
		return vulkan.GetDeviceQueueFunc(d.getDeviceQueue)
	case vulkan.ProcCreateSwapchainKHR:
		return vulkan.CreateSwapchainKHRFunc(d.createSwapchainKHR)
	case vulkan.ProcDestroySwapchainKHR:
		return vulkan.DestroySwapchainKHRFunc(d.destroySwapchainKHR)
	case vulkan.ProcGetSwapchainImagesKHR:
		return vulkan.GetSwapchainImagesKHRFunc(d.getSwapchainImagesKHR)
	case vulkan.ProcAcquireNextImageKHR:
		return vulkan.AcquireNextImageKHRFunc(d.acquireNextImageKHR)
	case vulkan.ProcQueuePresentKHR:
		return vulkan.QueuePresentKHRFunc(d.queuePresentKHR)
	case vulkan.ProcGetSwapchainParametersUNSEEN:
		return vulkan.GetSwapchainParametersUNSEENFunc(d.getSwapchainParameters)
	case vulkan.ProcGetImageSubresourceLayout:
		return vulkan.GetImageSubresourceLayoutFunc(d.getImageSubresourceLayout)
	case vulkan.ProcMapImageMemoryUNSEEN:
		return vulkan.MapImageMemoryUNSEENFunc(d.mapImageMemory)
	case vulkan.ProcUnmapImageMemoryUNSEEN:
		return vulkan.UnmapImageMemoryUNSEENFunc(d.unmapImageMemory)
	case vulkan.ProcCopyImageToBufferUNSEEN:
		return vulkan.CopyImageToBufferUNSEENFunc(d.copyImageToBuffer)
	case vulkan.ProcWaitForFences:
		return vulkan.WaitForFencesFunc(d.waitForFences)
	}
	return nil
}
