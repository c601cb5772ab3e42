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

import (
	"context"

	"github.com/kvark/unseen/vulkan"
)

func (d *Driver) createHeadlessSurfaceEXT(ctx context.Context, instance vulkan.Instance) (vulkan.SurfaceKHR, vulkan.Result) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if _, ok := d.instances[instance]; !ok {
		return 0, vulkan.ErrInitializationFailed
	}
	surface := vulkan.SurfaceKHR(d.newHandle())
	d.surfaces[surface] = instance
	return surface, vulkan.Success
}

func (d *Driver) destroySurfaceKHR(ctx context.Context, instance vulkan.Instance, surface vulkan.SurfaceKHR) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	delete(d.surfaces, surface)
}

func (d *Driver) knownSurface(surface vulkan.SurfaceKHR) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	_, ok := d.surfaces[surface]
	return ok
}

func (d *Driver) getSurfaceCapabilities(physical vulkan.PhysicalDevice, surface vulkan.SurfaceKHR) (vulkan.SurfaceCapabilitiesKHR, vulkan.Result) {
	if !d.knownSurface(surface) {
		return vulkan.SurfaceCapabilitiesKHR{}, vulkan.ErrSurfaceLost
	}
	return vulkan.SurfaceCapabilitiesKHR{
		MinImageCount:           minSwapchainImages,
		MaxImageCount:           maxSwapchainImages,
		CurrentExtent:           vulkan.Extent2D{Width: 1920, Height: 1080},
		MinImageExtent:          vulkan.Extent2D{Width: 1, Height: 1},
		MaxImageExtent:          vulkan.Extent2D{Width: 4096, Height: 4096},
		MaxImageArrayLayers:     1,
		SupportedTransforms:     vulkan.SurfaceTransformIdentity,
		CurrentTransform:        vulkan.SurfaceTransformIdentity,
		SupportedCompositeAlpha: vulkan.CompositeAlphaOpaque,
		SupportedUsageFlags: vulkan.ImageUsageColorAttachment |
			vulkan.ImageUsageTransferSrc | vulkan.ImageUsageTransferDst,
	}, vulkan.Success
}

func (d *Driver) getSurfaceFormats(physical vulkan.PhysicalDevice, surface vulkan.SurfaceKHR) ([]vulkan.SurfaceFormatKHR, vulkan.Result) {
	if !d.knownSurface(surface) {
		return nil, vulkan.ErrSurfaceLost
	}
	return []vulkan.SurfaceFormatKHR{
		{Format: vulkan.FormatB8G8R8A8SRGB, ColorSpace: vulkan.ColorSpaceSRGBNonlinear},
		{Format: vulkan.FormatR8G8B8A8SRGB, ColorSpace: vulkan.ColorSpaceSRGBNonlinear},
	}, vulkan.Success
}

func (d *Driver) getSurfacePresentModes(physical vulkan.PhysicalDevice, surface vulkan.SurfaceKHR) ([]vulkan.PresentModeKHR, vulkan.Result) {
	if !d.knownSurface(surface) {
		return nil, vulkan.ErrSurfaceLost
	}
	return []vulkan.PresentModeKHR{
		vulkan.PresentModeFIFO,
		vulkan.PresentModeMailbox,
		vulkan.PresentModeImmediate,
	}, vulkan.Success
}

func (d *Driver) getSurfaceSupport(physical vulkan.PhysicalDevice, queueFamilyIndex uint32, surface vulkan.SurfaceKHR) (bool, vulkan.Result) {
	if !d.knownSurface(surface) {
		return false, vulkan.ErrSurfaceLost
	}
	return true, vulkan.Success
}

func (d *Driver) enumerateLayerProperties() ([]vulkan.LayerProperties, vulkan.Result) {
	return nil, vulkan.Success
}

func (d *Driver) enumerateExtensionProperties(layerName string) ([]vulkan.ExtensionProperties, vulkan.Result) {
	if layerName != "" {
		return nil, vulkan.ErrLayerNotPresent
	}
	return []vulkan.ExtensionProperties{
		{ExtensionName: "VK_KHR_surface", SpecVersion: 25},
		{ExtensionName: "VK_EXT_headless_surface", SpecVersion: 1},
	}, vulkan.Success
}
