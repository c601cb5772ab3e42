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

// Package headless implements the layer's surface shim.
//
// When an application asks for a headless surface, the layer answers it
// directly instead of forwarding: it mints a surface token of its own and
// serves the surface property queries from fixed data, so applications can
// run to completion on machines with no display at all. Queries for surface
// tokens the shim did not mint are forwarded to the next layer untouched.
package headless

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kvark/unseen/core/log"
	"github.com/kvark/unseen/vulkan"
)

// Shim-minted surface tokens start well clear of zero so they are never
// confused with NullHandle. The counter is shared by all shims so tokens
// stay unique across instances.
var nextToken uint64 = 0x1000

// Next holds the down-chain surface entry points queries are forwarded to
// when the surface is not shim-owned. Nil fields make the corresponding
// query fail with ErrSurfaceLost for foreign surfaces.
type Next struct {
	DestroySurface vulkan.DestroySurfaceKHRFunc
	Capabilities   vulkan.GetPhysicalDeviceSurfaceCapabilitiesKHRFunc
	Formats        vulkan.GetPhysicalDeviceSurfaceFormatsKHRFunc
	PresentModes   vulkan.GetPhysicalDeviceSurfacePresentModesKHRFunc
	Support        vulkan.GetPhysicalDeviceSurfaceSupportKHRFunc
}

// Shim owns the headless surfaces minted by one instance.
type Shim struct {
	next  Next
	mutex sync.Mutex
	owned map[vulkan.SurfaceKHR]struct{}
}

// NewShim returns a shim forwarding foreign-surface queries to next.
func NewShim(next Next) *Shim {
	return &Shim{next: next, owned: map[vulkan.SurfaceKHR]struct{}{}}
}

// Owns reports whether the surface was minted by this shim and is still
// alive.
func (s *Shim) Owns(surface vulkan.SurfaceKHR) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, ok := s.owned[surface]
	return ok
}

// Live returns the number of shim surfaces not yet destroyed.
func (s *Shim) Live() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.owned)
}

// CreateSurface mints a new headless surface token.
func (s *Shim) CreateSurface(ctx context.Context, instance vulkan.Instance) (vulkan.SurfaceKHR, vulkan.Result) {
	surface := vulkan.SurfaceKHR(atomic.AddUint64(&nextToken, 1) - 1)
	s.mutex.Lock()
	s.owned[surface] = struct{}{}
	s.mutex.Unlock()
	log.D(ctx, "headless surface created: 0x%x", uint64(surface))
	return surface, vulkan.Success
}

// DestroySurface releases a shim surface, or forwards the destroy when the
// surface belongs to someone below us.
func (s *Shim) DestroySurface(ctx context.Context, instance vulkan.Instance, surface vulkan.SurfaceKHR) {
	s.mutex.Lock()
	_, owned := s.owned[surface]
	delete(s.owned, surface)
	s.mutex.Unlock()
	if owned {
		log.D(ctx, "headless surface destroyed: 0x%x", uint64(surface))
		return
	}
	if s.next.DestroySurface != nil {
		s.next.DestroySurface(ctx, instance, surface)
	}
}

// Capabilities answers vkGetPhysicalDeviceSurfaceCapabilitiesKHR.
func (s *Shim) Capabilities(physical vulkan.PhysicalDevice, surface vulkan.SurfaceKHR) (vulkan.SurfaceCapabilitiesKHR, vulkan.Result) {
	if !s.Owns(surface) {
		if s.next.Capabilities == nil {
			return vulkan.SurfaceCapabilitiesKHR{}, vulkan.ErrSurfaceLost
		}
		return s.next.Capabilities(physical, surface)
	}
	return vulkan.SurfaceCapabilitiesKHR{
		MinImageCount:           2,
		MaxImageCount:           3,
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

// Formats answers vkGetPhysicalDeviceSurfaceFormatsKHR.
func (s *Shim) Formats(physical vulkan.PhysicalDevice, surface vulkan.SurfaceKHR) ([]vulkan.SurfaceFormatKHR, vulkan.Result) {
	if !s.Owns(surface) {
		if s.next.Formats == nil {
			return nil, vulkan.ErrSurfaceLost
		}
		return s.next.Formats(physical, surface)
	}
	return []vulkan.SurfaceFormatKHR{
		{Format: vulkan.FormatB8G8R8A8SRGB, ColorSpace: vulkan.ColorSpaceSRGBNonlinear},
		{Format: vulkan.FormatR8G8B8A8SRGB, ColorSpace: vulkan.ColorSpaceSRGBNonlinear},
	}, vulkan.Success
}

// PresentModes answers vkGetPhysicalDeviceSurfacePresentModesKHR.
func (s *Shim) PresentModes(physical vulkan.PhysicalDevice, surface vulkan.SurfaceKHR) ([]vulkan.PresentModeKHR, vulkan.Result) {
	if !s.Owns(surface) {
		if s.next.PresentModes == nil {
			return nil, vulkan.ErrSurfaceLost
		}
		return s.next.PresentModes(physical, surface)
	}
	return []vulkan.PresentModeKHR{
		vulkan.PresentModeFIFO,
		vulkan.PresentModeMailbox,
		vulkan.PresentModeImmediate,
	}, vulkan.Success
}

// Support answers vkGetPhysicalDeviceSurfaceSupportKHR. Every queue family
// can present to a headless surface.
func (s *Shim) Support(physical vulkan.PhysicalDevice, queueFamilyIndex uint32, surface vulkan.SurfaceKHR) (bool, vulkan.Result) {
	if !s.Owns(surface) {
		if s.next.Support == nil {
			return false, vulkan.ErrSurfaceLost
		}
		return s.next.Support(physical, queueFamilyIndex, surface)
	}
	return true, vulkan.Success
}
