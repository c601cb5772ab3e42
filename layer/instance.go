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

	"github.com/kvark/unseen/core/log"
	"github.com/kvark/unseen/layer/headless"
	"github.com/kvark/unseen/vulkan"
)

// CreateInstance consumes the head of the loader's layer chain, creates the
// instance in the next layer down, and resolves the down-chain dispatch.
func (l *Layer) CreateInstance(ctx context.Context, info *vulkan.InstanceCreateInfo) (vulkan.Instance, vulkan.Result) {
	if info == nil || info.LayerChain == nil {
		log.W(ctx, "vkCreateInstance called without a layer chain")
		return 0, vulkan.ErrInitializationFailed
	}
	nextGPA := info.LayerChain.GetInstanceProcAddr
	if nextGPA == nil {
		return 0, vulkan.ErrInitializationFailed
	}
	r := resolver(func(name string) interface{} { return nextGPA(0, name) })
	createDown, err := resolve[vulkan.CreateInstanceFunc](r, vulkan.ProcCreateInstance)
	if err != nil {
		log.W(ctx, "cannot reach next vkCreateInstance: %v", err)
		return 0, vulkan.ErrInitializationFailed
	}

	instance, result := createDown(ctx, info.Clone())
	if !result.IsSuccess() {
		return instance, result
	}

	dispatch, err := buildInstanceDispatch(nextGPA, instance)
	if err != nil {
		log.W(ctx, "instance dispatch incomplete: %v", err)
		if dispatch.destroyInstance != nil {
			dispatch.destroyInstance(ctx, instance)
		}
		return 0, vulkan.ErrInitializationFailed
	}

	state := &instanceState{
		handle:   instance,
		dispatch: dispatch,
		shim: headless.NewShim(headless.Next{
			DestroySurface: dispatch.destroySurface,
			Capabilities:   dispatch.surfaceCapabilities,
			Formats:        dispatch.surfaceFormats,
			PresentModes:   dispatch.surfacePresentModes,
			Support:        dispatch.surfaceSupport,
		}),
	}
	if err := l.instances.Register(instance, state); err != nil {
		log.W(ctx, "instance 0x%x: %v", uint64(instance), err)
		dispatch.destroyInstance(ctx, instance)
		return 0, vulkan.ErrInitializationFailed
	}

	app := "<unknown>"
	if info.Application != nil && info.Application.ApplicationName != "" {
		app = info.Application.ApplicationName
	}
	log.I(ctx, "instance created: 0x%x app=%v", uint64(instance), app)
	return instance, vulkan.Success
}

func (l *Layer) destroyInstance(ctx context.Context, instance vulkan.Instance) {
	state, err := l.instances.Unregister(instance)
	if err != nil {
		log.W(ctx, "destroy of untracked instance 0x%x", uint64(instance))
		return
	}
	// Drop the physical device records that pointed at this instance.
	l.physicals.Range(func(handle vulkan.PhysicalDevice, owner *instanceState) bool {
		if owner == state {
			l.physicals.Unregister(handle)
		}
		return true
	})
	if live := state.shim.Live(); live > 0 {
		log.W(ctx, "instance 0x%x destroyed with %v live headless surfaces", uint64(instance), live)
	}
	state.dispatch.destroyInstance(ctx, instance)
	log.D(ctx, "instance destroyed: 0x%x", uint64(instance))
}

func (l *Layer) enumeratePhysicalDevices(ctx context.Context, instance vulkan.Instance) ([]vulkan.PhysicalDevice, vulkan.Result) {
	state, err := l.instances.Lookup(instance)
	if err != nil {
		return nil, vulkan.ErrInitializationFailed
	}
	physicals, result := state.dispatch.enumeratePhysicalDevices(ctx, instance)
	if result.IsSuccess() {
		for _, physical := range physicals {
			// Re-enumeration returns the same handles; duplicates are
			// expected.
			l.physicals.Register(physical, state)
		}
	}
	return physicals, result
}

func (l *Layer) createHeadlessSurface(ctx context.Context, instance vulkan.Instance) (vulkan.SurfaceKHR, vulkan.Result) {
	state, err := l.instances.Lookup(instance)
	if err != nil {
		return 0, vulkan.ErrInitializationFailed
	}
	return state.shim.CreateSurface(ctx, instance)
}

func (l *Layer) destroySurface(ctx context.Context, instance vulkan.Instance, surface vulkan.SurfaceKHR) {
	state, err := l.instances.Lookup(instance)
	if err != nil {
		log.W(ctx, "surface destroy on untracked instance 0x%x", uint64(instance))
		return
	}
	state.shim.DestroySurface(ctx, instance, surface)
}

// The surface property queries are keyed by physical device, so they route
// through the owning instance's shim. The shim forwards queries for
// surfaces it does not own.

func (l *Layer) surfaceCapabilities(physical vulkan.PhysicalDevice, surface vulkan.SurfaceKHR) (vulkan.SurfaceCapabilitiesKHR, vulkan.Result) {
	state, err := l.physicals.Lookup(physical)
	if err != nil {
		return vulkan.SurfaceCapabilitiesKHR{}, vulkan.ErrInitializationFailed
	}
	return state.shim.Capabilities(physical, surface)
}

func (l *Layer) surfaceFormats(physical vulkan.PhysicalDevice, surface vulkan.SurfaceKHR) ([]vulkan.SurfaceFormatKHR, vulkan.Result) {
	state, err := l.physicals.Lookup(physical)
	if err != nil {
		return nil, vulkan.ErrInitializationFailed
	}
	return state.shim.Formats(physical, surface)
}

func (l *Layer) surfacePresentModes(physical vulkan.PhysicalDevice, surface vulkan.SurfaceKHR) ([]vulkan.PresentModeKHR, vulkan.Result) {
	state, err := l.physicals.Lookup(physical)
	if err != nil {
		return nil, vulkan.ErrInitializationFailed
	}
	return state.shim.PresentModes(physical, surface)
}

func (l *Layer) surfaceSupport(physical vulkan.PhysicalDevice, queueFamilyIndex uint32, surface vulkan.SurfaceKHR) (bool, vulkan.Result) {
	state, err := l.physicals.Lookup(physical)
	if err != nil {
		return false, vulkan.ErrInitializationFailed
	}
	return state.shim.Support(physical, queueFamilyIndex, surface)
}

// GetInstanceProcAddr is the layer's own proc-addr resolver, handed to the
// loader. It returns the layer's interception for the entry points it
// hooks and forwards everything else down the chain.
func (l *Layer) GetInstanceProcAddr(instance vulkan.Instance, name string) interface{} {
	// Global entry points resolve without an instance.
	switch name {
	case vulkan.ProcGetInstanceProcAddr:
		return vulkan.GetInstanceProcAddrFunc(l.GetInstanceProcAddr)
	case vulkan.ProcCreateInstance:
		return vulkan.CreateInstanceFunc(l.CreateInstance)
	case vulkan.ProcEnumerateInstanceLayerProperties:
		return vulkan.EnumerateInstanceLayerPropertiesFunc(l.EnumerateLayerProperties)
	case vulkan.ProcEnumerateInstanceExtensionProperties:
		return vulkan.EnumerateInstanceExtensionPropertiesFunc(l.EnumerateExtensionProperties)
	}

	state, err := l.instances.Lookup(instance)
	if err != nil {
		return nil
	}
	switch name {
	case vulkan.ProcGetDeviceProcAddr:
		return vulkan.GetDeviceProcAddrFunc(l.GetDeviceProcAddr)
	case vulkan.ProcDestroyInstance:
		return vulkan.DestroyInstanceFunc(l.destroyInstance)
	case vulkan.ProcEnumeratePhysicalDevices:
		return vulkan.EnumeratePhysicalDevicesFunc(l.enumeratePhysicalDevices)
	case vulkan.ProcCreateDevice:
		return vulkan.CreateDeviceFunc(l.createDevice)
	case vulkan.ProcCreateHeadlessSurfaceEXT:
		return vulkan.CreateHeadlessSurfaceEXTFunc(l.createHeadlessSurface)
	case vulkan.ProcDestroySurfaceKHR:
		return vulkan.DestroySurfaceKHRFunc(l.destroySurface)
	case vulkan.ProcGetPhysicalDeviceSurfaceCapabilitiesKHR:
		return vulkan.GetPhysicalDeviceSurfaceCapabilitiesKHRFunc(l.surfaceCapabilities)
	case vulkan.ProcGetPhysicalDeviceSurfaceFormatsKHR:
		return vulkan.GetPhysicalDeviceSurfaceFormatsKHRFunc(l.surfaceFormats)
	case vulkan.ProcGetPhysicalDeviceSurfacePresentModesKHR:
		return vulkan.GetPhysicalDeviceSurfacePresentModesKHRFunc(l.surfacePresentModes)
	case vulkan.ProcGetPhysicalDeviceSurfaceSupportKHR:
		return vulkan.GetPhysicalDeviceSurfaceSupportKHRFunc(l.surfaceSupport)
	}
	return state.dispatch.getInstanceProcAddr(instance, name)
}
