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
	"github.com/kvark/unseen/vulkan"
)

func (l *Layer) createDevice(ctx context.Context, physical vulkan.PhysicalDevice, info *vulkan.DeviceCreateInfo) (vulkan.Device, vulkan.Result) {
	state, err := l.physicals.Lookup(physical)
	if err != nil {
		log.W(ctx, "device create on unknown physical device 0x%x", uint64(physical))
		return 0, vulkan.ErrInitializationFailed
	}
	device, result := state.dispatch.createDevice(ctx, physical, info)
	if !result.IsSuccess() {
		return device, result
	}

	dispatch, err := buildDeviceDispatch(state.dispatch.getDeviceProcAddr, device, l.capturer != nil)
	if err != nil {
		log.W(ctx, "device dispatch incomplete: %v", err)
		if dispatch.destroyDevice != nil {
			dispatch.destroyDevice(ctx, device)
		}
		return 0, vulkan.ErrInitializationFailed
	}
	ds := &deviceState{handle: device, instance: state, dispatch: dispatch}
	if err := l.devices.Register(device, ds); err != nil {
		log.W(ctx, "device 0x%x: %v", uint64(device), err)
		dispatch.destroyDevice(ctx, device)
		return 0, vulkan.ErrInitializationFailed
	}
	log.I(ctx, "device created: 0x%x", uint64(device))
	return device, vulkan.Success
}

func (l *Layer) destroyDevice(ctx context.Context, device vulkan.Device) {
	state, err := l.devices.Unregister(device)
	if err != nil {
		log.W(ctx, "destroy of untracked device 0x%x", uint64(device))
		return
	}
	// Swapchains should already be gone; clean up after sloppy callers so
	// their in-flight frames do not touch freed state.
	l.swapchains.Range(func(handle vulkan.SwapchainKHR, sc *swapchainState) bool {
		if sc.device == state {
			if _, err := l.swapchains.Unregister(handle); err == nil {
				log.W(ctx, "device 0x%x destroyed with live swapchain 0x%x", uint64(device), uint64(handle))
				l.releaseSwapchain(ctx, sc)
			}
		}
		return true
	})
	l.queues.Range(func(handle vulkan.Queue, owner *deviceState) bool {
		if owner == state {
			l.queues.Unregister(handle)
		}
		return true
	})
	state.dispatch.destroyDevice(ctx, device)
	log.D(ctx, "device destroyed: 0x%x", uint64(device))
}

func (l *Layer) getDeviceQueue(device vulkan.Device, queueFamilyIndex, queueIndex uint32) vulkan.Queue {
	state, err := l.devices.Lookup(device)
	if err != nil {
		return 0
	}
	queue := state.dispatch.getDeviceQueue(device, queueFamilyIndex, queueIndex)
	if queue != 0 {
		// The driver hands out the same queue handle on repeat calls;
		// the duplicate registration error is expected then.
		l.queues.Register(queue, state)
	}
	return queue
}

// GetDeviceProcAddr is the layer's device-level resolver. It returns the
// layer's interception for the device entry points it hooks and forwards
// everything else down the chain.
func (l *Layer) GetDeviceProcAddr(device vulkan.Device, name string) interface{} {
	state, err := l.devices.Lookup(device)
	if err != nil {
		return nil
	}
	switch name {
	case vulkan.ProcGetDeviceProcAddr:
		return vulkan.GetDeviceProcAddrFunc(l.GetDeviceProcAddr)
	case vulkan.ProcDestroyDevice:
		return vulkan.DestroyDeviceFunc(l.destroyDevice)
	case vulkan.ProcGetDeviceQueue:
		return vulkan.GetDeviceQueueFunc(l.getDeviceQueue)
	case vulkan.ProcCreateSwapchainKHR:
		return vulkan.CreateSwapchainKHRFunc(l.createSwapchain)
	case vulkan.ProcDestroySwapchainKHR:
		return vulkan.DestroySwapchainKHRFunc(l.destroySwapchain)
	case vulkan.ProcAcquireNextImageKHR:
		if state.dispatch.acquireNextImage == nil {
			return nil
		}
		return vulkan.AcquireNextImageKHRFunc(l.acquireNextImage)
	case vulkan.ProcQueuePresentKHR:
		return vulkan.QueuePresentKHRFunc(l.queuePresent)
	}
	return state.dispatch.getDeviceProcAddr(device, name)
}
