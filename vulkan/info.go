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

// ApplicationInfo names the application creating an instance.
type ApplicationInfo struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32
	APIVersion         uint32
}

// LayerInstanceLink is one link of the layer chain handed down by the
// loader. A layer consumes the head of the chain to find the next
// implementation below it, and forwards the tail.
type LayerInstanceLink struct {
	// GetInstanceProcAddr resolves entry points in the next layer or
	// driver.
	GetInstanceProcAddr GetInstanceProcAddrFunc
	// Next is the chain below the next layer, or nil at the driver.
	Next *LayerInstanceLink
}

// InstanceCreateInfo is the argument block of CreateInstance.
type InstanceCreateInfo struct {
	Application       *ApplicationInfo
	EnabledLayers     []string
	EnabledExtensions []string
	// LayerChain carries the loader's layer chain. The head link names the
	// next implementation below the receiving layer.
	LayerChain *LayerInstanceLink
}

// Clone returns a shallow copy of the create info with the layer chain
// advanced to the tail, ready to be forwarded down the chain.
func (i *InstanceCreateInfo) Clone() *InstanceCreateInfo {
	next := *i
	if i.LayerChain != nil {
		next.LayerChain = i.LayerChain.Next
	}
	return &next
}

// DeviceQueueCreateInfo requests queues from one queue family.
type DeviceQueueCreateInfo struct {
	QueueFamilyIndex uint32
	QueuePriorities  []float32
}

// DeviceCreateInfo is the argument block of CreateDevice.
type DeviceCreateInfo struct {
	QueueCreateInfos  []DeviceQueueCreateInfo
	EnabledExtensions []string
}

// SwapchainCreateInfoKHR is the argument block of CreateSwapchainKHR.
// Everything in here is a request; the driver is free to negotiate
// different values, which callers must re-query after creation.
type SwapchainCreateInfoKHR struct {
	Surface          SurfaceKHR
	MinImageCount    uint32
	ImageFormat      Format
	ImageColorSpace  ColorSpaceKHR
	ImageExtent      Extent2D
	ImageArrayLayers uint32
	ImageUsage       ImageUsageFlags
	PreTransform     SurfaceTransformFlagsKHR
	CompositeAlpha   CompositeAlphaFlagsKHR
	PresentMode      PresentModeKHR
	Clipped          bool
	OldSwapchain     SwapchainKHR
}

// PresentInfoKHR is the argument block of QueuePresentKHR.
// A single present call may target multiple swapchains; Swapchains and
// ImageIndices run in lockstep.
type PresentInfoKHR struct {
	Swapchains   []SwapchainKHR
	ImageIndices []uint32
	// Results, when non-nil, receives the per-swapchain presentation
	// result. Must have the same length as Swapchains.
	Results []Result
}
