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

// Package vulkan models the presentation-facing slice of the Vulkan API as
// plain Go values: opaque handles are integer tokens, entry points are
// typed function values resolved by name, and layers chain through the
// create-info structures exactly like the native loader contract.
package vulkan

// Handle is the raw value underlying every opaque object token.
// Handle values are only unique within one object type's namespace and may
// collide numerically across namespaces.
type Handle uint64

// NullHandle is the zero value of every handle namespace.
const NullHandle Handle = 0

// The opaque object tokens. Each is its own namespace.
type (
	// Instance represents a VkInstance.
	Instance Handle
	// PhysicalDevice represents a VkPhysicalDevice.
	PhysicalDevice Handle
	// Device represents a VkDevice.
	Device Handle
	// Queue represents a VkQueue.
	Queue Handle
	// SurfaceKHR represents a VkSurfaceKHR.
	SurfaceKHR Handle
	// SwapchainKHR represents a VkSwapchainKHR.
	SwapchainKHR Handle
	// Image represents a VkImage.
	Image Handle
	// Fence represents a VkFence used to observe completion of a
	// device-side operation.
	Fence Handle
)
