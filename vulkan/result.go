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

import "fmt"

// Result is the return code of an API call, mirroring VkResult values.
type Result int32

const (
	// Success indicates the command successfully completed.
	Success Result = 0
	// NotReady indicates a fence or query is not yet complete.
	NotReady Result = 1
	// TimeoutExpired indicates a wait operation has not completed in the
	// specified time.
	TimeoutExpired Result = 2
	// Incomplete indicates a return array was too small for the result.
	Incomplete Result = 5

	// ErrOutOfHostMemory indicates a host memory allocation has failed.
	ErrOutOfHostMemory Result = -1
	// ErrInitializationFailed indicates initialization of an object could
	// not be completed.
	ErrInitializationFailed Result = -3
	// ErrDeviceLost indicates the logical or physical device has been lost.
	ErrDeviceLost Result = -4
	// ErrMemoryMapFailed indicates mapping of a memory object has failed,
	// typically because the memory is not host-visible.
	ErrMemoryMapFailed Result = -5
	// ErrLayerNotPresent indicates a requested layer is not present.
	ErrLayerNotPresent Result = -6
	// ErrExtensionNotPresent indicates a requested extension is not
	// supported.
	ErrExtensionNotPresent Result = -7
	// ErrSurfaceLost indicates a surface is no longer available.
	ErrSurfaceLost Result = -1000000000
	// ErrOutOfDate indicates a swapchain no longer matches the surface and
	// must be recreated.
	ErrOutOfDate Result = -1000001004
)

// IsSuccess returns true for Success and the non-error status codes.
func (r Result) IsSuccess() bool { return r >= 0 }

func (r Result) String() string {
	switch r {
	case Success:
		return "VK_SUCCESS"
	case NotReady:
		return "VK_NOT_READY"
	case TimeoutExpired:
		return "VK_TIMEOUT"
	case Incomplete:
		return "VK_INCOMPLETE"
	case ErrOutOfHostMemory:
		return "VK_ERROR_OUT_OF_HOST_MEMORY"
	case ErrInitializationFailed:
		return "VK_ERROR_INITIALIZATION_FAILED"
	case ErrDeviceLost:
		return "VK_ERROR_DEVICE_LOST"
	case ErrMemoryMapFailed:
		return "VK_ERROR_MEMORY_MAP_FAILED"
	case ErrLayerNotPresent:
		return "VK_ERROR_LAYER_NOT_PRESENT"
	case ErrExtensionNotPresent:
		return "VK_ERROR_EXTENSION_NOT_PRESENT"
	case ErrSurfaceLost:
		return "VK_ERROR_SURFACE_LOST_KHR"
	case ErrOutOfDate:
		return "VK_ERROR_OUT_OF_DATE_KHR"
	default:
		return fmt.Sprintf("VkResult(%d)", int32(r))
	}
}
