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

// Format identifies a pixel format, using the VkFormat numbering.
type Format int32

const (
	// FormatUndefined means no format.
	FormatUndefined Format = 0
	// FormatR8G8B8Unorm is packed RGB, 8 bits per channel.
	FormatR8G8B8Unorm Format = 23
	// FormatR8G8B8A8Unorm is RGBA, 8 bits per channel.
	FormatR8G8B8A8Unorm Format = 37
	// FormatR8G8B8A8SRGB is RGBA, 8 bits per channel, sRGB encoded.
	FormatR8G8B8A8SRGB Format = 43
	// FormatB8G8R8A8Unorm is BGRA, 8 bits per channel.
	FormatB8G8R8A8Unorm Format = 44
	// FormatB8G8R8A8SRGB is BGRA, 8 bits per channel, sRGB encoded.
	FormatB8G8R8A8SRGB Format = 50
)

// ColorSpaceKHR identifies how pixel values are interpreted for display.
type ColorSpaceKHR int32

// ColorSpaceSRGBNonlinear is the standard sRGB color space.
const ColorSpaceSRGBNonlinear ColorSpaceKHR = 0

// PresentModeKHR selects how presentation waits for the vertical blank.
type PresentModeKHR int32

const (
	// PresentModeImmediate presents without waiting, possibly tearing.
	PresentModeImmediate PresentModeKHR = 0
	// PresentModeMailbox replaces the queued image with the newest one.
	PresentModeMailbox PresentModeKHR = 1
	// PresentModeFIFO queues images; guaranteed to be supported.
	PresentModeFIFO PresentModeKHR = 2
)

// SurfaceTransformFlagsKHR describes surface rotation/mirror transforms.
type SurfaceTransformFlagsKHR uint32

// SurfaceTransformIdentity applies no transform.
const SurfaceTransformIdentity SurfaceTransformFlagsKHR = 1

// CompositeAlphaFlagsKHR describes how surface alpha is composited.
type CompositeAlphaFlagsKHR uint32

// CompositeAlphaOpaque ignores the alpha channel when compositing.
const CompositeAlphaOpaque CompositeAlphaFlagsKHR = 1

// ImageUsageFlags is a bitmask of the permitted usages of an image.
type ImageUsageFlags uint32

const (
	// ImageUsageTransferSrc allows the image as a transfer read source.
	ImageUsageTransferSrc ImageUsageFlags = 0x01
	// ImageUsageTransferDst allows the image as a transfer write target.
	ImageUsageTransferDst ImageUsageFlags = 0x02
	// ImageUsageColorAttachment allows rendering into the image.
	ImageUsageColorAttachment ImageUsageFlags = 0x10
)

// Extent2D is a width and height in pixels.
type Extent2D struct {
	Width  uint32
	Height uint32
}

// SurfaceCapabilitiesKHR describes what a surface supports.
type SurfaceCapabilitiesKHR struct {
	MinImageCount           uint32
	MaxImageCount           uint32
	CurrentExtent           Extent2D
	MinImageExtent          Extent2D
	MaxImageExtent          Extent2D
	MaxImageArrayLayers     uint32
	SupportedTransforms     SurfaceTransformFlagsKHR
	CurrentTransform        SurfaceTransformFlagsKHR
	SupportedCompositeAlpha CompositeAlphaFlagsKHR
	SupportedUsageFlags     ImageUsageFlags
}

// SurfaceFormatKHR is a pixel format and color space pair supported by a
// surface.
type SurfaceFormatKHR struct {
	Format     Format
	ColorSpace ColorSpaceKHR
}

// ImageSubresourceLayout describes the memory layout of a linear image, as
// returned by the driver.
type ImageSubresourceLayout struct {
	// Offset is the byte offset of the image within its memory.
	Offset uint64
	// Size is the total byte size of the image memory.
	Size uint64
	// RowPitch is the byte stride between rows, including any padding.
	RowPitch uint32
}

// LayerProperties describes an available layer.
type LayerProperties struct {
	LayerName             string
	SpecVersion           uint32
	ImplementationVersion uint32
	Description           string
}

// ExtensionProperties describes an available extension.
type ExtensionProperties struct {
	ExtensionName string
	SpecVersion   uint32
}
