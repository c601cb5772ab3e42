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

// Package image provides the pixel formats and conversions used by frame
// capture, along with the PPM and PNG encoders that persist frames.
package image

import "fmt"

// Format describes an uncompressed interleaved pixel format.
type Format struct {
	name          string
	bytesPerPixel int
}

// The pixel formats frame capture understands.
var (
	// RGB_U8_NORM is 3 channels, 8 bits per channel, red-green-blue order.
	RGB_U8_NORM = &Format{"RGB_U8_NORM", 3}
	// RGBA_U8_NORM is 4 channels, 8 bits per channel, red-green-blue-alpha
	// order.
	RGBA_U8_NORM = &Format{"RGBA_U8_NORM", 4}
	// BGRA_U8_NORM is 4 channels, 8 bits per channel, blue-green-red-alpha
	// order. This is the most common swapchain layout.
	BGRA_U8_NORM = &Format{"BGRA_U8_NORM", 4}
)

func (f *Format) String() string { return f.name }

// BytesPerPixel returns the number of bytes one pixel occupies.
func (f *Format) BytesPerPixel() int { return f.bytesPerPixel }

// Size returns the number of bytes required to hold a tightly packed image
// of the specified dimensions in this format.
func (f *Format) Size(width, height int) int {
	return f.bytesPerPixel * width * height
}

// Check returns an error if data is too small to hold an image of the
// specified dimensions with the given row pitch, otherwise Check returns
// nil. A rowPitch of 0 means tightly packed rows.
func (f *Format) Check(data []byte, width, height, rowPitch int) error {
	if rowPitch == 0 {
		rowPitch = width * f.bytesPerPixel
	}
	if min := width * f.bytesPerPixel; rowPitch < min {
		return fmt.Errorf("row pitch %d is smaller than a %s row of width %d (%d bytes)",
			rowPitch, f.name, width, min)
	}
	// The last row does not need to be padded out to the full pitch.
	need := rowPitch*(height-1) + width*f.bytesPerPixel
	if height == 0 {
		need = 0
	}
	if len(data) < need {
		return fmt.Errorf("%s data is %d bytes, need at least %d for %dx%d with pitch %d",
			f.name, len(data), need, width, height, rowPitch)
	}
	return nil
}
