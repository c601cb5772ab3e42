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

package image

import "fmt"

// Converter is used to convert the image formed from data, width and height
// into another format. Row padding in the source is described by rowPitch
// (0 means tightly packed) and is excluded from the output, which is always
// tightly packed.
type Converter func(data []byte, width, height, rowPitch int) ([]byte, error)

type srcDstFmt struct{ src, dst *Format }

var registeredConverters = make(map[srcDstFmt]Converter)

// RegisterConverter registers the Converter for converting from src to dst
// formats. If a converter already exists for the pair, then this function
// panics.
func RegisterConverter(src, dst *Format, c Converter) {
	key := srcDstFmt{src, dst}
	if _, found := registeredConverters[key]; found {
		panic(fmt.Errorf("converter from %s to %s already registered", src, dst))
	}
	registeredConverters[key] = c
}

// Convert uses the registered Converters to convert the image formed from
// data, width and height from srcFmt to dstFmt, dropping any row padding
// described by rowPitch.
func Convert(data []byte, width, height, rowPitch int, srcFmt, dstFmt *Format) ([]byte, error) {
	if err := srcFmt.Check(data, width, height, rowPitch); err != nil {
		return nil, fmt.Errorf("source data of format %s is invalid: %v", srcFmt, err)
	}
	if srcFmt == dstFmt {
		return unpad(data, width, height, rowPitch, srcFmt), nil
	}
	conv, found := registeredConverters[srcDstFmt{srcFmt, dstFmt}]
	if !found {
		return nil, fmt.Errorf("no converter registered that can convert from format '%s' to '%s'",
			srcFmt, dstFmt)
	}
	return conv(data, width, height, rowPitch)
}

// unpad returns data with any inter-row padding removed.
func unpad(data []byte, width, height, rowPitch int, f *Format) []byte {
	rowLength := width * f.bytesPerPixel
	if rowPitch == 0 || rowPitch == rowLength {
		return data[:f.Size(width, height)]
	}
	packed := make([]byte, f.Size(width, height))
	src, dst := data, packed
	for y := 0; y < height; y++ {
		copy(dst, src[:rowLength])
		dst, src = dst[rowLength:], src[rowPitch:]
	}
	return packed
}

func init() {
	// 4-channel sources to packed RGB, dropping alpha and reordering
	// channels as needed.
	RegisterConverter(BGRA_U8_NORM, RGB_U8_NORM, swizzleToRGB(2, 1, 0))
	RegisterConverter(RGBA_U8_NORM, RGB_U8_NORM, swizzleToRGB(0, 1, 2))
}

// swizzleToRGB builds a converter from a 4-byte-per-pixel source to packed
// RGB, taking the red, green and blue channels from the given byte offsets
// within each source pixel.
func swizzleToRGB(r, g, b int) Converter {
	return func(data []byte, width, height, rowPitch int) ([]byte, error) {
		if rowPitch == 0 {
			rowPitch = width * 4
		}
		out := make([]byte, width*height*3)
		i := 0
		for y := 0; y < height; y++ {
			row := data[y*rowPitch:]
			for x := 0; x < width; x++ {
				p := row[x*4:]
				out[i+0] = p[r]
				out[i+1] = p[g]
				out[i+2] = p[b]
				i += 3
			}
		}
		return out, nil
	}
}
