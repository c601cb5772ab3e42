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

import (
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// EncodeThumbnail downscales the packed RGB pixels so that the longest edge
// is at most maxDimension, and writes the result as a PNG image.
// Images already within the bound are encoded unscaled.
func EncodeThumbnail(w io.Writer, pixels []byte, width, height, maxDimension int) error {
	if err := RGB_U8_NORM.Check(pixels, width, height, 0); err != nil {
		return err
	}
	src := rgbImage(pixels, width, height)
	if width <= maxDimension && height <= maxDimension {
		return png.Encode(w, src)
	}
	dstW, dstH := width, height
	if dstW >= dstH {
		dstH = dstH * maxDimension / dstW
		dstW = maxDimension
	} else {
		dstW = dstW * maxDimension / dstH
		dstH = maxDimension
	}
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return png.Encode(w, dst)
}
