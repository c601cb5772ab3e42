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

package image_test

import (
	"bufio"
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/kvark/unseen/core/assert"
	"github.com/kvark/unseen/core/image"
	"github.com/kvark/unseen/core/log"
)

func TestPPMRoundTrip(t *testing.T) {
	ctx := log.Testing(t)
	pixels := make([]byte, 4*3*3)
	for i := range pixels {
		pixels[i] = byte(i * 7)
	}
	buf := &bytes.Buffer{}
	err := image.EncodePPM(buf, pixels, 4, 3)
	assert.For(ctx, "encode").ThatError(err).Succeeded()
	assert.For(ctx, "header").ThatString(buf.String()).HasPrefix("P6\n4 3\n255\n")

	header, decoded, err := image.DecodePPM(bufio.NewReader(buf))
	assert.For(ctx, "decode").ThatError(err).Succeeded()
	assert.For(ctx, "width").ThatInteger(header.Width).Equals(4)
	assert.For(ctx, "height").ThatInteger(header.Height).Equals(3)
	assert.For(ctx, "payload").ThatSlice(decoded).Equals(pixels)
}

func TestPPMEncodeRejectsShortPayload(t *testing.T) {
	ctx := log.Testing(t)
	err := image.EncodePPM(&bytes.Buffer{}, make([]byte, 5), 4, 3)
	assert.For(ctx, "encode").ThatError(err).Failed()
}

func TestPPMHeaderComments(t *testing.T) {
	ctx := log.Testing(t)
	r := bufio.NewReader(strings.NewReader("P6\n# made by hand\n2 1\n255\n\xff\x00\x00\x00\xff\x00"))
	header, pixels, err := image.DecodePPM(r)
	assert.For(ctx, "decode").ThatError(err).Succeeded()
	assert.For(ctx, "width").ThatInteger(header.Width).Equals(2)
	assert.For(ctx, "pixels").ThatSlice(pixels).Equals([]byte{0xff, 0, 0, 0, 0xff, 0})
}

func TestPPMRejectsBadMagic(t *testing.T) {
	ctx := log.Testing(t)
	_, err := image.DecodePPMHeader(bufio.NewReader(strings.NewReader("P3\n2 2\n255\n")))
	assert.For(ctx, "magic").ThatError(err).Failed()
}

func TestPPMRejectsTruncatedPayload(t *testing.T) {
	ctx := log.Testing(t)
	_, _, err := image.DecodePPM(bufio.NewReader(strings.NewReader("P6\n2 2\n255\n\xff")))
	assert.For(ctx, "payload").ThatError(err).Failed()
}

func TestPNGEncode(t *testing.T) {
	ctx := log.Testing(t)
	pixels := []byte{
		0xff, 0x00, 0x00, 0x00, 0xff, 0x00,
		0x00, 0x00, 0xff, 0x80, 0x80, 0x80,
	}
	buf := &bytes.Buffer{}
	err := image.EncodePNG(buf, pixels, 2, 2)
	assert.For(ctx, "encode").ThatError(err).Succeeded()

	decoded, err := png.Decode(buf)
	assert.For(ctx, "decode").ThatError(err).Succeeded()
	bounds := decoded.Bounds()
	assert.For(ctx, "width").ThatInteger(bounds.Dx()).Equals(2)
	assert.For(ctx, "height").ThatInteger(bounds.Dy()).Equals(2)
	r, g, b, a := decoded.At(0, 0).RGBA()
	assert.For(ctx, "red pixel").That([4]uint32{r >> 8, g >> 8, b >> 8, a >> 8}).
		Equals([4]uint32{0xff, 0, 0, 0xff})
}

func TestThumbnailBounds(t *testing.T) {
	ctx := log.Testing(t)
	pixels := make([]byte, 64*32*3)
	buf := &bytes.Buffer{}
	err := image.EncodeThumbnail(buf, pixels, 64, 32, 16)
	assert.For(ctx, "encode").ThatError(err).Succeeded()

	decoded, err := png.Decode(buf)
	assert.For(ctx, "decode").ThatError(err).Succeeded()
	bounds := decoded.Bounds()
	assert.For(ctx, "width").ThatInteger(bounds.Dx()).Equals(16)
	assert.For(ctx, "height").ThatInteger(bounds.Dy()).Equals(8)
}
