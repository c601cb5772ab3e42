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
	"bufio"
	"fmt"
	"io"
)

// PPMMagic is the header token of a binary (P6) portable pixmap.
const PPMMagic = "P6"

// EncodePPM writes the packed RGB pixels as a binary PPM image.
// The payload must be exactly width*height RGB triples.
func EncodePPM(w io.Writer, pixels []byte, width, height int) error {
	if err := RGB_U8_NORM.Check(pixels, width, height, 0); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n%d %d\n255\n", PPMMagic, width, height); err != nil {
		return err
	}
	_, err := w.Write(pixels[:RGB_U8_NORM.Size(width, height)])
	return err
}

// PPMHeader holds the parsed header of a PPM image.
type PPMHeader struct {
	Width   int
	Height  int
	MaxVal  int
	Payload int // expected byte count of the raw RGB section
}

// DecodePPMHeader reads and validates the header of a binary PPM image,
// leaving r positioned at the start of the pixel payload.
func DecodePPMHeader(r *bufio.Reader) (PPMHeader, error) {
	h := PPMHeader{}
	magic, err := readPPMToken(r)
	if err != nil {
		return h, err
	}
	if magic != PPMMagic {
		return h, fmt.Errorf("not a binary PPM image: magic %q", magic)
	}
	for _, field := range []*int{&h.Width, &h.Height, &h.MaxVal} {
		tok, err := readPPMToken(r)
		if err != nil {
			return h, err
		}
		if _, err := fmt.Sscan(tok, field); err != nil {
			return h, fmt.Errorf("malformed PPM header field %q", tok)
		}
	}
	if h.Width <= 0 || h.Height <= 0 {
		return h, fmt.Errorf("invalid PPM dimensions %dx%d", h.Width, h.Height)
	}
	if h.MaxVal != 255 {
		return h, fmt.Errorf("unsupported PPM max channel value %d", h.MaxVal)
	}
	h.Payload = h.Width * h.Height * 3
	return h, nil
}

// DecodePPM reads a complete binary PPM image.
func DecodePPM(r *bufio.Reader) (PPMHeader, []byte, error) {
	h, err := DecodePPMHeader(r)
	if err != nil {
		return h, nil, err
	}
	pixels := make([]byte, h.Payload)
	if _, err := io.ReadFull(r, pixels); err != nil {
		return h, nil, fmt.Errorf("truncated PPM payload: %v", err)
	}
	return h, pixels, nil
}

// readPPMToken returns the next whitespace-delimited header token, skipping
// comment lines.
func readPPMToken(r *bufio.Reader) (string, error) {
	tok := []byte{}
	for {
		c, err := r.ReadByte()
		switch {
		case err != nil:
			if len(tok) > 0 && err == io.EOF {
				return string(tok), nil
			}
			return "", err
		case c == '#' && len(tok) == 0:
			if _, err := r.ReadString('\n'); err != nil {
				return "", err
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, c)
		}
	}
}
