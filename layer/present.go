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

	"github.com/pkg/errors"

	"github.com/kvark/unseen/core/log"
	"github.com/kvark/unseen/layer/capture"
	"github.com/kvark/unseen/vulkan"
)

// queuePresent is the per-frame hot path. It schedules a capture of every
// presented image, then forwards the present untouched: the info block is
// not modified and the down-chain result is returned as-is, whatever the
// capture pipeline decided to do.
func (l *Layer) queuePresent(ctx context.Context, queue vulkan.Queue, info *vulkan.PresentInfoKHR) vulkan.Result {
	state, err := l.queues.Lookup(queue)
	if err != nil {
		log.W(ctx, "present on untracked queue 0x%x", uint64(queue))
		return vulkan.ErrDeviceLost
	}
	if info != nil {
		for i, swapchain := range info.Swapchains {
			if i >= len(info.ImageIndices) {
				break
			}
			if sc, err := l.swapchains.Lookup(swapchain); err == nil {
				l.captureFrame(ctx, sc, info.ImageIndices[i])
			}
		}
	}
	return state.dispatch.queuePresent(ctx, queue, info)
}

// captureFrame snapshots one presented image and queues it for capture.
// Every present consumes a frame index, so the numbering in file names
// always matches the presentation order even across skipped frames.
func (l *Layer) captureFrame(ctx context.Context, sc *swapchainState, imageIndex uint32) {
	stream := sc.stream
	if stream == nil {
		return
	}
	index, want := stream.NextFrame()
	if !want {
		return
	}
	if int(imageIndex) >= len(sc.images) {
		log.W(ctx, "present of %v references image %v of %v, skipping frame %v",
			stream.Name(), imageIndex, len(sc.images), index)
		return
	}
	buffer, ok := stream.Reserve(ctx)
	if !ok {
		return
	}
	frame := capture.Frame{
		Index:    index,
		Format:   sc.srcFormat,
		Width:    int(sc.extent.Width),
		Height:   int(sc.extent.Height),
		RowPitch: int(sc.rowPitch),
		Data:     buffer.Data,
		Release:  buffer.Release,
	}

	d := &sc.device.dispatch
	device := sc.device.handle
	if sc.mapped != nil {
		// Host-visible path: snapshot the pixels right now, before the
		// application renders the next frame into this image.
		copy(frame.Data, sc.mapped[imageIndex])
	} else {
		fence, result := d.copyImage(ctx, device, sc.images[imageIndex], frame.Data)
		if !result.IsSuccess() {
			log.W(ctx, "readback of frame %v of %v failed: %v", index, stream.Name(), result)
			buffer.Release()
			return
		}
		timeout := l.cfg.ReadbackTimeout
		frame.Wait = func(ctx context.Context) error {
			if result := d.waitFences(ctx, device, fence, timeout); result != vulkan.Success {
				return errors.Errorf("fence wait returned %v", result)
			}
			return nil
		}
	}
	stream.Capture(ctx, frame)
}
