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

package capture

// Pool is a fixed-size free list of staging buffers. Reserving never
// blocks: when every buffer is in flight the caller drops the frame, which
// is the backpressure that keeps capture from stalling presentation.
type Pool struct {
	free chan []byte
	size int
}

// NewPool returns a pool of count buffers of size bytes each.
func NewPool(count, size int) *Pool {
	p := &Pool{free: make(chan []byte, count), size: size}
	for i := 0; i < count; i++ {
		p.free <- make([]byte, size)
	}
	return p
}

// BufferSize returns the size of each buffer in bytes.
func (p *Pool) BufferSize() int { return p.size }

// Reserve takes a buffer from the pool without blocking.
// Returns false when every buffer is in flight.
func (p *Pool) Reserve() (*Buffer, bool) {
	select {
	case data := <-p.free:
		return &Buffer{Data: data, pool: p}, true
	default:
		return nil, false
	}
}

// Available returns the number of buffers not currently reserved.
func (p *Pool) Available() int { return len(p.free) }

// Buffer is one reserved staging buffer.
type Buffer struct {
	// Data is the buffer's backing storage, valid until Release.
	Data []byte
	pool *Pool
}

// Release returns the buffer to its pool. Release is idempotent.
func (b *Buffer) Release() {
	if b.pool == nil {
		return
	}
	b.pool.free <- b.Data
	b.pool = nil
	b.Data = nil
}
