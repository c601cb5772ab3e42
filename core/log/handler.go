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

package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Handler is the interface implemented by types that want to consume log
// messages.
type Handler interface {
	Handle(*Message)
	Close()
}

type handler struct {
	handle func(*Message)
	close  func()
}

func (h handler) Handle(m *Message) { h.handle(m) }
func (h handler) Close()            { h.close() }

// NewHandler returns a Handler that calls handle for each message and close
// (if not nil) when the handler is closed.
func NewHandler(handle func(*Message), close func()) Handler {
	if close == nil {
		close = func() {}
	}
	return handler{handle, close}
}

// Writer returns a Handler that prints each message to w using the style.
// The handler is safe to use from multiple goroutines.
func Writer(s Style, w io.Writer) Handler {
	mutex := sync.Mutex{}
	return NewHandler(func(m *Message) {
		mutex.Lock()
		defer mutex.Unlock()
		fmt.Fprintln(w, s.Print(m))
	}, nil)
}

// Std returns a Handler that prints messages below Error severity to stdout
// and the rest to stderr.
func Std(s Style) Handler {
	out := Writer(s, os.Stdout)
	errs := Writer(s, os.Stderr)
	return NewHandler(func(m *Message) {
		if m.Severity >= Error {
			errs.Handle(m)
		} else {
			out.Handle(m)
		}
	}, nil)
}

// Stderr returns a Handler that prints all messages to stderr.
func Stderr(s Style) Handler {
	return Writer(s, os.Stderr)
}
