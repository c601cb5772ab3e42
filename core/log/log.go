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

// Package log provides context-first logging.
//
// All state, including the output handler, is carried by the
// context.Context, so the same context that flows through the call tree also
// selects where and how messages are emitted.
package log

import (
	"context"
	"time"
)

// Logger is a snapshot of the logging state of a context.
type Logger struct {
	handler Handler
	filter  Severity
	tag     string
	process string
	trace   []string
	values  []Value
	clock   func() time.Time
}

// From returns a new Logger built from the logging state of ctx.
func From(ctx context.Context) *Logger {
	return &Logger{
		handler: GetHandler(ctx),
		filter:  GetFilter(ctx),
		tag:     GetTag(ctx),
		process: GetProcess(ctx),
		trace:   GetTrace(ctx),
		values:  getValues(ctx),
		clock:   getClock(ctx),
	}
}

// Bind returns a new Logger from the context ctx with the additional values
// in v.
func Bind(ctx context.Context, v V) *Logger {
	return From(v.Bind(ctx))
}

// Log emits a message at the given severity.
func (l *Logger) Log(s Severity, fmt string, args ...interface{}) {
	if s < l.filter {
		return
	}
	l.handler.Handle(l.Messagef(s, fmt, args...))
}

// V logs a verbose message to the logging target.
func (l *Logger) V(fmt string, args ...interface{}) { l.Log(Verbose, fmt, args...) }

// D logs a debug message to the logging target.
func (l *Logger) D(fmt string, args ...interface{}) { l.Log(Debug, fmt, args...) }

// I logs an info message to the logging target.
func (l *Logger) I(fmt string, args ...interface{}) { l.Log(Info, fmt, args...) }

// W logs a warning message to the logging target.
func (l *Logger) W(fmt string, args ...interface{}) { l.Log(Warning, fmt, args...) }

// E logs an error message to the logging target.
func (l *Logger) E(fmt string, args ...interface{}) { l.Log(Error, fmt, args...) }

// F logs a fatal message to the logging target.
func (l *Logger) F(fmt string, args ...interface{}) { l.Log(Fatal, fmt, args...) }

// D logs a debug message to the logging target.
func D(ctx context.Context, fmt string, args ...interface{}) { From(ctx).D(fmt, args...) }

// I logs an info message to the logging target.
func I(ctx context.Context, fmt string, args ...interface{}) { From(ctx).I(fmt, args...) }

// W logs a warning message to the logging target.
func W(ctx context.Context, fmt string, args ...interface{}) { From(ctx).W(fmt, args...) }

// E logs an error message to the logging target.
func E(ctx context.Context, fmt string, args ...interface{}) { From(ctx).E(fmt, args...) }

// F logs a fatal message to the logging target.
func F(ctx context.Context, fmt string, args ...interface{}) { From(ctx).F(fmt, args...) }
