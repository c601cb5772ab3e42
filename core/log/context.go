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
	"context"
	"time"
)

type handlerKeyTy struct{}
type filterKeyTy struct{}
type tagKeyTy struct{}
type processKeyTy struct{}
type traceKeyTy struct{}
type valuesKeyTy struct{}
type clockKeyTy struct{}

var (
	handlerKey = handlerKeyTy{}
	filterKey  = filterKeyTy{}
	tagKey     = tagKeyTy{}
	processKey = processKeyTy{}
	traceKey   = traceKeyTy{}
	valuesKey  = valuesKeyTy{}
	clockKey   = clockKeyTy{}
)

// PutHandler returns a new context with the Handler assigned to h.
func PutHandler(ctx context.Context, h Handler) context.Context {
	return context.WithValue(ctx, handlerKey, h)
}

// GetHandler returns the Handler assigned to ctx, or a default stderr
// handler if none was assigned.
func GetHandler(ctx context.Context) Handler {
	if h, ok := ctx.Value(handlerKey).(Handler); ok {
		return h
	}
	return defaultHandler
}

var defaultHandler = Stderr(Normal)

// PutFilter returns a new context with the minimum logged severity set to s.
func PutFilter(ctx context.Context, s Severity) context.Context {
	return context.WithValue(ctx, filterKey, s)
}

// GetFilter returns the minimum logged severity for ctx.
func GetFilter(ctx context.Context) Severity {
	if s, ok := ctx.Value(filterKey).(Severity); ok {
		return s
	}
	return Debug
}

// PutTag returns a new context with the tag assigned to t.
func PutTag(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// GetTag returns the tag assigned to ctx.
func GetTag(ctx context.Context) string {
	t, _ := ctx.Value(tagKey).(string)
	return t
}

// PutProcess returns a new context with the process name assigned to p.
func PutProcess(ctx context.Context, p string) context.Context {
	return context.WithValue(ctx, processKey, p)
}

// GetProcess returns the process name assigned to ctx.
func GetProcess(ctx context.Context) string {
	p, _ := ctx.Value(processKey).(string)
	return p
}

// Enter returns a new context with name appended to the trace scope chain.
func Enter(ctx context.Context, name string) context.Context {
	trace := append([]string{}, GetTrace(ctx)...)
	return context.WithValue(ctx, traceKey, append(trace, name))
}

// GetTrace returns the trace scope chain assigned to ctx.
func GetTrace(ctx context.Context) []string {
	t, _ := ctx.Value(traceKey).([]string)
	return t
}

// PutClock returns a new context with the message timestamp source set to f.
func PutClock(ctx context.Context, f func() time.Time) context.Context {
	return context.WithValue(ctx, clockKey, f)
}

func getClock(ctx context.Context) func() time.Time {
	if f, ok := ctx.Value(clockKey).(func() time.Time); ok {
		return f
	}
	return time.Now
}

// V is a map of values to be bound to a logging context.
type V map[string]interface{}

// Bind returns a new context with the values in v added to it.
func (v V) Bind(ctx context.Context) context.Context {
	values := append([]Value{}, getValues(ctx)...)
	for name, value := range v {
		values = append(values, Value{name, value})
	}
	return context.WithValue(ctx, valuesKey, values)
}

func getValues(ctx context.Context) []Value {
	v, _ := ctx.Value(valuesKey).([]Value)
	return v
}
