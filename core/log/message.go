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
	"time"
)

// Message is a single log record, fully resolved from the logging context.
type Message struct {
	// Text is the message body.
	Text string
	// Time is the time the message was logged.
	Time time.Time
	// Severity is the importance of the message.
	Severity Severity
	// Tag is the optional tag associated with the logging context.
	Tag string
	// Process is the optional name of the process that logged the message.
	Process string
	// Trace is the chain of Enter scopes the message was logged from.
	Trace []string
	// Values holds the key-value pairs bound to the logging context.
	Values []Value
}

// Value is a single named value attached to a message.
type Value struct {
	Name  string
	Value interface{}
}

// Message builds a Message from the logger state and the given text.
func (l *Logger) Message(s Severity, text string) *Message {
	m := &Message{
		Text:     text,
		Time:     l.clock(),
		Severity: s,
		Tag:      l.tag,
		Process:  l.process,
		Trace:    l.trace,
	}
	for _, v := range l.values {
		m.Values = append(m.Values, v)
	}
	return m
}

// Messagef builds a Message from the logger state and the formatted text.
func (l *Logger) Messagef(s Severity, f string, args ...interface{}) *Message {
	return l.Message(s, fmt.Sprintf(f, args...))
}
