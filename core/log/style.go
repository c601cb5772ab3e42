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
	"bytes"
	"fmt"
	"strings"
)

// Style controls how messages are turned into text.
type Style struct {
	// Timestamp is true if the message time should be printed.
	Timestamp bool
	// Tag is true if the message tag and trace should be printed.
	Tag bool
	// Values is true if the bound key-value pairs should be printed.
	Values bool
}

// The commonly used styles.
var (
	// Brief prints the severity and text only.
	Brief = Style{}
	// Normal prints the severity, tag, text and values.
	Normal = Style{Tag: true, Values: true}
	// Detailed prints everything.
	Detailed = Style{Timestamp: true, Tag: true, Values: true}
)

// Print returns the message m printed in this style.
func (s Style) Print(m *Message) string {
	buf := bytes.Buffer{}
	if s.Timestamp {
		fmt.Fprintf(&buf, "%s ", m.Time.Format("15:04:05.000"))
	}
	fmt.Fprintf(&buf, "%s: ", m.Severity.Short())
	if s.Tag {
		scope := make([]string, 0, len(m.Trace)+2)
		if m.Process != "" {
			scope = append(scope, m.Process)
		}
		if m.Tag != "" {
			scope = append(scope, m.Tag)
		}
		scope = append(scope, m.Trace...)
		if len(scope) > 0 {
			fmt.Fprintf(&buf, "[%s] ", strings.Join(scope, "."))
		}
	}
	buf.WriteString(m.Text)
	if s.Values {
		for _, v := range m.Values {
			fmt.Fprintf(&buf, " %s=%v", v.Name, v.Value)
		}
	}
	return buf.String()
}
