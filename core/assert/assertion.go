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

package assert

import (
	"bytes"
	"fmt"
)

// Assertion is the type for the start of an assertion line.
// You construct an assertion from an Output using assert.For.
type Assertion struct {
	out   *bytes.Buffer
	to    Output
	fatal bool
}

// Critical switches this assertion from Error to Fatal.
func (a *Assertion) Critical() *Assertion {
	a.fatal = true
	return a
}

// Commit writes the accumulated assertion text to the output.
func (a *Assertion) Commit(failed bool) {
	switch {
	case !failed:
	case a.fatal:
		a.to.Fatal(a.out.String())
	default:
		a.to.Error(a.out.String())
	}
}

// Compare appends a "got <op> expect" clause to the assertion text.
func (a *Assertion) Compare(value interface{}, op string, expect interface{}) *Assertion {
	fmt.Fprintf(a.out, "\n    Got       %s\n    Expect %s %s", pretty(value), op, pretty(expect))
	return a
}

// Test commits the assertion, reporting a failure if condition is false.
// It returns the condition, so assertions can be chained with early-outs.
func (a *Assertion) Test(condition bool) bool {
	a.Commit(!condition)
	return condition
}

func pretty(value interface{}) string {
	switch value := value.(type) {
	case error:
		return fmt.Sprintf("`%v`", value)
	case string:
		return fmt.Sprintf("`%s`", value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
