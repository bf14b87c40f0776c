/*
 * tinyvm - Test result classification and rendering.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package testdriver

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// IndividualResult is one test's verdict as reported by the driver. Any
// word outside the defined values counts as Illegal.
type IndividualResult uint16

const (
	Pass       IndividualResult = 1
	Fail       IndividualResult = 2
	FatalError IndividualResult = 3
	Skip       IndividualResult = 4
	Illegal    IndividualResult = 0xFFFF
)

func IndividualResultFrom(word uint16) IndividualResult {
	switch IndividualResult(word) {
	case Pass, Fail, FatalError, Skip:
		return IndividualResult(word)
	}
	return Illegal
}

func (r IndividualResult) String() string {
	switch r {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case FatalError:
		return "fatal error"
	case Skip:
		return "skip"
	case Illegal:
		return "illegal"
	}
	return fmt.Sprintf("result %d", uint16(r))
}

// CompletionData is what a Done command reported back.
type CompletionData struct {
	MarkerOK bool
	Results  []IndividualResult
}

// OverallRating collapses the result list by severity: a missing marker or
// any illegal entry poisons everything, then fatal errors, then failures,
// then passes. An empty or all-skipped list rates as Skip.
func (c *CompletionData) OverallRating() IndividualResult {
	if !c.MarkerOK {
		return Illegal
	}
	sawPass := false
	sawFail := false
	sawFatal := false
	for _, result := range c.Results {
		switch result {
		case Illegal:
			return Illegal
		case FatalError:
			sawFatal = true
		case Fail:
			sawFail = true
		case Pass:
			sawPass = true
		}
	}
	switch {
	case sawFatal:
		return FatalError
	case sawFail:
		return Fail
	case sawPass:
		return Pass
	}
	return Skip
}

type TestResultKind int

const (
	// The driver signalled Done; Completion holds the details.
	ResultCompleted TestResultKind = iota
	// The driver died on an unassigned encoding (Value is the raw word).
	ResultIllegalInstruction
	// The driver yielded an unknown command (Value).
	ResultIllegalYield
	// The combined instruction budget ran out.
	ResultTimeout
)

// TestResult is how a whole session ended.
type TestResult struct {
	Kind       TestResultKind
	Value      uint16
	Completion *CompletionData
}

func (r TestResult) String() string {
	switch r.Kind {
	case ResultCompleted:
		return fmt.Sprintf("completed: %s (marker ok: %t, %d tests)",
			r.Completion.OverallRating(), r.Completion.MarkerOK, len(r.Completion.Results))
	case ResultIllegalInstruction:
		return fmt.Sprintf("driver executed illegal instruction 0x%04x", r.Value)
	case ResultIllegalYield:
		return fmt.Sprintf("driver yielded illegal command 0x%04x", r.Value)
	case ResultTimeout:
		return "timeout"
	}
	return fmt.Sprintf("test result %d", int(r.Kind))
}

// ExitCode is zero only for a completed session whose tests all pass with a
// consistent marker.
func (r TestResult) ExitCode() int {
	if r.Kind == ResultCompleted && r.Completion.OverallRating() == Pass {
		return 0
	}
	return 1
}

// Render prints the human-readable summary, with a per-test table for
// completed sessions.
func (r TestResult) Render(w io.Writer) {
	fmt.Fprintln(w, r.String())
	if r.Kind != ResultCompleted {
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Test", "Result"})
	for i, result := range r.Completion.Results {
		table.Append([]string{strconv.Itoa(i + 1), result.String()})
	}
	table.Append([]string{"overall", r.Completion.OverallRating().String()})
	table.Render()
}
