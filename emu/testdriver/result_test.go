package testdriver

import (
	"strings"
	"testing"
)

func TestIndividualResultFrom(t *testing.T) {
	cases := []struct {
		word uint16
		want IndividualResult
	}{
		{1, Pass},
		{2, Fail},
		{3, FatalError},
		{4, Skip},
		{0, Illegal},
		{5, Illegal},
		{0x1234, Illegal},
		{0xFFFF, Illegal},
	}
	for _, c := range cases {
		if got := IndividualResultFrom(c.word); got != c.want {
			t.Errorf("Word %04x got: %v expected: %v", c.word, got, c.want)
		}
	}
}

func TestOverallRating(t *testing.T) {
	cases := []struct {
		name     string
		markerOK bool
		results  []IndividualResult
		want     IndividualResult
	}{
		{"no marker", false, nil, Illegal},
		{"no marker with passes", false, []IndividualResult{Pass}, Illegal},
		{"empty", true, nil, Skip},
		{"all skipped", true, []IndividualResult{Skip, Skip}, Skip},
		{"pass", true, []IndividualResult{Pass, Skip}, Pass},
		{"fail beats pass", true, []IndividualResult{Pass, Fail, Skip}, Fail},
		{"fatal beats fail", true, []IndividualResult{Pass, Fail, FatalError, Skip}, FatalError},
		{"illegal beats all", true, []IndividualResult{Pass, Fail, FatalError, Skip, Illegal}, Illegal},
	}
	for _, c := range cases {
		completion := CompletionData{MarkerOK: c.markerOK, Results: c.results}
		if got := completion.OverallRating(); got != c.want {
			t.Errorf("%s: got: %v expected: %v", c.name, got, c.want)
		}
	}
}

func TestExitCode(t *testing.T) {
	pass := TestResult{Kind: ResultCompleted, Completion: &CompletionData{MarkerOK: true, Results: []IndividualResult{Pass}}}
	if pass.ExitCode() != 0 {
		t.Errorf("Passing session has exit code %d", pass.ExitCode())
	}
	fail := TestResult{Kind: ResultCompleted, Completion: &CompletionData{MarkerOK: true, Results: []IndividualResult{Fail}}}
	if fail.ExitCode() == 0 {
		t.Error("Failing session has exit code 0")
	}
	skip := TestResult{Kind: ResultCompleted, Completion: &CompletionData{MarkerOK: true}}
	if skip.ExitCode() == 0 {
		t.Error("Skipped session has exit code 0")
	}
	for _, result := range []TestResult{
		{Kind: ResultTimeout},
		{Kind: ResultIllegalInstruction, Value: 0x1234},
		{Kind: ResultIllegalYield, Value: 0x0042},
	} {
		if result.ExitCode() == 0 {
			t.Errorf("Session %v has exit code 0", result)
		}
	}
}

func TestRender(t *testing.T) {
	result := TestResult{Kind: ResultCompleted, Completion: &CompletionData{
		MarkerOK: true,
		Results:  []IndividualResult{Pass, Fail, Skip},
	}}
	var out strings.Builder
	result.Render(&out)
	text := out.String()
	for _, want := range []string{"pass", "fail", "skip", "overall"} {
		if !strings.Contains(text, want) {
			t.Errorf("Rendered output lacks %q:\n%s", want, text)
		}
	}

	var timeout strings.Builder
	TestResult{Kind: ResultTimeout}.Render(&timeout)
	if !strings.Contains(timeout.String(), "timeout") {
		t.Errorf("Wrong timeout rendering: %q", timeout.String())
	}
}
