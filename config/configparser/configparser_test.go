package configparser

import (
	"errors"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	seen := map[string]string{}
	Register("maxsteps", func(value string) error {
		seen["maxsteps"] = value
		return nil
	})
	Register("LogFile", func(value string) error {
		seen["logfile"] = value
		return nil
	})

	err := Load(strings.NewReader(`
# run control for the arena
maxsteps 30000
logfile tinyvm.log   # trailing comment
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if seen["maxsteps"] != "30000" {
		t.Errorf("Wrong maxsteps got: %q expected: %q", seen["maxsteps"], "30000")
	}
	if seen["logfile"] != "tinyvm.log" {
		t.Errorf("Wrong logfile got: %q expected: %q", seen["logfile"], "tinyvm.log")
	}
}

func TestLoadUnknownKeyword(t *testing.T) {
	err := Load(strings.NewReader("bogus 42"))
	if err == nil {
		t.Fatal("Unknown keyword accepted")
	}
	if !strings.Contains(err.Error(), "line 1") || !strings.Contains(err.Error(), "bogus") {
		t.Errorf("Error does not name line and keyword: %v", err)
	}
}

func TestLoadHandlerError(t *testing.T) {
	boom := errors.New("boom")
	Register("explode", func(string) error { return boom })
	err := Load(strings.NewReader("# leading comment\nexplode now"))
	if err == nil {
		t.Fatal("Handler error swallowed")
	}
	if !errors.Is(err, boom) {
		t.Errorf("Handler error not wrapped: %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Error does not name line 2: %v", err)
	}
}
