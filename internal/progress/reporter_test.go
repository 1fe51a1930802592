package progress

import (
	"bytes"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}

	r.Start(2)
	r.Update(1, "index.html")
	r.Update(2, "about/index.html")
	r.Finish()

	want := "Hydrating 2 pages\n[1/2] index.html\n[2/2] about/index.html\nBuild complete\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter().(*TerminalReporter); !ok {
		t.Error("expected TerminalReporter outside CI")
	}
}

func TestTerminalReporterWritesToOut(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{Out: &buf}
	r.Start(1)
	r.Update(1, "index.html")
	r.Finish()
	if buf.Len() == 0 {
		t.Error("expected progress output")
	}
}

func TestNopIgnoresCalls(t *testing.T) {
	var r Reporter = Nop{}
	r.Start(3)
	r.Update(1, "x")
	r.Finish()
}
