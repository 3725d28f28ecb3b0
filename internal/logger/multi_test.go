package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestMultiLogger_FansOut(t *testing.T) {
	a := &bytes.Buffer{}
	b := &bytes.Buffer{}
	ml := NewMultiLogger(NewConsoleLogger(a, "debug"), nil, NewConsoleLogger(b, "error"))

	ml.LogDebug("debug line")
	ml.LogError("error line")
	ml.LogRunSummary(RunSummary{Mode: "search"})

	if !strings.Contains(a.String(), "debug line") || !strings.Contains(a.String(), "error line") {
		t.Errorf("first logger missing messages: %q", a.String())
	}
	if !strings.Contains(a.String(), "search complete") {
		t.Errorf("first logger missing summary: %q", a.String())
	}
	if strings.Contains(b.String(), "debug line") {
		t.Errorf("second logger must filter debug: %q", b.String())
	}
	if !strings.Contains(b.String(), "error line") {
		t.Errorf("second logger missing error: %q", b.String())
	}
}

func TestMultiLogger_Empty(t *testing.T) {
	ml := NewMultiLogger()
	ml.LogWarn("nobody listens")
	ml.LogLoadSummary(LoadSummary{})
}
