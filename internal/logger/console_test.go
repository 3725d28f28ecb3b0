package logger

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"
)

var tsPrefix = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] `)

func TestConsoleLogger_Format(t *testing.T) {
	buf := &bytes.Buffer{}
	cl := NewConsoleLogger(buf, "debug")

	cl.LogWarn("Skip duplicate string: {abc}")

	out := buf.String()
	if !tsPrefix.MatchString(out) {
		t.Errorf("missing timestamp prefix: %q", out)
	}
	if !strings.HasSuffix(out, "[WARN] Skip duplicate string: {abc}\n") {
		t.Errorf("unexpected line: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("buffer output must not be colored: %q", out)
	}
}

func TestConsoleLogger_NilWriter(t *testing.T) {
	cl := NewConsoleLogger(nil, "trace")

	// Must not panic.
	cl.LogError("dropped")
	cl.LogRunSummary(RunSummary{Mode: "search"})
	cl.LogLoadSummary(LoadSummary{})
}

func TestConsoleLogger_LoadSummary(t *testing.T) {
	summary := LoadSummary{PatternFile: "p.txt", Entries: 5, Added: 4, Skipped: 1, ArenaChunks: 1}

	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "debug").LogLoadSummary(summary)
	want := "Loaded p.txt: 4 patterns (1 skipped, 5 entries, 1 arena chunks)\n"
	if !strings.HasSuffix(buf.String(), want) {
		t.Errorf("got %q, want suffix %q", buf.String(), want)
	}

	quiet := &bytes.Buffer{}
	NewConsoleLogger(quiet, "info").LogLoadSummary(summary)
	if quiet.Len() != 0 {
		t.Errorf("load summary is debug level, got %q", quiet.String())
	}
}

func TestConsoleLogger_RunSummary(t *testing.T) {
	tests := []struct {
		name    string
		summary RunSummary
		want    string
	}{
		{
			name:    "search",
			summary: RunSummary{Mode: "search", Files: 3, Matches: 12, Duration: 1500 * time.Millisecond},
			want:    "search complete: 3 files, 0 failed, 12 matches (1s)\n",
		},
		{
			name:    "replace single file with failure",
			summary: RunSummary{Mode: "replace", Files: 1, Failed: 1, Duration: 20 * time.Millisecond},
			want:    "replace complete: 1 file, 1 failed (20ms)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			NewConsoleLogger(buf, "info").LogRunSummary(tt.summary)
			if !strings.HasSuffix(buf.String(), tt.want) {
				t.Errorf("got %q, want suffix %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatRunSummary_Colorized(t *testing.T) {
	out := formatRunSummary(RunSummary{Mode: "replace", Files: 2, Failed: 1}, true)
	if !strings.Contains(out, "failed") {
		t.Errorf("unexpected summary %q", out)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2 * time.Minute, "2m"},
		{2*time.Hour + 15*time.Minute, "2h15m"},
		{3 * time.Hour, "3h"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
