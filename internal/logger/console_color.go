package logger

import (
	"fmt"

	"github.com/fatih/color"
)

// colorScheme defines consistent colors for summary lines.
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
}

func colorizeLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// formatLoadSummary renders a LoadSummary. Skipped entries are yellow when
// colorized.
func formatLoadSummary(s LoadSummary, colorize bool) string {
	skipped := fmt.Sprintf("%d skipped", s.Skipped)
	file := s.PatternFile
	if colorize {
		scheme := newColorScheme()
		file = scheme.label.Sprint(file)
		if s.Skipped > 0 {
			skipped = scheme.warn.Sprint(skipped)
		}
	}
	noun := "patterns"
	if s.Added == 1 {
		noun = "pattern"
	}
	return fmt.Sprintf("Loaded %s: %d %s (%s, %d entries, %d arena chunks)",
		file, s.Added, noun, skipped, s.Entries, s.ArenaChunks)
}

// formatRunSummary renders a RunSummary. The status word is green when no
// file failed and red otherwise.
func formatRunSummary(s RunSummary, colorize bool) string {
	status := "complete"
	failed := fmt.Sprintf("%d failed", s.Failed)
	if colorize {
		scheme := newColorScheme()
		if s.Failed > 0 {
			status = scheme.fail.Sprint(status)
			failed = scheme.fail.Sprint(failed)
		} else {
			status = scheme.success.Sprint(status)
		}
	}

	fileNoun := "files"
	if s.Files == 1 {
		fileNoun = "file"
	}
	line := fmt.Sprintf("%s %s: %d %s, %s", s.Mode, status, s.Files, fileNoun, failed)
	if s.Mode == "search" {
		line += fmt.Sprintf(", %d matches", s.Matches)
	}
	return line + fmt.Sprintf(" (%s)", formatDuration(s.Duration))
}
