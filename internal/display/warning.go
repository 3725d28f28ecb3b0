package display

import (
	"fmt"
	"io"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("\x1b[33m")
	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			b.WriteString("      ")
			b.WriteString(fmt.Sprintf("%d. %s", i+1, file))
			b.WriteString("\n")
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	b.WriteString("\x1b[0m")

	fmt.Fprint(out, b.String())
}

// WarnSkippedFiles creates a warning listing inputs that were skipped
func WarnSkippedFiles(files []string) Warning {
	title := fmt.Sprintf("%d input file skipped", len(files))
	if len(files) != 1 {
		title = fmt.Sprintf("%d input files skipped", len(files))
	}
	return Warning{
		Title:      title,
		Files:      files,
		Suggestion: "Re-run with -v to see why each file was skipped",
	}
}

// WarnNoPatterns creates the warning shown when a pattern file yields
// nothing usable for the selected mode.
func WarnNoPatterns(patternFile string, replaceMode bool) Warning {
	if replaceMode {
		return Warning{
			Title:      "No pattern was specified for replacement in the pattern file",
			Files:      []string{patternFile},
			Suggestion: "Give entries a second block: AX: {pattern} {replacement}",
		}
	}
	return Warning{
		Title:      "No pattern to search",
		Files:      []string{patternFile},
		Suggestion: "Add entries of the form AX: {pattern}",
	}
}
