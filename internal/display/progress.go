package display

import (
	"fmt"
	"io"
)

// ProgressIndicator reports per-file progress over a batch of inputs
type ProgressIndicator struct {
	writer     io.Writer
	verb       string
	totalFiles int
	current    int
}

// NewProgressIndicator creates a new progress indicator. verb describes the
// work, e.g. "Searching" or "Replacing".
func NewProgressIndicator(w io.Writer, verb string, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer:     w,
		verb:       verb,
		totalFiles: total,
		current:    0,
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	noun := "files"
	if p.totalFiles == 1 {
		noun = "file"
	}
	fmt.Fprintf(p.writer, "%s %d %s:\n", p.verb, p.totalFiles, noun)
}

// Step displays progress for current item: [N/Total] filename (cyan)
func (p *ProgressIndicator) Step(filename string) {
	p.current++
	fmt.Fprintf(p.writer, "\x1b[36m  [%d/%d] %s\x1b[0m\n", p.current, p.totalFiles, filename)
}

// Complete displays success message with green checkmark
func (p *ProgressIndicator) Complete(failed int) {
	fmt.Fprintf(p.writer, "\x1b[32m✓\x1b[0m Processed %d of %d files\n", p.current-failed, p.totalFiles)
}
