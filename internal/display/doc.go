// Package display formats everything multifast writes for people to read:
// match lines, pattern text, per-file progress and warnings.
//
// # Match Lines
//
// A MatchPrinter writes one line per reported occurrence. Fields selects
// which parts appear; with nothing selected the decimal position and the
// pattern are shown:
//
//	mp := display.NewMatchPrinter(os.Stdout, display.Fields{Item: true}, false)
//	mp.Print("notes.txt", 1, 4096, p) // notes.txt: #1
//
// Pattern text goes through FormatPattern, which shows printable text as is
// and anything else as hex pairs, cut off after MaxPatternDisplay bytes.
//
// # Progress and Warnings
//
//	progress := display.NewProgressIndicator(os.Stderr, "Replacing", len(files))
//	progress.Start()
//	for _, file := range files {
//	    progress.Step(file)
//	}
//	progress.Complete(failed)
//
// Warnings are yellow and may list the files they concern:
//
//	display.WarnSkippedFiles(skipped).Display(os.Stderr)
//
// All output goes through an io.Writer.
package display
