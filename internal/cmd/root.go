package cmd

import (
	"fmt"

	"github.com/harrison/multifast/internal/config"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// output field flags, in match line order
var fieldFlags = []struct {
	name, short, field, usage string
}{
	{"show-item", "n", "item", "Show the per-file match number (#N)"},
	{"show-dpos", "d", "dpos", "Show the 1-based start position in decimal (@N)"},
	{"show-xpos", "x", "xpos", "Show the 1-based start position in hex (@XXXXXXXX)"},
	{"show-id", "r", "id", "Show the pattern identifier"},
	{"show-pattern", "p", "pattern", "Show the pattern ({text}, hex when not printable)"},
}

// NewRootCommand creates and returns the root cobra command for multifast
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "multifast -P pattern_file [-R out_dir [-l] | -n -d -x -r -p -f -i] [-v] file1 [file2 ...]",
		Short: "Search and replace many patterns at once",
		Long: `multifast loads every pattern of a pattern file into one Aho-Corasick
automaton and streams each input through it, reporting where patterns
occur (search mode) or writing a copy with replacements applied (replace
mode, -R).

Pattern file entries look like:

  # comment
  AX: {pattern}
  AX: (identifier) {pattern} {replacement}

Text blocks understand \\ \{ \} \n \r \t \0 and \xHH escapes.

Defaults are read from .multifast.yaml (searched upwards from the current
directory) or the file given with --config; flags override them.

Examples:
  # Report decimal position and pattern of every match
  multifast -P words.txt notes.txt

  # Item number, hex position and identifier, first match per file only
  multifast -P words.txt -nxrf logs/

  # Replace into ./out, mirroring the input directories
  multifast -P fixes.txt -R out src/a.txt src/b.txt

  # Lazy replacement to standard output
  multifast -P fixes.txt -R - -l < input.txt`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		RunE:          runCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringP("patterns", "P", "", "Pattern definition file (required)")
	flags.StringP("replace-dir", "R", "", "Replace mode: write output under this directory (- = standard output)")
	flags.BoolP("lazy", "l", false, "Lazy replacement (replace mode only)")
	for _, f := range fieldFlags {
		flags.BoolP(f.name, f.short, false, f.usage)
	}
	flags.BoolP("find-first", "f", false, "Stop each file after its first match")
	flags.BoolP("insensitive", "i", false, "Case-insensitive matching (ASCII)")
	flags.BoolP("verbose", "v", false, "Show detailed diagnostics")
	flags.String("config", "", fmt.Sprintf("Path to config file (default: %s)", config.ConfigFileName))
	flags.String("log-dir", "", "Also write a run log file into this directory")
	flags.String("color", "", "Colorize file names: auto, always or never")

	return cmd
}
