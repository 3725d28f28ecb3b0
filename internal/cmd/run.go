package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harrison/multifast/internal/ahocorasick"
	"github.com/harrison/multifast/internal/arena"
	"github.com/harrison/multifast/internal/config"
	"github.com/harrison/multifast/internal/display"
	"github.com/harrison/multifast/internal/fileutil"
	"github.com/harrison/multifast/internal/logger"
	"github.com/harrison/multifast/internal/outpath"
	"github.com/harrison/multifast/internal/pattern"
	"github.com/harrison/multifast/internal/stream"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// errNoPatterns is returned when the pattern file has nothing usable for
// the selected mode.
var errNoPatterns = errors.New("no usable patterns")

// runCommand parses flags, loads the pattern file and processes every input
func runCommand(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var o config.Overrides
	if flags.Changed("insensitive") {
		v, _ := flags.GetBool("insensitive")
		o.Insensitive = &v
	}
	if flags.Changed("find-first") {
		v, _ := flags.GetBool("find-first")
		o.FindFirst = &v
	}
	if flags.Changed("lazy") {
		v, _ := flags.GetBool("lazy")
		o.LazyReplace = &v
	}
	if flags.Changed("log-dir") {
		v, _ := flags.GetString("log-dir")
		o.LogDir = &v
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		o.Color = &v
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		level := "debug"
		o.LogLevel = &level
	}
	for _, f := range fieldFlags {
		if on, _ := flags.GetBool(f.name); on {
			o.OutputFields = append(o.OutputFields, f.field)
		}
	}
	cfg.MergeWithFlags(o)

	if lazy, _ := flags.GetBool("lazy"); lazy && !flags.Changed("replace-dir") {
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.UseLine())
		return fmt.Errorf("%w: lazy replace (-l) requires replace mode (-R)", config.ErrUsage)
	}

	patternFile, _ := flags.GetString("patterns")
	outputDir, _ := flags.GetString("replace-dir")
	rc, err := cfg.Resolve(patternFile, outputDir, flags.Changed("replace-dir"), args)
	if err != nil {
		if errors.Is(err, config.ErrUsage) {
			fmt.Fprintln(cmd.ErrOrStderr(), cmd.UseLine())
		}
		return err
	}

	log := logger.Logger(logger.NewConsoleLogger(cmd.ErrOrStderr(), rc.LogLevel))
	if rc.LogDir != "" {
		fileLog, err := logger.NewFileLogger(rc.LogDir, rc.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer fileLog.Close()
		log = logger.NewMultiLogger(log, fileLog)
		log.LogDebug(fmt.Sprintf("Run log: %s (run %s)", fileLog.Path(), fileLog.RunID()))
	}

	r := newRunner(rc, log, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	defer r.release()
	return r.run()
}

// runner holds the state of one invocation: the loaded patterns and where
// output goes.
type runner struct {
	cfg    config.RunConfig
	log    logger.Logger
	stdin  io.Reader
	out    io.Writer
	errOut io.Writer

	arena *arena.Arena
	trie  *ahocorasick.Trie

	skipped []string
	matches int64
}

func newRunner(rc config.RunConfig, log logger.Logger, stdin io.Reader, out, errOut io.Writer) *runner {
	return &runner{
		cfg:    rc,
		log:    log,
		stdin:  stdin,
		out:    out,
		errOut: errOut,
		arena:  arena.New(),
		trie:   ahocorasick.New(),
	}
}

func (r *runner) run() error {
	start := time.Now()

	if err := r.load(); err != nil {
		return err
	}

	var files int
	var err error
	if r.cfg.Mode == config.ModeReplace {
		files, err = r.replace()
	} else {
		files, err = r.search()
	}
	if err != nil {
		return err
	}

	if len(r.skipped) > 0 {
		display.WarnSkippedFiles(r.skipped).Display(r.errOut)
	}
	r.log.LogRunSummary(logger.RunSummary{
		Mode:     r.cfg.Mode.String(),
		Files:    files,
		Failed:   len(r.skipped),
		Matches:  r.matches,
		Duration: time.Since(start),
	})
	return nil
}

// load reads the pattern file into the trie. Entries the trie rejects are
// skipped with a warning; a file that leaves nothing to do for the mode
// ends the run.
func (r *runner) load() error {
	r.log.LogInfo(fmt.Sprintf("Loading patterns from '%s'", r.cfg.PatternFile))

	cat := pattern.NewCatalog(r.arena, r.trie, r.log, r.cfg.Insensitive)
	if err := cat.LoadFile(r.cfg.PatternFile); err != nil {
		return err
	}

	st := cat.Stats()
	r.log.LogLoadSummary(logger.LoadSummary{
		PatternFile: r.cfg.PatternFile,
		Entries:     st.Entries,
		Added:       st.Added,
		Skipped:     st.Skipped,
		ArenaChunks: r.arena.NumChunks(),
	})
	r.log.LogDebug(fmt.Sprintf("Total patterns: %d", r.trie.PatternCount()))
	for _, p := range r.trie.Patterns() {
		r.log.LogTrace(fmt.Sprintf("  %s %s", p.ID, display.FormatPattern(p.Text)))
	}

	replaceMode := r.cfg.Mode == config.ModeReplace
	if r.trie.PatternCount() == 0 || (replaceMode && !r.trie.HasReplacement()) {
		display.WarnNoPatterns(r.cfg.PatternFile, replaceMode).Display(r.errOut)
		return errNoPatterns
	}
	return nil
}

func (r *runner) search() (int, error) {
	files, errs := fileutil.ExpandInputs(r.cfg.Inputs, r.cfg.Walk)
	for _, err := range errs {
		r.log.LogWarn(err.Error())
	}

	printer := display.NewMatchPrinter(r.out, r.cfg.Fields, useColor(r.cfg.Color, r.out))
	var printErr error
	sink := func(name string, start, item int64, p *ahocorasick.Pattern) bool {
		if err := printer.Print(name, item, start, p); err != nil {
			printErr = err
			return false
		}
		return !r.cfg.FindFirst
	}

	sc := stream.NewScanner(r.trie, sink, stream.Options{Insensitive: r.cfg.Insensitive})
	sc.Stdin = r.stdin

	progress := r.progress("Searching", len(files))
	for _, name := range files {
		if progress != nil {
			progress.Step(name)
		}
		c, err := sc.ScanFile(name)
		r.matches += c.Item
		if printErr != nil {
			return len(files), fmt.Errorf("failed to write results: %w", printErr)
		}
		if err != nil {
			r.fail(name, err)
			continue
		}
		r.log.LogTrace(fmt.Sprintf("%s: %d matches at %d positions", name, c.Item, c.Total))
	}
	if progress != nil {
		progress.Complete(len(r.skipped))
	}
	return len(files), nil
}

func (r *runner) replace() (int, error) {
	mode := ahocorasick.ReplaceNormal
	if r.cfg.LazyReplace {
		mode = ahocorasick.ReplaceLazy
	}
	resolver := outpath.New(r.cfg.OutputDir)

	rp := stream.NewReplacer(r.trie, resolver, mode, stream.Options{Insensitive: r.cfg.Insensitive})
	rp.Stdin = r.stdin
	rp.Stdout = r.out
	r.log.LogDebug(fmt.Sprintf("Replace mode: %s", mode))
	if !resolver.Stdout() {
		r.log.LogDebug(fmt.Sprintf("Output root: %s", resolver.Root()))
	}

	var progress *display.ProgressIndicator
	if !resolver.Stdout() {
		progress = r.progress("Replacing", len(r.cfg.Inputs))
	}
	for _, name := range r.cfg.Inputs {
		if progress != nil {
			progress.Step(name)
		}
		dest, err := rp.ReplaceFile(name)
		if err != nil {
			r.fail(name, err)
			continue
		}
		if dest != "" {
			fmt.Fprintf(r.out, "Successfully replaced: %s >> %s\n", name, dest)
		}
	}
	if progress != nil {
		progress.Complete(len(r.skipped))
	}
	return len(r.cfg.Inputs), nil
}

// progress returns an indicator on the error stream for verbose runs over
// more than one file, nil otherwise.
func (r *runner) progress(verb string, total int) *display.ProgressIndicator {
	verbose := r.cfg.LogLevel == "debug" || r.cfg.LogLevel == "trace"
	if !verbose || total < 2 {
		return nil
	}
	p := display.NewProgressIndicator(r.errOut, verb, total)
	p.Start()
	return p
}

func (r *runner) fail(name string, err error) {
	r.log.LogError(fmt.Sprintf("Skipping %s: %v", name, err))
	r.skipped = append(r.skipped, name)
}

func (r *runner) release() {
	r.trie.Release()
	r.arena.Release()
}

// useColor resolves the color setting for w. "auto" colors only terminals
// and honours NO_COLOR.
func useColor(setting string, w io.Writer) bool {
	switch setting {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
