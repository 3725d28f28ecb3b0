package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/multifast/internal/config"
	"github.com/harrison/multifast/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workspace moves the test into a fresh directory holding files and makes
// sure no config file outside it is picked up.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(config.ConfigEnv, filepath.Join(dir, "no-config.yaml"))
	t.Setenv("NO_COLOR", "1")

	for name, content := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
		require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRun_SearchDefaultFields(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":  "AX: {she}\nAX: {he}\nAX: {hers}\n",
		"in.txt": "ushers",
	})

	out, _, err := execute(t, "", "-P", "p.txt", "in.txt")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines, "in.txt: @2 {she}")
	assert.Contains(t, lines, "in.txt: @3 {he}")
	assert.Equal(t, "in.txt: @3 {hers}", lines[2])
}

func TestRun_SearchSelectedFields(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":  "AX: (word) {ab}\n",
		"in.txt": "xxab--ab",
	})

	out, _, err := execute(t, "", "-P", "p.txt", "-nxr", "in.txt")
	require.NoError(t, err)
	assert.Equal(t, "in.txt: #1 @00000003 word\nin.txt: #2 @00000007 word\n", out)
}

func TestRun_PositionsAreOneBased(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":  "AX: {ab}\n",
		"in.txt": "ab",
	})

	out, _, err := execute(t, "", "-P", "p.txt", "-dx", "in.txt")
	require.NoError(t, err)
	assert.Equal(t, "in.txt: @1 @00000001\n", out)
}

func TestRun_FindFirst(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt": "AX: {ab}\n",
		"a.txt": "ab ab ab",
		"b.txt": "--ab",
	})

	out, _, err := execute(t, "", "-P", "p.txt", "-f", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "a.txt: @1 {ab}\nb.txt: @3 {ab}\n", out)
}

func TestRun_Insensitive(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":  "AX: {HELLO}\n",
		"in.txt": "say Hello",
	})

	out, _, err := execute(t, "", "-P", "p.txt", "in.txt")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, _, err = execute(t, "", "-P", "p.txt", "-i", "in.txt")
	require.NoError(t, err)
	assert.Equal(t, "in.txt: @5 {hello}\n", out)
}

func TestRun_SearchStdin(t *testing.T) {
	workspace(t, map[string]string{"p.txt": "AX: {ab}\n"})

	out, _, err := execute(t, "zab", "-P", "p.txt", "-")
	require.NoError(t, err)
	assert.Equal(t, "@2 {ab}\n", out)
}

func TestRun_SearchDirectory(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":          "AX: {ab}\n",
		"docs/a.txt":     "ab",
		"docs/sub/b.txt": "-ab",
		"docs/.git/HEAD": "ab",
	})

	out, _, err := execute(t, "", "-P", "p.txt", "docs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("docs", "a.txt")+": @1 {ab}\n"+
		filepath.Join("docs", "sub", "b.txt")+": @2 {ab}\n", out)
}

func TestRun_MissingInputIsSkipped(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":  "AX: {ab}\n",
		"in.txt": "ab",
	})

	out, errOut, err := execute(t, "", "-P", "p.txt", "missing.txt", "in.txt")
	require.NoError(t, err)
	assert.Equal(t, "in.txt: @1 {ab}\n", out)
	assert.Contains(t, errOut, "Skipping missing.txt")
	assert.Contains(t, errOut, "1 input file skipped")
}

func TestRun_ReplaceToStdout(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":  "AX: {cat} {dog}\nAX: {bird}\n",
		"in.txt": "a cat and a bird",
	})

	out, _, err := execute(t, "", "-P", "p.txt", "--replace-dir=-", "in.txt")
	require.NoError(t, err)
	assert.Equal(t, "a dog and a bird", out)
}

func TestRun_ReplaceStdinToStdout(t *testing.T) {
	workspace(t, map[string]string{"p.txt": "AX: {abc} {X}\nAX: {bcd} {Y}\n"})

	out, _, err := execute(t, "abcd", "-P", "p.txt", "--replace-dir=-", "-")
	require.NoError(t, err)
	assert.Equal(t, "XY", out)

	out, _, err = execute(t, "abcd", "-P", "p.txt", "--replace-dir=-", "-l", "-")
	require.NoError(t, err)
	assert.Equal(t, "Xd", out)
}

func TestRun_ReplaceIntoDirectory(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":      "AX: {cat} {dog}\n",
		"src/in.txt": "cat cat",
	})

	out, _, err := execute(t, "", "-P", "p.txt", "-R", "out", filepath.Join("src", "in.txt"))
	require.NoError(t, err)

	dest := "out/" + filepath.Join("src", "in.txt")
	assert.Equal(t, "Successfully replaced: "+filepath.Join("src", "in.txt")+" >> "+dest+"\n", out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "dog dog", string(data))
}

func TestRun_NoPatterns(t *testing.T) {
	workspace(t, map[string]string{
		"empty.txt":  "# nothing here\n",
		"search.txt": "AX: {ab}\n",
		"in.txt":     "ab",
	})

	_, errOut, err := execute(t, "", "-P", "empty.txt", "in.txt")
	require.ErrorIs(t, err, errNoPatterns)
	assert.Contains(t, errOut, "No pattern to search")

	_, errOut, err = execute(t, "", "-P", "search.txt", "-R", "out", "in.txt")
	require.ErrorIs(t, err, errNoPatterns)
	assert.Contains(t, errOut, "No pattern was specified for replacement")
	assert.NoDirExists(t, "out")
}

func TestRun_UsageErrors(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":  "AX: {ab} {cd}\n",
		"in.txt": "ab",
	})

	tests := []struct {
		name string
		args []string
	}{
		{"no pattern file", []string{"in.txt"}},
		{"no inputs", []string{"-P", "p.txt"}},
		{"lazy without replace", []string{"-P", "p.txt", "-l", "in.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, err := execute(t, "", tt.args...)
			require.ErrorIs(t, err, config.ErrUsage)
			assert.Contains(t, errOut, "multifast -P pattern_file")
		})
	}
}

func TestRun_MalformedPatternFile(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":  "AX: {ab\n",
		"in.txt": "ab",
	})

	_, _, err := execute(t, "", "-P", "p.txt", "in.txt")
	require.ErrorIs(t, err, pattern.ErrTruncated)

	require.NoError(t, os.WriteFile("p.txt", []byte("AX: {ab} ?"), 0o644))
	_, _, err = execute(t, "", "-P", "p.txt", "in.txt")
	require.ErrorIs(t, err, pattern.ErrMalformed)
}

func TestRun_ConfigFile(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":   "AX: (x) {ab}\n",
		"in.txt":  "ab",
		"mf.yaml": "output_fields: [item, id]\n",
	})

	out, _, err := execute(t, "", "--config", "mf.yaml", "-P", "p.txt", "in.txt")
	require.NoError(t, err)
	assert.Equal(t, "in.txt: #1 x\n", out)

	// flags replace the configured field list
	out, _, err = execute(t, "", "--config", "mf.yaml", "-P", "p.txt", "-d", "in.txt")
	require.NoError(t, err)
	assert.Equal(t, "in.txt: @1\n", out)
}

func TestRun_ConfigLazyOnlyAffectsReplace(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":   "AX: {abc} {X}\nAX: {bcd} {Y}\n",
		"in.txt":  "abcd",
		"mf.yaml": "lazy_replace: true\n",
	})

	out, _, err := execute(t, "", "--config", "mf.yaml", "-P", "p.txt", "-p", "in.txt")
	require.NoError(t, err, "a configured default must not break search runs")
	assert.Equal(t, "in.txt: {abc}\nin.txt: {bcd}\n", out)

	out, _, err = execute(t, "", "--config", "mf.yaml", "-P", "p.txt", "--replace-dir=-", "in.txt")
	require.NoError(t, err)
	assert.Equal(t, "Xd", out)
}

func TestRun_WalkPatternFromConfig(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":      "AX: {ab}\n",
		"docs/a.txt": "ab",
		"docs/b.log": "ab",
		"mf.yaml":    "walk:\n  pattern: '\\.log$'\n",
	})

	out, _, err := execute(t, "", "--config", "mf.yaml", "-P", "p.txt", "docs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("docs", "b.log")+": @1 {ab}\n", out)
}

func TestRun_InvalidConfig(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":   "AX: {ab}\n",
		"in.txt":  "ab",
		"mf.yaml": "color: sometimes\n",
	})

	_, _, err := execute(t, "", "--config", "mf.yaml", "-P", "p.txt", "in.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid color")
}

func TestRun_LogDir(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":  "AX: {ab}\n",
		"in.txt": "ab",
	})

	_, _, err := execute(t, "", "-P", "p.txt", "--log-dir", "logs", "in.txt")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join("logs", "latest.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "multifast run log")
}

func TestRun_VerboseProgress(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt": "AX: {ab}\n",
		"a.txt": "ab",
		"b.txt": "ab",
	})

	_, errOut, err := execute(t, "", "-P", "p.txt", "-v", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Loading patterns from 'p.txt'")
	assert.Contains(t, errOut, "Searching 2 files:")
	assert.Contains(t, errOut, "[2/2] b.txt")
}

func TestRun_TraceListsPatterns(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":   "AX: {ab}\nAX: (named) {cd}\n",
		"in.txt":  "ab",
		"mf.yaml": "log_level: trace\n",
	})

	_, errOut, err := execute(t, "", "--config", "mf.yaml", "-P", "p.txt", "in.txt")
	require.NoError(t, err)
	assert.Contains(t, errOut, "p000001 {ab}")
	assert.Contains(t, errOut, "named {cd}")
}

func TestRun_VerboseReplaceLogsOutputRoot(t *testing.T) {
	workspace(t, map[string]string{
		"p.txt":  "AX: {ab} {cd}\n",
		"in.txt": "ab",
	})

	_, errOut, err := execute(t, "", "-P", "p.txt", "-v", "-R", "out", "in.txt")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Output root: out/")
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, useColor("always", &buf))
	assert.False(t, useColor("never", os.Stdout))
	assert.False(t, useColor("auto", &buf))
}
