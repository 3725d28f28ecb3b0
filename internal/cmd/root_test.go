package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Help(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "multifast")
	assert.Contains(t, out, "Aho-Corasick")
	assert.Contains(t, out, "--patterns")
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand()

	shorthands := map[string]string{
		"patterns":     "P",
		"replace-dir":  "R",
		"lazy":         "l",
		"show-item":    "n",
		"show-dpos":    "d",
		"show-xpos":    "x",
		"show-id":      "r",
		"show-pattern": "p",
		"find-first":   "f",
		"insensitive":  "i",
		"verbose":      "v",
	}
	for name, short := range shorthands {
		f := cmd.Flags().Lookup(name)
		require.NotNil(t, f, "flag %s", name)
		assert.Equal(t, short, f.Shorthand, "flag %s", name)
	}
	for _, name := range []string{"config", "log-dir", "color"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestRootCommand_Version(t *testing.T) {
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), Version)
}
