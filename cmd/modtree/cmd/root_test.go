package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}

	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	out := new(bytes.Buffer)
	resetFlags(rootCmd)
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func newModuleDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range map[string]string{
		"main.js":         "main",
		"lib/util.js":     "util",
		"lib/sub/deep.js": "deep",
	} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestResolveCommand(t *testing.T) {
	dir := newModuleDir(t)

	out, err := execute(t, "resolve", "--backend", "local://"+dir, "lib/util.js")
	require.NoError(t, err)
	assert.Contains(t, out, "/lib/util.js\tlib/util\n")

	_, err = execute(t, "resolve", "--backend", "local://"+dir, "lib/missing.js")
	assert.ErrorIs(t, err, errNotFound)

	_, err = execute(t, "resolve", "--backend", "local://"+dir, "../outside.js")
	assert.ErrorIs(t, err, errNotFound)
}

func TestLsCommand(t *testing.T) {
	dir := newModuleDir(t)

	out, err := execute(t, "ls", "--backend", "local://"+dir)
	require.NoError(t, err)
	assert.Equal(t, "main.js\n", out)

	out, err = execute(t, "ls", "-r", "--backend", "local://"+dir)
	require.NoError(t, err)
	assert.Equal(t, "main.js\nlib/util.js\nlib/sub/deep.js\n", out)

	out, err = execute(t, "ls", "--backend", "local://"+dir, "lib")
	require.NoError(t, err)
	assert.Equal(t, "lib/util.js\n", out)

	out, err = execute(t, "ls", "--backend", "local://"+dir, "missing")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCatCommand(t *testing.T) {
	dir := newModuleDir(t)

	out, err := execute(t, "cat", "--backend", "local://"+dir, "main.js", "lib/sub/deep.js")
	require.NoError(t, err)
	assert.Equal(t, "maindeep", out)

	_, err = execute(t, "cat", "--backend", "local://"+dir, "nope.js")
	assert.Error(t, err)
}

func TestInfoCommand(t *testing.T) {
	dir := newModuleDir(t)

	out, err := execute(t, "info", "--backend", "local://"+dir)
	require.NoError(t, err)
	assert.Contains(t, out, "backend:      local\n")
	assert.Contains(t, out, "capabilities: enumerate, streaming, persistent\n")
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := execute(t, "ls", "--backend", "ftp://nowhere")
	assert.Error(t, err)

	_, err = execute(t, "ls", "--backend", "memory:", "--log-level", "loud")
	assert.Error(t, err)

	_, err = execute(t, "ls", "--backend", "memory:", "--separators", "")
	assert.Error(t, err)
}
