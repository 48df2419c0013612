package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// testEnv isolates viper, HOME and the pattern database for a command test.
type testEnv struct {
	t      *testing.T
	dir    string
	dbPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	viper.Reset()
	cfgFile = ""
	t.Cleanup(viper.Reset)

	return &testEnv{
		t:      t,
		dir:    dir,
		dbPath: filepath.Join(dir, "patterns.db"),
	}
}

// run executes the glyph command line with stdin and returns stdout.
func (e *testEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	viper.Reset()

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--db", e.dbPath, "--log-level", "error"}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(stdin string, args ...string) string {
	e.t.Helper()
	out, err := e.run(stdin, args...)
	require.NoError(e.t, err)
	return out
}

// glyphFile writes rows as a .txt glyph and returns its path.
func (e *testEnv) glyphFile(name string, rows ...string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name+".txt")
	require.NoError(e.t, os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o600))
	return path
}

var (
	rowsOne   = []string{".#.", "##.", ".#.", ".#.", "###"}
	rowsSeven = []string{"###", "..#", ".#.", ".#.", ".#."}
	rowsFour  = []string{"#.#", "#.#", "###", "..#", "..#"}
)
