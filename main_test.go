package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestExamplesCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(t, "examples", "--dir", dir, "--rows", "8", "--log-level", "error"))

	for _, name := range []string{"example1.xlsx", "example2.xlsx", "example3.xlsx"} {
		f, err := excelize.OpenFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		rows, err := f.GetRows("Sheet1")
		require.NoError(t, err)
		assert.Len(t, rows, 9, name)
		assert.Equal(t, []string{"", "one", "two", "three"}, rows[0], name)
		require.NoError(t, f.Close())
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "example1.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	id, err := f.GetCellStyle("Sheet1", "B2")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte("name,score,score_valid\nann,3,true\nben,-2,false\n"), 0o644))

	t.Run("xlsx", func(t *testing.T) {
		out := filepath.Join(dir, "out.xlsx")
		require.NoError(t, run(t, "export", "--in", in, "--out", out, "--remove-validation", "--sheet", "Scores", "--index-col", "name"))

		f, err := excelize.OpenFile(out)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Scores")
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"name", "score"}, {"ann", "3"}, {"ben", "-2"}}, rows)
	})

	t.Run("csv from report", func(t *testing.T) {
		cfg := filepath.Join(dir, "reports.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("reports:\n  - name: scores\n    query: SELECT 1\n    validation:\n      remove: true\n    export:\n      index: false\n"), 0o644))

		out := filepath.Join(dir, "out.csv")
		require.NoError(t, run(t, "export", "--in", in, "--out", out, "--config", cfg, "--report", "scores"))

		b, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "name,score\nann,3\nben,-2\n", string(b))
	})

	t.Run("bad input removes output", func(t *testing.T) {
		out := filepath.Join(dir, "bad.xlsx")
		err := run(t, "export", "--in", in, "--out", out, "--error-style", "nocolor")
		assert.Error(t, err)
		assert.NoFileExists(t, out)
	})
}
