package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/locvowork/excelstyler/pkg/excelformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportYAML = `
reports:
  - name: scores
    query: SELECT name, score, score_valid FROM scores
    index_column: name
    export:
      sheet_name: Scores
      float_format: "%.1f"
      merge_cells: false
    validation:
      remove: true
      error_style:
        pattern:
          pattern: solid_fill
          fore_color: yellow
    rules:
      - column: score
        op: ">"
        value: 90
        style:
          font:
            bold: true
  - name: plain
    query: SELECT 1
`

func TestParseReportConfig(t *testing.T) {
	cfg, err := ParseReportConfig([]byte(reportYAML))
	require.NoError(t, err)
	require.Len(t, cfg.Reports, 2)

	r, ok := cfg.Find("scores")
	require.True(t, ok)
	assert.Equal(t, "name", r.IndexColumn)
	assert.Equal(t, "Scores", r.Export.SheetName)
	assert.Equal(t, "%.1f", r.Export.FloatFormat)
	assert.False(t, r.Export.MergeCells)
	assert.True(t, r.Export.Header, "omitted keys keep defaults")
	assert.True(t, r.Export.Index)
	assert.Equal(t, "inf", r.Export.InfRep)
	assert.True(t, r.Validation.Remove)
	assert.Len(t, r.Validation.Options(), 2)

	require.Len(t, r.Rules, 1)
	assert.Equal(t, ">", r.Rules[0].Op)
	assert.Equal(t, 90, r.Rules[0].Value)
	assert.Equal(t, excelformat.Descriptor{"font": {"bold": true}}, r.Rules[0].Style)

	plain, ok := cfg.Find("plain")
	require.True(t, ok)
	assert.Equal(t, "Sheet1", plain.Export.SheetName)
	assert.Len(t, plain.Validation.Options(), 1)

	_, ok = cfg.Find("missing")
	assert.False(t, ok)
}

func TestParseReportConfig_Errors(t *testing.T) {
	_, err := ParseReportConfig(nil)
	assert.Error(t, err)

	_, err = ParseReportConfig([]byte("reports:\n  - query: SELECT 1\n"))
	assert.Error(t, err)

	_, err = ParseReportConfig([]byte("reports:\n  - name: a\n  - name: a\n"))
	assert.Error(t, err)

	_, err = ParseReportConfig([]byte("reports: [\n"))
	assert.Error(t, err)
}

func TestLoadReportConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.yaml")
	require.NoError(t, os.WriteFile(path, []byte(reportYAML), 0o644))

	cfg, err := LoadReportConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Reports, 2)

	_, err = LoadReportConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvConfig(t *testing.T) {
	saved := DefaultEnvConfig
	defer func() { DefaultEnvConfig = saved }()

	env := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(env, []byte("APP_PORT=9090\nDB_HOST=db\n"), 0o644))
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")

	require.NoError(t, LoadEnvConfig(env))
	assert.Equal(t, "9090", DefaultEnvConfig.APP_PORT)
	assert.Equal(t, 6543, DefaultEnvConfig.DB_PORT)
	assert.Equal(t, 90*time.Second, DefaultEnvConfig.DB_CONN_MAX_LIFETIME)
	assert.True(t, DefaultEnvConfig.DBEnabled())

	os.Unsetenv("APP_PORT")
	os.Unsetenv("DB_HOST")

	require.NoError(t, LoadEnvConfig(filepath.Join(t.TempDir(), "missing.env")))

	t.Setenv("DB_PORT", "not-a-port")
	assert.Error(t, LoadEnvConfig(filepath.Join(t.TempDir(), "missing.env")))
}
