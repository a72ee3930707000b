package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLayoutCheckDefault(t *testing.T) {
	out, err := runCmd(t, "layout", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "hero")
	assert.Contains(t, out, "ok: 8 sections")
	assert.NotContains(t, out, "missing target")
}

func TestLayoutCheckReportsMissingTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sections:
  - id: hero
    height: 600
    triggers:
      - id: hero-intro
        steps:
          - target: "#ghost"
            duration: 1
            to: {opacity: 1}
`), 0o644))

	out, err := runCmd(t, "layout", "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 step target(s) match nothing")
	assert.Contains(t, out, `missing target "#ghost"`)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(&globalFlags{debug: true})
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.NotEmpty(t, cfg.Listen)
}
