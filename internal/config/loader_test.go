package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asimihsan/code-digest/internal/digest"
)

// Test Plan for the loader:
// - No config file yields the defaults
// - A config file overrides defaults, including nested language rules
// - Environment variables override the file
// - Invalid values fail validation at load time
// - Malformed YAML is reported as a read failure
// - An explicitly named config file must exist

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, ".code-digest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// Test: no config file yields the defaults
func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	defaults := Default()
	assert.Equal(t, defaults.Ignore, cfg.Ignore)
	assert.Equal(t, defaults.Unsupported, cfg.Unsupported)
	assert.Equal(t, defaults.Tree, cfg.Tree)
	assert.Equal(t, defaults.Workers, cfg.Workers)
	assert.Empty(t, cfg.Languages)
}

// Test: the config file overrides defaults, nested rules included
func TestLoad_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `
tree: true
workers: 3
unsupported: raw
ignore:
  - "node_modules/**"
  - "gen/**"
include:
  - "**/*.md"
languages:
  go:
    rules:
      - kind: import_declaration
        action: omit
      - kind: function_declaration
        action: keep
        within: source_file
`)

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.True(t, cfg.Tree)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.RawUnsupported())
	assert.Equal(t, []string{"node_modules/**", "gen/**"}, cfg.Ignore)
	assert.Equal(t, []string{"**/*.md"}, cfg.Include)

	require.Contains(t, cfg.Languages, "go")
	rules := cfg.Languages["go"].Rules
	require.Len(t, rules, 2)
	assert.Equal(t, digest.Rule{Kind: "import_declaration", Action: digest.ActionOmit}, rules[0])
	assert.Equal(t, digest.Rule{Kind: "function_declaration", Action: digest.ActionKeep, Within: "source_file"}, rules[1])
}

// Test: environment overrides the file
func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "workers: 3\n")

	t.Setenv("CODE_DIGEST_WORKERS", "5")
	t.Setenv("CODE_DIGEST_TREE", "true")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Workers)
	assert.True(t, cfg.Tree)
}

// Test: invalid values fail validation at load time
func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "workers: -2\n")

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWorkers)
	assert.Contains(t, err.Error(), "invalid configuration")
}

// Test: malformed YAML is a read failure
func TestLoad_MalformedYaml(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "tree: [unclosed\n")

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

// Test: an explicitly named config file is honored and required
func TestNewFileLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "digest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0644))

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)

	_, err = NewFileLoader(filepath.Join(dir, "missing.yaml")).Load()
	require.Error(t, err)
}
