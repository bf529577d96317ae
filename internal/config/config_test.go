package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAllEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvTogglToken, "toggl-secret")
	t.Setenv(EnvTogglWorkspace, "12345")
	t.Setenv(EnvUsername, "alice@example.com")
	t.Setenv(EnvAPIToken, "confluence-secret")
	t.Setenv(EnvBaseURL, "https://example.atlassian.net/wiki")
	t.Setenv(EnvPageID, "98765")
	t.Setenv(EnvDisplayName, "Alice")
}

func TestLoad_FromEnvironment(t *testing.T) {
	setAllEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "toggl-secret", cfg.TogglAPIToken)
	assert.Equal(t, "12345", cfg.TogglWorkspaceID)
	assert.Equal(t, "Alice", cfg.DisplayName)
	assert.False(t, cfg.Verbose)
}

func TestLoad_MissingVars_AllReported(t *testing.T) {
	setAllEnv(t)
	t.Setenv(EnvTogglToken, "")
	t.Setenv(EnvPageID, "")

	_, err := Load(t.TempDir())
	var merr *MissingVarsError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, []string{EnvTogglToken, EnvPageID}, merr.Vars)
	assert.Contains(t, err.Error(), EnvTogglToken)
	assert.Contains(t, err.Error(), EnvPageID)
}

func TestLoad_FileSuppliesNonSecrets_EnvOverrides(t *testing.T) {
	setAllEnv(t)
	t.Setenv(EnvPageID, "")
	t.Setenv(EnvDisplayName, "Alice From Env")

	dir := t.TempDir()
	yml := `pageId: "55555"
displayName: Alice From File
verbose: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "warsync.yml"), []byte(yml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "55555", cfg.ConfluencePageID, "file fills the gap")
	assert.Equal(t, "Alice From Env", cfg.DisplayName, "environment wins over file")
	assert.True(t, cfg.Verbose)
}

func TestLoadFile_MissingIsZeroValue(t *testing.T) {
	cfg, err := LoadFile(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &FileConfig{}, cfg)
}

func TestLoadFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "warsync.yaml"), []byte("pageId: [unclosed"), 0o644))

	_, err := LoadFile(dir)
	require.Error(t, err)
	assert.False(t, errors.As(err, new(*MissingVarsError)))
}
