package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded := expandPath("~/some/dir")
	assert.Equal(t, filepath.Join(home, "some/dir"), expanded)
}

func TestExpandPathAbsolute(t *testing.T) {
	assert.Equal(t, "/tmp/data", expandPath("/tmp/data"))
}

func TestExpandPathRelative(t *testing.T) {
	expanded := expandPath("relative/dir")
	assert.True(t, filepath.IsAbs(expanded))
	assert.True(t, strings.HasSuffix(expanded, "relative/dir"))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	require.NoError(t, ensureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent on existing directories.
	assert.NoError(t, ensureDir(dir))
}

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s1.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644))

	require.NoError(t, clearCache(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only cache JSON files are removed")
	assert.Equal(t, "keep.txt", entries[0].Name())
}

func TestClearCacheMissingDirectory(t *testing.T) {
	assert.NoError(t, clearCache(filepath.Join(t.TempDir(), "absent")))
}

func TestRootCommandFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.Flags().Lookup("model"))
	assert.NotNil(t, rootCmd.Flags().Lookup("cache-rate"))
	assert.NotNil(t, rootCmd.Flags().Lookup("turns"))
	assert.NotNil(t, rootCmd.Flags().Lookup("min-tokens"))
	assert.NotNil(t, rootCmd.Flags().Lookup("output"))
	assert.NotNil(t, rootCmd.Flags().Lookup("watch"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("dir"))

	assert.Equal(t, "sonnet", rootCmd.Flags().Lookup("model").DefValue)
	assert.Equal(t, "0.9", rootCmd.Flags().Lookup("cache-rate").DefValue)
	assert.Equal(t, "60", rootCmd.Flags().Lookup("turns").DefValue)
	assert.Equal(t, "5000", rootCmd.Flags().Lookup("min-tokens").DefValue)
}
