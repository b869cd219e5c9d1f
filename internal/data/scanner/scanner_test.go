package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFileAt(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestScanFindsJSONLFiles(t *testing.T) {
	tempDir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	writeFileAt(t, filepath.Join(tempDir, "proj-a", "s1.jsonl"), base)
	writeFileAt(t, filepath.Join(tempDir, "proj-a", "notes.txt"), base)
	writeFileAt(t, filepath.Join(tempDir, "proj-b", "s2.jsonl"), base)

	files, err := NewFileScanner(tempDir).Scan()

	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, ".jsonl", filepath.Ext(f))
	}
}

func TestScanOrdersByModTimeDescending(t *testing.T) {
	tempDir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	oldest := filepath.Join(tempDir, "p", "oldest.jsonl")
	middle := filepath.Join(tempDir, "p", "middle.jsonl")
	newest := filepath.Join(tempDir, "p", "newest.jsonl")
	writeFileAt(t, oldest, base)
	writeFileAt(t, middle, base.Add(10*time.Minute))
	writeFileAt(t, newest, base.Add(20*time.Minute))

	files, err := NewFileScanner(tempDir).Scan()

	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, newest, files[0])
	assert.Equal(t, middle, files[1])
	assert.Equal(t, oldest, files[2])
}

func TestScanSkipsSubagentDirectories(t *testing.T) {
	tempDir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	writeFileAt(t, filepath.Join(tempDir, "proj", "main.jsonl"), base)
	writeFileAt(t, filepath.Join(tempDir, "proj", "subagents", "side.jsonl"), base)
	writeFileAt(t, filepath.Join(tempDir, "proj", "subagents", "nested", "deep.jsonl"), base)

	files, err := NewFileScanner(tempDir).Scan()

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(tempDir, "proj", "main.jsonl"), files[0])
}

func TestScanMissingDirectory(t *testing.T) {
	_, err := NewFileScanner(filepath.Join(t.TempDir(), "absent")).Scan()
	assert.Error(t, err)
}

func TestScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()

	require.NoError(t, err)
	assert.Empty(t, files)
}
