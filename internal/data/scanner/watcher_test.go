package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherEmitsTranscriptEvents(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher([]string{dir})
	require.NoError(t, err)
	defer fw.Close()

	// Non-transcript writes are filtered out; only the .jsonl write surfaces.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	transcript := filepath.Join(dir, "s1.jsonl")
	require.NoError(t, os.WriteFile(transcript, []byte("{}\n"), 0644))

	select {
	case event := <-fw.Events():
		assert.Equal(t, transcript, event.Path)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for transcript event")
	}
}

func TestFileWatcherMissingPath(t *testing.T) {
	fw, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "absent")})
	// A missing path is skipped by the recursive walk, not fatal.
	require.NoError(t, err)
	require.NoError(t, fw.Close())
}
